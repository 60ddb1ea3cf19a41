package api

import (
	"net/http"

	"sor/internal/domain/project"
	"sor/pkg/errors"
)

type createProjectRequest struct {
	Name             string `json:"name"`
	ResearchQuestion string `json:"research_question"`
	Context          string `json:"context"`
}

type updateProjectRequest struct {
	Name             *string `json:"name"`
	ResearchQuestion *string `json:"research_question"`
	Context          *string `json:"context"`
}

// CreateProject creates a project and clones the default agent roster into
// its scope.
func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ResearchQuestion == "" {
		writeError(w, errors.Wrap(errors.ErrInvalidInput, "research_question is required"))
		return
	}
	if req.Name == "" {
		req.Name = req.ResearchQuestion
	}

	p := project.New(req.Name, req.ResearchQuestion, req.Context)
	if err := h.projects.Create(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.agentSvc.CloneDefaultsForProject(r.Context(), p.ID); err != nil {
		h.log.Errorw("Failed to clone default agents", "project_id", p.ID, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// ListProjects returns all projects, newest first, without stage results.
func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// GetProject returns one project with its stage results.
func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProject applies a partial update to a project.
func (h *Handlers) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	fields := project.UpdateFields{
		Name:             req.Name,
		ResearchQuestion: req.ResearchQuestion,
		Context:          req.Context,
	}
	if err := h.projects.Update(r.Context(), id, fields); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.projects.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProject removes a project and all its dependent rows.
func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// GenerateReport builds a final research report from the project's stage
// results.
func (h *Handlers) GenerateReport(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if len(p.StageResults) == 0 {
		writeError(w, errors.Wrap(errors.ErrInvalidInput, "no stage results to report on"))
		return
	}

	report, err := h.reports.Build(r.Context(), p)
	if err != nil {
		h.log.Errorw("Report generation failed", "project_id", p.ID, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"project_id": p.ID,
		"report":     report,
	})
}
