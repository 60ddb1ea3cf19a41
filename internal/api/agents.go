package api

import (
	"net/http"
	"strconv"

	"sor/internal/domain/agent"
	"sor/internal/domain/stage"
	"sor/pkg/errors"
)

type createAgentRequest struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Role             string   `json:"role"`
	Perspective      string   `json:"perspective"`
	SystemPrompt     string   `json:"system_prompt"`
	Stage            int      `json:"stage"`
	Temperature      float64  `json:"temperature"`
	Model            string   `json:"model"`
	ConflictPartners []string `json:"conflict_partners"`
	ProjectID        *string  `json:"project_id"`
}

type updateAgentRequest struct {
	Name             *string   `json:"name"`
	Role             *string   `json:"role"`
	Perspective      *string   `json:"perspective"`
	SystemPrompt     *string   `json:"system_prompt"`
	Temperature      *float64  `json:"temperature"`
	Model            *string   `json:"model"`
	ConflictPartners *[]string `json:"conflict_partners"`
	Enabled          *bool     `json:"enabled"`
}

// ListAgents lists agent configurations. Without ?project_id it returns the
// default templates; with it, the agents cloned into that project's scope.
// ?stage=N narrows either listing.
func (h *Handlers) ListAgents(w http.ResponseWriter, r *http.Request) {
	filter := agent.Filter{}
	if raw := r.URL.Query().Get("project_id"); raw != "" {
		projectID := raw
		filter.ProjectID = &projectID
	}
	if raw := r.URL.Query().Get("stage"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrInvalidInput, "stage must be a number"))
			return
		}
		filter.Stage = &n
	}

	agents, err := h.agents.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agents)
}

// ListDefaultAgents returns the global default templates.
func (h *Handlers) ListDefaultAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.agents.List(r.Context(), agent.Filter{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agents)
}

// CreateAgent registers a new agent configuration.
func (h *Handlers) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" || req.SystemPrompt == "" {
		writeError(w, errors.Wrap(errors.ErrInvalidInput, "name and system_prompt are required"))
		return
	}
	if req.Stage < stage.MinStage || req.Stage > stage.MaxStage {
		writeError(w, errors.Wrapf(errors.ErrStageOutOfRange, "stage %d", req.Stage))
		return
	}
	if req.ID == "" {
		req.ID = agent.NewID()
	}

	a := &agent.Agent{
		ID:               req.ID,
		Name:             req.Name,
		Role:             req.Role,
		Perspective:      req.Perspective,
		SystemPrompt:     req.SystemPrompt,
		Stage:            req.Stage,
		Temperature:      req.Temperature,
		Model:            req.Model,
		ConflictPartners: req.ConflictPartners,
		Enabled:          true,
		ProjectID:        req.ProjectID,
	}
	if err := h.agents.Create(r.Context(), a); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// GetAgent returns one agent configuration.
func (h *Handlers) GetAgent(w http.ResponseWriter, r *http.Request) {
	a, err := h.agents.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// UpdateAgent applies a partial update to an agent.
func (h *Handlers) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	var req updateAgentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	fields := agent.UpdateFields{
		Name:             req.Name,
		Role:             req.Role,
		Perspective:      req.Perspective,
		SystemPrompt:     req.SystemPrompt,
		Temperature:      req.Temperature,
		Model:            req.Model,
		ConflictPartners: req.ConflictPartners,
		Enabled:          req.Enabled,
	}
	if err := h.agents.Update(r.Context(), id, fields); err != nil {
		writeError(w, err)
		return
	}

	a, err := h.agents.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAgent removes an agent configuration.
func (h *Handlers) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	if err := h.agents.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ToggleAgent flips an agent's enabled flag.
func (h *Handlers) ToggleAgent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	enabled, err := h.agentSvc.Toggle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id,
		"enabled": enabled,
	})
}
