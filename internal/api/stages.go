package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"sor/internal/domain/agent"
	"sor/internal/domain/project"
	"sor/internal/domain/stage"
	"sor/internal/engine"
	"sor/internal/metrics"
	"sor/pkg/errors"
)

type overrideStageRequest struct {
	Content string `json:"content"`
	Notes   string `json:"notes"`
}

func stageNumberFromPath(r *http.Request) (int, error) {
	n, err := strconv.Atoi(r.PathValue("stage"))
	if err != nil {
		return 0, errors.Wrap(errors.ErrInvalidInput, "stage must be a number")
	}
	if n < stage.MinStage || n > stage.MaxStage {
		return 0, errors.Wrapf(errors.ErrStageOutOfRange, "stage %d", n)
	}
	return n, nil
}

// ListStages returns every stage result for a project in stage order.
func (h *Handlers) ListStages(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if _, err := h.projects.GetByID(r.Context(), projectID); err != nil {
		writeError(w, err)
		return
	}

	results, err := h.stages.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// GetStage returns one stage result.
func (h *Handlers) GetStage(w http.ResponseWriter, r *http.Request) {
	stageNumber, err := stageNumberFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.stages.GetByStage(r.Context(), r.PathValue("id"), stageNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ApproveStage marks a completed stage approved and advances the project.
func (h *Handlers) ApproveStage(w http.ResponseWriter, r *http.Request) {
	stageNumber, err := stageNumberFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := h.projectSvc.Approve(r.Context(), r.PathValue("id"), stageNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// OverrideStage stores a human-authored replacement for a stage's outcome.
func (h *Handlers) OverrideStage(w http.ResponseWriter, r *http.Request) {
	stageNumber, err := stageNumberFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req overrideStageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Content == "" {
		writeError(w, errors.Wrap(errors.ErrInvalidInput, "content is required"))
		return
	}

	result, err := h.projectSvc.SetOverride(r.Context(), r.PathValue("id"), stageNumber, req.Content, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RunStage executes a stage and streams progress as server-sent events. The
// run itself is detached from the client connection: a dropped consumer does
// not abort the stage.
func (h *Handlers) RunStage(w http.ResponseWriter, r *http.Request) {
	stageNumber, err := stageNumberFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := h.projects.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := checkPriorStagesApproved(p, stageNumber); err != nil {
		writeError(w, err)
		return
	}

	agents, err := h.agents.List(r.Context(), agent.Filter{ProjectID: &p.ID, Stage: &stageNumber})
	if err != nil {
		writeError(w, err)
		return
	}
	if countEnabled(agents) == 0 {
		writeError(w, errors.Wrapf(errors.ErrNoAgents, "stage %d", stageNumber))
		return
	}

	lockKey := "stage-run:" + p.ID
	acquired, err := h.locks.AcquireLock(r.Context(), lockKey, h.runLockTTL)
	if err != nil {
		writeError(w, errors.Wrap(err, "acquire run lock"))
		return
	}
	if !acquired {
		writeError(w, errors.Wrapf(errors.ErrRunInProgress, "project %s", p.ID))
		return
	}
	defer func() {
		if err := h.locks.ReleaseLock(context.WithoutCancel(r.Context()), lockKey); err != nil {
			h.log.Warnw("Failed to release run lock", "project_id", p.ID, "error", err)
		}
	}()

	if err := h.markProjectRunning(r.Context(), p, stageNumber); err != nil {
		writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, errors.New("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	stageLabel := stage.Name(stageNumber)
	metrics.SSEStreams.WithLabelValues(stageLabel).Inc()
	defer metrics.SSEStreams.WithLabelValues(stageLabel).Dec()

	// The run keeps going if the client disconnects; remaining events are
	// drained so the result is still persisted.
	runCtx := context.WithoutCancel(r.Context())
	events := h.orchestrator.Run(runCtx, p, stageNumber, agents)

	clientGone := false
	for ev := range events {
		if clientGone {
			continue
		}
		if err := writeSSEEvent(w, ev); err != nil {
			h.log.Warnw("SSE client disconnected mid-run",
				"project_id", p.ID, "stage", stageNumber)
			clientGone = true
			continue
		}
		flusher.Flush()
	}

	h.notifier.NotifyStageAwaitingApproval(p.Name, stageNumber)
}

func writeSSEEvent(w http.ResponseWriter, ev engine.Event) error {
	payload := make(map[string]interface{}, len(ev.Data)+3)
	for k, v := range ev.Data {
		payload[k] = v
	}
	if ev.AgentID != "" {
		payload["agent_id"] = ev.AgentID
	}
	if ev.AgentName != "" {
		payload["agent_name"] = ev.AgentName
	}
	payload["timestamp"] = ev.Timestamp

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
	return err
}

// checkPriorStagesApproved enforces the gate: every stage before the one
// being run must have an approved result.
func checkPriorStagesApproved(p *project.Project, stageNumber int) error {
	approved := make(map[int]bool, len(p.StageResults))
	for _, sr := range p.StageResults {
		approved[sr.StageNumber] = sr.Status == stage.StatusApproved
	}
	for n := stage.MinStage; n < stageNumber; n++ {
		if !approved[n] {
			return errors.Wrapf(errors.ErrStageNotApproved, "stage %d", n)
		}
	}
	return nil
}

func countEnabled(agents []agent.Agent) int {
	count := 0
	for _, a := range agents {
		if a.Enabled {
			count++
		}
	}
	return count
}

func (h *Handlers) markProjectRunning(ctx context.Context, p *project.Project, stageNumber int) error {
	state := project.StateInProgress
	fields := project.UpdateFields{State: &state}
	if stageNumber > p.CurrentStage {
		n := stageNumber
		fields.CurrentStage = &n
	}
	return h.projects.Update(ctx, p.ID, fields)
}
