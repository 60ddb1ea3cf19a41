package engine

import (
	"context"
	"sync"
	"time"

	"sor/internal/adapters/ai"
	"sor/internal/domain/agent"
	"sor/internal/domain/project"
	"sor/internal/domain/stage"
	"sor/internal/metrics"
	"sor/pkg/logger"
)

// AuditPublisher receives a copy of every emitted event for the audit trail.
// Implementations must not block the run.
type AuditPublisher interface {
	PublishEvent(ctx context.Context, projectID string, ev Event)
}

// Orchestrator runs a single research stage: invokes every enabled agent
// concurrently with staggered starts, detects conflicts between their
// outputs, persists the stage result, and streams progress events.
type Orchestrator struct {
	llm          LLM
	stages       stage.Repository
	conflicts    *Synthesizer
	audit        AuditPublisher
	staggerDelay time.Duration
	defaultModel string
	maxTokens    int
	log          *logger.Logger
}

// NewOrchestrator creates a stage orchestrator. audit may be nil.
func NewOrchestrator(
	llm LLM,
	stages stage.Repository,
	conflicts *Synthesizer,
	audit AuditPublisher,
	staggerDelay time.Duration,
	defaultModel string,
	maxTokens int,
) *Orchestrator {
	return &Orchestrator{
		llm:          llm,
		stages:       stages,
		conflicts:    conflicts,
		audit:        audit,
		staggerDelay: staggerDelay,
		defaultModel: defaultModel,
		maxTokens:    maxTokens,
		log:          logger.Get().With("component", "orchestrator"),
	}
}

// Run executes a stage and returns a channel of progress events. The channel
// is buffered to hold the whole event sequence, so the run finishes and
// persists its result even if the consumer stops reading.
func (o *Orchestrator) Run(ctx context.Context, p *project.Project, stageNumber int, agents []agent.Agent) <-chan Event {
	enabled := make([]agent.Agent, 0, len(agents))
	for _, a := range agents {
		if a.Enabled {
			enabled = append(enabled, a)
		}
	}

	ch := make(chan Event, 2*len(enabled)+6)
	go func() {
		defer close(ch)
		o.runStage(ctx, ch, p, stageNumber, enabled)
	}()
	return ch
}

func (o *Orchestrator) runStage(ctx context.Context, ch chan<- Event, p *project.Project, stageNumber int, enabled []agent.Agent) {
	start := time.Now()
	emit := func(ev Event) {
		if o.audit != nil {
			o.audit.PublishEvent(ctx, p.ID, ev)
		}
		ch <- ev
	}

	emit(newEvent(EventStageStart, map[string]interface{}{
		"project_id":   p.ID,
		"stage_number": stageNumber,
		"agent_count":  len(enabled),
	}))

	if len(enabled) == 0 {
		emit(newEvent(EventStageComplete, map[string]interface{}{
			"project_id":   p.ID,
			"stage_number": stageNumber,
			"status":       "complete",
			"message":      "No enabled agents for this stage.",
		}))
		return
	}

	priorContext := BuildPriorContext(p, stageNumber)
	userMessage := BuildUserMessage(p, priorContext)

	for _, a := range enabled {
		emit(newAgentEvent(EventAgentStart, a.ID, a.Name, map[string]interface{}{
			"stage": stageNumber,
		}))
	}

	// Staggered starts keep a burst of agents from tripping provider rate
	// limits all at once.
	outputs := make([]stage.AgentOutput, len(enabled))
	var wg sync.WaitGroup
	for i, a := range enabled {
		wg.Add(1)
		go func(idx int, a agent.Agent) {
			defer wg.Done()
			delay := time.Duration(idx) * o.staggerDelay
			if delay > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(delay):
				}
			}
			outputs[idx] = o.runSingleAgent(ctx, a, userMessage, p.ID)
		}(i, a)
	}
	wg.Wait()

	for _, output := range outputs {
		if output.Status == stage.OutputError {
			errMsg := output.Error
			if errMsg == "" {
				errMsg = "Unknown error"
			}
			emit(newAgentEvent(EventAgentError, output.AgentID, output.AgentName, map[string]interface{}{
				"stage": stageNumber,
				"error": errMsg,
			}))
		} else {
			emit(newAgentEvent(EventAgentComplete, output.AgentID, output.AgentName, map[string]interface{}{
				"stage":          stageNumber,
				"content_length": len(output.Content),
			}))
		}
	}

	emit(newEvent(EventConflictStart, map[string]interface{}{
		"project_id":   p.ID,
		"stage_number": stageNumber,
		"agent_count":  len(outputs),
	}))

	successful := make([]stage.AgentOutput, 0, len(outputs))
	for _, output := range outputs {
		if output.Status == stage.OutputComplete {
			successful = append(successful, output)
		}
	}
	report := o.conflicts.Detect(ctx, successful, stageNumber)

	emit(newEvent(EventConflictComplete, map[string]interface{}{
		"project_id":    p.ID,
		"stage_number":  stageNumber,
		"agreements":    len(report.Agreements),
		"disagreements": len(report.Disagreements),
		"synthesis":     report.Synthesis,
	}))

	result := stage.NewResult(p.ID, stageNumber)
	result.Status = stage.StatusComplete
	result.AgentOutputs = outputs
	result.ConflictReport = report

	if err := o.stages.Save(ctx, result); err != nil {
		o.log.Errorw("Failed to persist stage result",
			"project_id", p.ID, "stage", stageNumber, "error", err)
		metrics.RecordStageRun(stage.Name(stageNumber), time.Since(start), err)
		emit(newEvent(EventStageComplete, map[string]interface{}{
			"project_id":   p.ID,
			"stage_number": stageNumber,
			"status":       "error",
			"error":        "Failed to persist stage result.",
		}))
		return
	}

	metrics.RecordStageRun(stage.Name(stageNumber), time.Since(start), nil)
	emit(newEvent(EventStageComplete, map[string]interface{}{
		"project_id":      p.ID,
		"stage_number":    stageNumber,
		"status":          "complete",
		"stage_result_id": result.ID,
		"agent_outputs":   len(outputs),
		"agreements":      len(report.Agreements),
		"disagreements":   len(report.Disagreements),
	}))
}

// runSingleAgent invokes one agent and converts any failure into an error
// status output so a single bad call never aborts the stage.
func (o *Orchestrator) runSingleAgent(ctx context.Context, a agent.Agent, userMessage, projectID string) stage.AgentOutput {
	model := a.Model
	if model == "" {
		model = o.defaultModel
	}

	start := time.Now()
	resp, err := o.llm.Complete(ctx, ai.ChatRequest{
		Model:       model,
		System:      a.SystemPrompt,
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: userMessage}},
		Temperature: a.Temperature,
		MaxTokens:   o.maxTokens,
	})
	metrics.RecordAgentRun(a.ID, model, time.Since(start), err)

	output := stage.AgentOutput{
		ID:        stage.NewID(),
		AgentID:   a.ID,
		AgentName: a.Name,
		Stage:     a.Stage,
		ProjectID: projectID,
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		o.log.Errorw("Agent failed", "agent", a.Name, "model", model, "error", err)
		output.Status = stage.OutputError
		output.Error = err.Error()
		return output
	}

	output.Status = stage.OutputComplete
	output.Content = resp.Content
	return output
}
