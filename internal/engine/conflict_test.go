package engine

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sor/internal/adapters/ai"
	"sor/internal/domain/stage"
	"sor/pkg/errors"
)

// fakeLLM scripts responses per system prompt so tests can distinguish the
// detection pass from the probe pass.
type fakeLLM struct {
	mu         sync.Mutex
	completeFn func(req ai.ChatRequest) (*ai.ChatResponse, error)
	jsonFn     func(req ai.ChatRequest, out interface{}) error
	requests   []ai.ChatRequest
}

func (f *fakeLLM) Complete(_ context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.completeFn == nil {
		return &ai.ChatResponse{Content: "ok"}, nil
	}
	return f.completeFn(req)
}

func (f *fakeLLM) CompleteJSON(_ context.Context, req ai.ChatRequest, out interface{}) (*ai.ChatResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.jsonFn == nil {
		return nil, errors.ErrNotImplemented
	}
	if err := f.jsonFn(req, out); err != nil {
		return nil, err
	}
	return &ai.ChatResponse{Content: "{}"}, nil
}

func (f *fakeLLM) jsonCalls() []ai.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]ai.ChatRequest(nil), f.requests...)
	return out
}

func fillJSON(t *testing.T, raw string, out interface{}) error {
	t.Helper()
	return json.Unmarshal([]byte(raw), out)
}

func sampleOutputs(n int) []stage.AgentOutput {
	names := []string{"The Scoper", "The Expander", "The Skeptic"}
	outputs := make([]stage.AgentOutput, 0, n)
	for i := 0; i < n; i++ {
		outputs = append(outputs, stage.AgentOutput{
			ID:        stage.NewID(),
			AgentID:   names[i],
			AgentName: names[i],
			Stage:     1,
			ProjectID: "p1",
			Content:   "analysis " + names[i],
			Status:    stage.OutputComplete,
		})
	}
	return outputs
}

func TestDetectNoOutputs(t *testing.T) {
	llm := &fakeLLM{}
	s := NewSynthesizer(llm, "claude-sonnet-4-20250514", 4096, 0.2)

	report := s.Detect(context.Background(), nil, 2)

	assert.Equal(t, 2, report.Stage)
	assert.Equal(t, "No agent outputs to analyze.", report.Synthesis)
	assert.Empty(t, llm.jsonCalls(), "no LLM call expected")
}

func TestDetectSingleOutput(t *testing.T) {
	llm := &fakeLLM{}
	s := NewSynthesizer(llm, "claude-sonnet-4-20250514", 4096, 0.2)

	report := s.Detect(context.Background(), sampleOutputs(1), 1)

	assert.Contains(t, report.Synthesis, "Only one agent (The Scoper)")
	assert.Contains(t, report.Synthesis, "No cross-agent comparison is possible.")
	assert.Empty(t, llm.jsonCalls())
}

func TestDetectParsesFullReport(t *testing.T) {
	detection := `{
		"agreements": [{"topic": "Churn driver", "summary": "Both blame onboarding",
			"supporting_agents": ["The Scoper", "The Expander"], "evidence": ["support tickets"]}],
		"disagreements": [{"topic": "Scope", "summary": "Narrow vs broad", "positions": [
			{"agent_name": "The Scoper", "position": "narrow", "evidence": "brief", "confidence": 0.8},
			{"agent_name": "The Expander", "position": "broad", "evidence": "adjacent data", "confidence": 0.6}]}],
		"unresolved_tensions": ["timeline"],
		"within_agent_contradictions": ["The Scoper: states X then not-X"],
		"evidence_chain_breaks": ["The Expander: cites no source for claim Y"],
		"synthesis": "Agents converge on onboarding but split on scope."
	}`
	llm := &fakeLLM{jsonFn: func(req ai.ChatRequest, out interface{}) error {
		return fillJSON(t, detection, out)
	}}
	s := NewSynthesizer(llm, "claude-sonnet-4-20250514", 4096, 0.2)

	report := s.Detect(context.Background(), sampleOutputs(2), 1)

	require.Len(t, report.Agreements, 1)
	require.Len(t, report.Disagreements, 1)
	assert.Equal(t, []string{"timeline"}, report.UnresolvedTensions)
	assert.Len(t, report.WithinAgentContradictions, 1)
	assert.Len(t, report.EvidenceChainBreaks, 1)
	assert.Equal(t, "Agents converge on onboarding but split on scope.", report.Synthesis)
	assert.InDelta(t, 0.8, report.Disagreements[0].Positions[0].Confidence, 0.001)

	calls := llm.jsonCalls()
	require.Len(t, calls, 1, "disagreements found, probe must not run")
	assert.Equal(t, 0.0, calls[0].Temperature)
	assert.Equal(t, conflictDetectionPrompt, calls[0].System)
}

func TestDetectDegradesOnParseFailure(t *testing.T) {
	llm := &fakeLLM{jsonFn: func(req ai.ChatRequest, out interface{}) error {
		return &ai.ParseError{Raw: "not json", Err: errors.New("invalid character")}
	}}
	s := NewSynthesizer(llm, "claude-sonnet-4-20250514", 4096, 0.2)

	report := s.Detect(context.Background(), sampleOutputs(2), 3)

	assert.Equal(t, 3, report.Stage)
	assert.Equal(t, "Conflict detection failed: unable to parse LLM response.", report.Synthesis)
	assert.Equal(t, []string{"Automated conflict analysis was unsuccessful."}, report.UnresolvedTensions)
	assert.Empty(t, report.Disagreements)
	require.Len(t, llm.jsonCalls(), 1, "degraded report must not trigger the probe")
}

func TestDetectProbesWhenNoDisagreements(t *testing.T) {
	firstPass := `{
		"agreements": [], "disagreements": [],
		"unresolved_tensions": ["first-pass tension"],
		"synthesis": "All agents agree."
	}`
	probe := `{
		"disagreements": [{"topic": "Emphasis", "summary": "Subtle priority split", "positions": [
			{"agent_name": "The Scoper", "position": "X first", "evidence": "ordering", "confidence": 0.7},
			{"agent_name": "The Expander", "position": "Y first", "evidence": "ordering", "confidence": 0.6}]}],
		"unresolved_tensions": ["probe tension"]
	}`
	llm := &fakeLLM{jsonFn: func(req ai.ChatRequest, out interface{}) error {
		if req.System == disagreementProbePrompt {
			return fillJSON(t, probe, out)
		}
		return fillJSON(t, firstPass, out)
	}}
	s := NewSynthesizer(llm, "claude-sonnet-4-20250514", 4096, 0.2)

	report := s.Detect(context.Background(), sampleOutputs(2), 1)

	require.Len(t, report.Disagreements, 1)
	assert.Equal(t, "Emphasis", report.Disagreements[0].Topic)
	assert.Equal(t, []string{"first-pass tension", "probe tension"}, report.UnresolvedTensions)
	assert.Equal(t, "All agents agree.", report.Synthesis)

	calls := llm.jsonCalls()
	require.Len(t, calls, 2)
	assert.InDelta(t, 0.2, calls[1].Temperature, 0.001)
}

func TestDetectKeepsFirstPassWhenProbeFails(t *testing.T) {
	firstPass := `{
		"agreements": [{"topic": "T", "summary": "S", "supporting_agents": [], "evidence": []}],
		"disagreements": [],
		"unresolved_tensions": ["kept tension"],
		"synthesis": "Surface agreement."
	}`
	llm := &fakeLLM{jsonFn: func(req ai.ChatRequest, out interface{}) error {
		if req.System == disagreementProbePrompt {
			return errors.Wrap(errors.ErrExternal, "probe failed")
		}
		return fillJSON(t, firstPass, out)
	}}
	s := NewSynthesizer(llm, "claude-sonnet-4-20250514", 4096, 0.2)

	report := s.Detect(context.Background(), sampleOutputs(2), 1)

	assert.Empty(t, report.Disagreements)
	assert.Equal(t, []string{"kept tension"}, report.UnresolvedTensions)
	assert.Equal(t, "Surface agreement.", report.Synthesis)
	assert.Len(t, report.Agreements, 1)
}
