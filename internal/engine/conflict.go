package engine

import (
	"context"
	"fmt"

	"sor/internal/adapters/ai"
	"sor/internal/domain/stage"
	"sor/internal/metrics"
	"sor/pkg/logger"
)

// conflictPayload mirrors the JSON structure both analysis prompts demand.
type conflictPayload struct {
	Agreements                []stage.AgreementPoint    `json:"agreements"`
	Disagreements             []stage.DisagreementPoint `json:"disagreements"`
	UnresolvedTensions        []string                  `json:"unresolved_tensions"`
	WithinAgentContradictions []string                  `json:"within_agent_contradictions"`
	EvidenceChainBreaks       []string                  `json:"evidence_chain_breaks"`
	Synthesis                 string                    `json:"synthesis"`
}

// Synthesizer compares agent outputs and produces a structured conflict
// report. It degrades rather than fails: every path returns a usable report.
type Synthesizer struct {
	llm       LLM
	model     string
	maxTokens int
	probeTemp float64
	log       *logger.Logger
}

// NewSynthesizer creates a conflict synthesizer using the given model for
// both analysis passes.
func NewSynthesizer(llm LLM, model string, maxTokens int, probeTemp float64) *Synthesizer {
	if probeTemp <= 0 {
		probeTemp = 0.2
	}
	return &Synthesizer{
		llm:       llm,
		model:     model,
		maxTokens: maxTokens,
		probeTemp: probeTemp,
		log:       logger.Get().With("component", "conflict_synthesizer"),
	}
}

// Detect compares the outputs of one stage run. Fewer than two outputs yields
// a trivial report; an unparseable detection response yields a degraded one.
func (s *Synthesizer) Detect(ctx context.Context, outputs []stage.AgentOutput, stageNumber int) *stage.ConflictReport {
	if len(outputs) == 0 {
		metrics.RecordConflictDetection("trivial")
		return &stage.ConflictReport{
			Stage:     stageNumber,
			Synthesis: "No agent outputs to analyze.",
		}
	}
	if len(outputs) == 1 {
		metrics.RecordConflictDetection("trivial")
		return &stage.ConflictReport{
			Stage: stageNumber,
			Synthesis: fmt.Sprintf(
				"Only one agent (%s) provided output. No cross-agent comparison is possible.",
				outputs[0].AgentName),
		}
	}

	userMessage := buildComparisonMessage(outputs, stageNumber)

	var payload conflictPayload
	_, err := s.llm.CompleteJSON(ctx, ai.ChatRequest{
		Model:       s.model,
		System:      conflictDetectionPrompt,
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: userMessage}},
		Temperature: 0.0,
		MaxTokens:   s.maxTokens,
	}, &payload)
	if err != nil {
		s.log.Warnw("Conflict detection degraded", "stage", stageNumber, "error", err)
		metrics.RecordConflictDetection("degraded")
		return &stage.ConflictReport{
			Stage:              stageNumber,
			Synthesis:          "Conflict detection failed: unable to parse LLM response.",
			UnresolvedTensions: []string{"Automated conflict analysis was unsuccessful."},
		}
	}
	metrics.RecordConflictDetection("parsed")

	// A clean pass with zero disagreements is suspicious with multiple
	// perspectives in play, so probe once more before accepting it.
	if len(payload.Disagreements) == 0 {
		s.probe(ctx, userMessage, &payload)
	}

	return &stage.ConflictReport{
		Stage:                     stageNumber,
		Agreements:                payload.Agreements,
		Disagreements:             payload.Disagreements,
		UnresolvedTensions:        payload.UnresolvedTensions,
		WithinAgentContradictions: payload.WithinAgentContradictions,
		EvidenceChainBreaks:       payload.EvidenceChainBreaks,
		Synthesis:                 payload.Synthesis,
	}
}

// probe runs the second, slightly warmer pass that hunts for subtle
// disagreements. Its failure is silently discarded and the first-pass
// payload kept as-is.
func (s *Synthesizer) probe(ctx context.Context, userMessage string, payload *conflictPayload) {
	var second struct {
		Disagreements      []stage.DisagreementPoint `json:"disagreements"`
		UnresolvedTensions []string                  `json:"unresolved_tensions"`
	}
	_, err := s.llm.CompleteJSON(ctx, ai.ChatRequest{
		Model:       s.model,
		System:      disagreementProbePrompt,
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: userMessage}},
		Temperature: s.probeTemp,
		MaxTokens:   s.maxTokens,
	}, &second)
	if err != nil {
		s.log.Debugw("Disagreement probe discarded", "error", err)
		metrics.RecordConflictProbe("discarded")
		return
	}

	payload.Disagreements = second.Disagreements
	payload.UnresolvedTensions = append(payload.UnresolvedTensions, second.UnresolvedTensions...)
	metrics.RecordConflictProbe("merged")
}
