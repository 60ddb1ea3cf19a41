package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"sor/internal/adapters/ai"
	"sor/internal/domain/project"
	"sor/internal/domain/stage"
	"sor/pkg/errors"
)

const (
	reportTemperature = 0.3
	reportMaxTokens   = 8192
)

// ReportBuilder turns a project's accumulated stage results into a final
// research report.
type ReportBuilder struct {
	llm   LLM
	model string
}

// NewReportBuilder creates a report builder using the given model.
func NewReportBuilder(llm LLM, model string) *ReportBuilder {
	return &ReportBuilder{llm: llm, model: model}
}

// Build assembles the full pipeline history into one prompt and asks the
// model for a final markdown report.
func (b *ReportBuilder) Build(ctx context.Context, p *project.Project) (string, error) {
	resp, err := b.llm.Complete(ctx, ai.ChatRequest{
		Model:       b.model,
		System:      reportSystemPrompt,
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: buildReportMessage(p)}},
		Temperature: reportTemperature,
		MaxTokens:   reportMaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "generate report")
	}
	return resp.Content, nil
}

func buildReportMessage(p *project.Project) string {
	var sections []string
	sections = append(sections, "# Research Question\n"+p.ResearchQuestion)
	if p.Context != "" {
		sections = append(sections, "\n# Project Context\n"+p.Context)
	}

	results := append([]stage.Result(nil), p.StageResults...)
	sort.Slice(results, func(i, j int) bool {
		return results[i].StageNumber < results[j].StageNumber
	})

	for _, sr := range results {
		sections = append(sections,
			fmt.Sprintf("\n## Stage %d: %s", sr.StageNumber, stage.Name(sr.StageNumber)),
			"Status: "+string(sr.Status))

		if sr.HumanOverride != "" {
			sections = append(sections, "\n### Human Override\n"+sr.HumanOverride)
		}

		for _, output := range sr.AgentOutputs {
			if output.Status == stage.OutputComplete && output.Content != "" {
				sections = append(sections, "\n### "+output.AgentName+"\n"+output.Content)
			}
		}

		if cr := sr.ConflictReport; cr != nil {
			if cr.Synthesis != "" {
				sections = append(sections, "\n### Synthesis\n"+cr.Synthesis)
			}
			if len(cr.Agreements) > 0 {
				sections = append(sections, fmt.Sprintf("\n### Agreements (%d)", len(cr.Agreements)))
				for _, a := range cr.Agreements {
					sections = append(sections, fmt.Sprintf("- **%s**: %s", a.Topic, a.Summary))
				}
			}
			if len(cr.Disagreements) > 0 {
				sections = append(sections, fmt.Sprintf("\n### Disagreements (%d)", len(cr.Disagreements)))
				for _, d := range cr.Disagreements {
					sections = append(sections, fmt.Sprintf("- **%s**: %s", d.Topic, d.Summary))
				}
			}
		}
	}

	return strings.Join(sections, "\n")
}
