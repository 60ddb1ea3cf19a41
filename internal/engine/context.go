package engine

import (
	"fmt"
	"sort"
	"strings"

	"sor/internal/domain/project"
	"sor/internal/domain/stage"
)

// BuildPriorContext collects approved stage results below the current stage,
// in stage order. A human override supersedes the agent outputs of its stage;
// the conflict synthesis is appended either way.
func BuildPriorContext(p *project.Project, currentStage int) string {
	var approved []stage.Result
	for _, sr := range p.StageResults {
		if sr.Status == stage.StatusApproved && sr.StageNumber < currentStage {
			approved = append(approved, sr)
		}
	}
	sort.Slice(approved, func(i, j int) bool {
		return approved[i].StageNumber < approved[j].StageNumber
	})

	var parts []string
	for _, sr := range approved {
		parts = append(parts, fmt.Sprintf("## Stage %d (Approved)", sr.StageNumber))

		if sr.HumanOverride != "" {
			parts = append(parts, sr.HumanOverride)
		} else {
			for _, output := range sr.AgentOutputs {
				if output.Status == stage.OutputComplete && output.Content != "" {
					parts = append(parts, "### "+output.AgentName, output.Content)
				}
			}
		}

		if sr.ConflictReport != nil && sr.ConflictReport.Synthesis != "" {
			parts = append(parts, "\n**Synthesis:** "+sr.ConflictReport.Synthesis)
		}

		parts = append(parts, "")
	}

	return strings.Join(parts, "\n")
}

// BuildUserMessage assembles the full user message sent to every agent in a
// stage run: the research question, the structured project context with its
// grounding rule, prior approved results, and the task framing with quality
// gates. Keeping the message identical across agents means only the system
// prompt differentiates their outputs.
func BuildUserMessage(p *project.Project, priorContext string) string {
	var sections []string

	sections = append(sections, "# Research Question", p.ResearchQuestion)

	if p.Context != "" {
		sections = append(sections,
			"\n# Structured Context",
			"Use the following context to ground ALL of your analysis. "+
				"Every claim, theme, and recommendation you produce must be "+
				"specific to this context, not generic advice that could apply "+
				"to any organization.\n",
			p.Context,
			"\n**Grounding Rule:** Before finalizing any insight, check: "+
				"'Would this insight change if the company, product, or audience were different?' "+
				"If the answer is no, make it more specific to the context above.")
	}

	if priorContext != "" {
		sections = append(sections, "\n# Prior Stage Results", priorContext)
	}

	sections = append(sections,
		"\n# Your Task"+
			"\nProvide your analysis based on your assigned role and perspective. "+
			"Be thorough, cite evidence where possible, and clearly state your "+
			"confidence level in key claims."+
			"\n\n**Quality Gates:**"+
			"\n- Every claim must be traceable to specific evidence. Mark unsourced claims."+
			"\n- Every insight must be specific to this project's context. Flag generic observations."+
			"\n- Every recommendation must state what decision it enables. Omit decision-inert findings.")

	return strings.Join(sections, "\n")
}

// buildComparisonMessage concatenates agent outputs with headers for the
// conflict analysis passes.
func buildComparisonMessage(outputs []stage.AgentOutput, stageNumber int) string {
	parts := []string{
		fmt.Sprintf("## Stage %d Agent Outputs\n", stageNumber),
		fmt.Sprintf("Compare the following %d agent outputs and identify "+
			"agreements, disagreements, unresolved tensions, and provide a synthesis.\n", len(outputs)),
	}

	for i, output := range outputs {
		parts = append(parts,
			fmt.Sprintf("### Agent %d: %s", i+1, output.AgentName),
			"**Agent ID:** "+output.AgentID,
			"**Status:** "+output.Status)
		if output.Content != "" {
			parts = append(parts, "\n"+output.Content+"\n")
		} else {
			parts = append(parts, "\n(No content produced)\n")
		}
		parts = append(parts, "---\n")
	}

	return strings.Join(parts, "\n")
}
