package stage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	assert.Equal(t, "Problem Framing", Name(1))
	assert.Equal(t, "Prototype & Intervention Design", Name(6))
	assert.Equal(t, "Unknown Stage", Name(0))
	assert.Equal(t, "Unknown Stage", Name(7))
}

func TestNewResult(t *testing.T) {
	r := NewResult("proj-1", 3)
	assert.Len(t, r.ID, 12)
	assert.Equal(t, "proj-1", r.ProjectID)
	assert.Equal(t, 3, r.StageNumber)
	assert.Equal(t, StatusPending, r.Status)
	assert.NotZero(t, r.CreatedAt)
}

func TestConflictReportJSONRoundTrip(t *testing.T) {
	report := ConflictReport{
		Stage: 2,
		Agreements: []AgreementPoint{{
			Topic:            "Data quality",
			Summary:          "Both agents flag the survey sample as too small.",
			SupportingAgents: []string{"The Archivist", "The Skeptic"},
			Evidence:         []string{"n=40 respondents"},
		}},
		Disagreements: []DisagreementPoint{{
			Topic:   "Churn driver",
			Summary: "Pricing vs onboarding friction",
			Positions: []AgentPosition{
				{AgentName: "The Quantifier", Position: "pricing", Evidence: "cohort data", Confidence: 0.72},
				{AgentName: "The Fieldworker", Position: "onboarding", Evidence: "interviews", Confidence: 0.64},
			},
		}},
		UnresolvedTensions:        []string{"seasonality"},
		WithinAgentContradictions: []string{"The Skeptic both accepts and rejects the cohort data"},
		Synthesis:                 "The agents split on the primary churn driver.",
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded ConflictReport
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, report.Synthesis, decoded.Synthesis)
	require.Len(t, decoded.Disagreements, 1)
	require.Len(t, decoded.Disagreements[0].Positions, 2)
	assert.InDelta(t, 0.72, decoded.Disagreements[0].Positions[0].Confidence, 0.001)
	assert.InDelta(t, 0.64, decoded.Disagreements[0].Positions[1].Confidence, 0.001)
	assert.Equal(t, report.Agreements, decoded.Agreements)
	assert.Equal(t, report.UnresolvedTensions, decoded.UnresolvedTensions)
}
