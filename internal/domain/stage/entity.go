package stage

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a stage result.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusApproved Status = "approved"
	StatusSkipped  Status = "skipped"
)

// Output statuses for a single agent invocation.
const (
	OutputPending  = "pending"
	OutputComplete = "complete"
	OutputError    = "error"
)

// Pipeline stage bounds.
const (
	MinStage = 1
	MaxStage = 6
)

// Names of the six pipeline stages, used for report headings.
var stageNames = map[int]string{
	1: "Problem Framing",
	2: "Evidence Gathering",
	3: "Analysis & Interpretation",
	4: "Insight Synthesis",
	5: "Communication",
	6: "Prototype & Intervention Design",
}

// Name returns the display name for a stage number.
func Name(number int) string {
	if n, ok := stageNames[number]; ok {
		return n
	}
	return "Unknown Stage"
}

// AgentOutput is one agent's result for one stage run. It is created by the
// orchestrator when the invocation resolves and is immutable afterward.
type AgentOutput struct {
	ID        string    `json:"id" db:"id"`
	AgentID   string    `json:"agent_id" db:"agent_id"`
	AgentName string    `json:"agent_name" db:"agent_name"`
	Stage     int       `json:"stage" db:"stage"`
	ProjectID string    `json:"project_id" db:"project_id"`
	Content   string    `json:"content" db:"content"`
	Status    string    `json:"status" db:"status"`
	Error     string    `json:"error,omitempty" db:"error"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AgentPosition is one agent's stance inside a disagreement.
type AgentPosition struct {
	AgentName  string  `json:"agent_name"`
	Position   string  `json:"position"`
	Evidence   string  `json:"evidence"`
	Confidence float64 `json:"confidence"`
}

// AgreementPoint is a topic the agents converged on.
type AgreementPoint struct {
	Topic            string   `json:"topic"`
	Summary          string   `json:"summary"`
	SupportingAgents []string `json:"supporting_agents"`
	Evidence         []string `json:"evidence"`
}

// DisagreementPoint is a topic the agents diverged on, with each position.
type DisagreementPoint struct {
	Topic     string          `json:"topic"`
	Summary   string          `json:"summary"`
	Positions []AgentPosition `json:"positions"`
}

// ConflictReport is the structured comparison of a stage's agent outputs.
type ConflictReport struct {
	Stage                     int                 `json:"stage"`
	Agreements                []AgreementPoint    `json:"agreements"`
	Disagreements             []DisagreementPoint `json:"disagreements"`
	UnresolvedTensions        []string            `json:"unresolved_tensions"`
	WithinAgentContradictions []string            `json:"within_agent_contradictions"`
	EvidenceChainBreaks       []string            `json:"evidence_chain_breaks"`
	Synthesis                 string              `json:"synthesis"`
}

// Result is one run of one stage for one project. There is at most one per
// (project, stage number); re-running a stage replaces it.
type Result struct {
	ID             string          `json:"id"`
	ProjectID      string          `json:"project_id"`
	StageNumber    int             `json:"stage_number"`
	Status         Status          `json:"status"`
	AgentOutputs   []AgentOutput   `json:"agent_outputs"`
	ConflictReport *ConflictReport `json:"conflict_report,omitempty"`
	HumanOverride  string          `json:"human_override,omitempty"`
	HumanNotes     string          `json:"human_notes"`
	ApprovedAt     *time.Time      `json:"approved_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewResult creates a stage result ready to be populated by a run.
func NewResult(projectID string, stageNumber int) *Result {
	return &Result{
		ID:          NewID(),
		ProjectID:   projectID,
		StageNumber: stageNumber,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

// NewID returns a short unique identifier in the style used across the system.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
