package project

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"sor/internal/domain/stage"
)

// State is the lifecycle state of a research project.
type State string

const (
	StateDraft      State = "draft"
	StateInProgress State = "in_progress"
	StateComplete   State = "complete"
)

// Project is one research engagement: a question, optional structured
// context, and the ordered stage results produced so far. CurrentStage only
// advances through approval.
type Project struct {
	ID               string         `json:"id" db:"id"`
	Name             string         `json:"name" db:"name"`
	ResearchQuestion string         `json:"research_question" db:"research_question"`
	Context          string         `json:"context" db:"context"`
	State            State          `json:"state" db:"state"`
	CurrentStage     int            `json:"current_stage" db:"current_stage"`
	StageResults     []stage.Result `json:"stage_results"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// New creates a draft project positioned at stage 1.
func New(name, researchQuestion, context string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:               strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		Name:             name,
		ResearchQuestion: researchQuestion,
		Context:          context,
		State:            StateDraft,
		CurrentStage:     stage.MinStage,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
