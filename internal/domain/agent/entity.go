package agent

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Agent is a configured research persona: a role, a perspective, and a full
// instruction block that together personalize an otherwise identical stage
// prompt. A nil ProjectID marks a global default template; project creation
// clones every default into the project's own scope.
type Agent struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Role             string    `json:"role" db:"role"`
	Perspective      string    `json:"perspective" db:"perspective"`
	SystemPrompt     string    `json:"system_prompt" db:"system_prompt"`
	Stage            int       `json:"stage" db:"stage"`
	Temperature      float64   `json:"temperature" db:"temperature"`
	Model            string    `json:"model" db:"model"`
	ConflictPartners []string  `json:"conflict_partners"`
	Enabled          bool      `json:"enabled" db:"enabled"`
	ProjectID        *string   `json:"project_id,omitempty" db:"project_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// CloneForProject derives a project-scoped copy of a default agent. The clone
// keeps every field but gets a derived identifier and a non-nil project scope.
func (a Agent) CloneForProject(projectID string) Agent {
	clone := a
	prefix := projectID
	if len(prefix) > 6 {
		prefix = prefix[:6]
	}
	clone.ID = a.ID + "-" + prefix
	clone.ProjectID = &projectID
	clone.ConflictPartners = append([]string(nil), a.ConflictPartners...)
	return clone
}

// NewID returns a short unique agent identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
