package agent

import "context"

// Filter narrows agent listings. A nil ProjectID selects the global default
// templates, matching how the store distinguishes defaults from clones.
type Filter struct {
	Stage     *int
	ProjectID *string
}

// UpdateFields carries partial updates; nil fields are left untouched.
type UpdateFields struct {
	Name             *string
	Role             *string
	Perspective      *string
	SystemPrompt     *string
	Temperature      *float64
	Model            *string
	ConflictPartners *[]string
	Enabled          *bool
}

// Repository persists agent configurations.
type Repository interface {
	Create(ctx context.Context, a *Agent) error
	GetByID(ctx context.Context, id string) (*Agent, error)
	List(ctx context.Context, f Filter) ([]Agent, error)
	Update(ctx context.Context, id string, fields UpdateFields) error
	Delete(ctx context.Context, id string) error
}
