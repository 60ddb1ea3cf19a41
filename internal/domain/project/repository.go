package project

import "context"

// UpdateFields carries partial updates; nil fields are left untouched.
type UpdateFields struct {
	Name             *string
	ResearchQuestion *string
	Context          *string
	State            *State
	CurrentStage     *int
}

// Repository persists projects. GetByID returns the project with its stage
// results loaded in stage order.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	Update(ctx context.Context, id string, fields UpdateFields) error
	Delete(ctx context.Context, id string) error
}
