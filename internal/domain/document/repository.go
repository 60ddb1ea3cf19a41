package document

import "context"

// Repository persists uploaded documents.
type Repository interface {
	Create(ctx context.Context, d *Document) error
	ListByProject(ctx context.Context, projectID string) ([]Document, error)
	Delete(ctx context.Context, id string) error
}
