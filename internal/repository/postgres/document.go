package postgres

import (
	"context"

	"sor/internal/domain/document"
	"sor/pkg/errors"
)

// DocumentRepository implements document.Repository
type DocumentRepository struct {
	db DBTX
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db DBTX) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create stores an uploaded document
func (r *DocumentRepository) Create(ctx context.Context, d *document.Document) error {
	query := `
		INSERT INTO documents (id, project_id, filename, content_type, extracted_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.ProjectID, d.Filename, d.ContentType, d.ExtractedText, d.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "create document")
	}
	return nil
}

// ListByProject retrieves all documents for a project, newest first
func (r *DocumentRepository) ListByProject(ctx context.Context, projectID string) ([]document.Document, error) {
	query := `
		SELECT id, project_id, filename, content_type, extracted_text, created_at
		FROM documents
		WHERE project_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "list documents")
	}
	defer rows.Close()

	var docs []document.Document
	for rows.Next() {
		var d document.Document
		if err := rows.Scan(
			&d.ID, &d.ProjectID, &d.Filename, &d.ContentType, &d.ExtractedText, &d.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan document")
		}
		docs = append(docs, d)
	}

	return docs, rows.Err()
}

// Delete deletes a document by ID
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete document")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(errors.ErrNotFound, "document %s", id)
	}
	return nil
}
