package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"sor/internal/domain/project"
	"sor/pkg/errors"
)

// ProjectRepository implements project.Repository. GetByID and List load
// stage results through a StageResultRepository sharing the same connection.
type ProjectRepository struct {
	db     DBTX
	stages *StageResultRepository
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db DBTX) *ProjectRepository {
	return &ProjectRepository{db: db, stages: NewStageResultRepository(db)}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (id, name, research_question, context, state, current_stage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.ResearchQuestion, p.Context,
		p.State, p.CurrentStage, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "create project")
	}
	return nil
}

// GetByID retrieves a project with its stage results in stage order
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*project.Project, error) {
	query := `
		SELECT id, name, research_question, context, state, current_stage, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	p := &project.Project{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.ResearchQuestion, &p.Context,
		&p.State, &p.CurrentStage, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "project %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "get project by id")
	}

	results, err := r.stages.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	p.StageResults = results
	return p, nil
}

// List retrieves all projects, newest first, without stage results
func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	query := `
		SELECT id, name, research_question, context, state, current_stage, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list projects")
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		var p project.Project
		if err := rows.Scan(
			&p.ID, &p.Name, &p.ResearchQuestion, &p.Context,
			&p.State, &p.CurrentStage, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan project")
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// Update applies partial updates, bumping updated_at
func (r *ProjectRepository) Update(ctx context.Context, id string, fields project.UpdateFields) error {
	sets := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if fields.Name != nil {
		sets = append(sets, "name = "+arg(*fields.Name))
	}
	if fields.ResearchQuestion != nil {
		sets = append(sets, "research_question = "+arg(*fields.ResearchQuestion))
	}
	if fields.Context != nil {
		sets = append(sets, "context = "+arg(*fields.Context))
	}
	if fields.State != nil {
		sets = append(sets, "state = "+arg(string(*fields.State)))
	}
	if fields.CurrentStage != nil {
		sets = append(sets, "current_stage = "+arg(*fields.CurrentStage))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = "+arg(time.Now().UTC()))

	query := "UPDATE projects SET " + strings.Join(sets, ", ") + " WHERE id = " + arg(id)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "update project")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(errors.ErrNotFound, "project %s", id)
	}
	return nil
}

// Delete deletes a project and, via cascade, its stage results and documents
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete project")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(errors.ErrNotFound, "project %s", id)
	}
	return nil
}
