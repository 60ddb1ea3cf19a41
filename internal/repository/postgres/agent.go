package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"sor/internal/domain/agent"
	"sor/pkg/errors"
)

// AgentRepository implements agent.Repository
type AgentRepository struct {
	db DBTX
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(db DBTX) *AgentRepository {
	return &AgentRepository{db: db}
}

// Create creates a new agent
func (r *AgentRepository) Create(ctx context.Context, a *agent.Agent) error {
	partners, err := json.Marshal(a.ConflictPartners)
	if err != nil {
		return errors.Wrap(err, "marshal conflict partners")
	}

	query := `
		INSERT INTO agents (
			id, name, role, perspective, system_prompt, stage,
			temperature, model, conflict_partners, enabled, project_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		a.ID, a.Name, a.Role, a.Perspective, a.SystemPrompt, a.Stage,
		a.Temperature, a.Model, partners, a.Enabled, a.ProjectID,
	).Scan(&a.CreatedAt)
}

// GetByID retrieves agent by ID
func (r *AgentRepository) GetByID(ctx context.Context, id string) (*agent.Agent, error) {
	query := `
		SELECT id, name, role, perspective, system_prompt, stage,
		       temperature, model, conflict_partners, enabled, project_id, created_at
		FROM agents
		WHERE id = $1
	`

	a, err := scanAgent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "agent %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "get agent by id")
	}
	return a, nil
}

// List retrieves agents matching the filter. A nil ProjectID selects the
// global default templates.
func (r *AgentRepository) List(ctx context.Context, f agent.Filter) ([]agent.Agent, error) {
	conds := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ProjectID != nil {
		conds = append(conds, "project_id = "+arg(*f.ProjectID))
	} else {
		conds = append(conds, "project_id IS NULL")
	}
	if f.Stage != nil {
		conds = append(conds, "stage = "+arg(*f.Stage))
	}

	query := `
		SELECT id, name, role, perspective, system_prompt, stage,
		       temperature, model, conflict_partners, enabled, project_id, created_at
		FROM agents
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY stage, name
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list agents")
	}
	defer rows.Close()

	var agents []agent.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan agent")
		}
		agents = append(agents, *a)
	}

	return agents, rows.Err()
}

// Update applies partial updates to an agent
func (r *AgentRepository) Update(ctx context.Context, id string, fields agent.UpdateFields) error {
	sets := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if fields.Name != nil {
		sets = append(sets, "name = "+arg(*fields.Name))
	}
	if fields.Role != nil {
		sets = append(sets, "role = "+arg(*fields.Role))
	}
	if fields.Perspective != nil {
		sets = append(sets, "perspective = "+arg(*fields.Perspective))
	}
	if fields.SystemPrompt != nil {
		sets = append(sets, "system_prompt = "+arg(*fields.SystemPrompt))
	}
	if fields.Temperature != nil {
		sets = append(sets, "temperature = "+arg(*fields.Temperature))
	}
	if fields.Model != nil {
		sets = append(sets, "model = "+arg(*fields.Model))
	}
	if fields.ConflictPartners != nil {
		partners, err := json.Marshal(*fields.ConflictPartners)
		if err != nil {
			return errors.Wrap(err, "marshal conflict partners")
		}
		sets = append(sets, "conflict_partners = "+arg(partners))
	}
	if fields.Enabled != nil {
		sets = append(sets, "enabled = "+arg(*fields.Enabled))
	}
	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE agents SET " + strings.Join(sets, ", ") + " WHERE id = " + arg(id)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "update agent")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(errors.ErrNotFound, "agent %s", id)
	}
	return nil
}

// Delete deletes an agent by ID
func (r *AgentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete agent")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(errors.ErrNotFound, "agent %s", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAgent(row rowScanner) (*agent.Agent, error) {
	a := &agent.Agent{}
	var partners []byte
	err := row.Scan(
		&a.ID, &a.Name, &a.Role, &a.Perspective, &a.SystemPrompt, &a.Stage,
		&a.Temperature, &a.Model, &partners, &a.Enabled, &a.ProjectID, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(partners) > 0 {
		if err := json.Unmarshal(partners, &a.ConflictPartners); err != nil {
			return nil, errors.Wrap(err, "unmarshal conflict partners")
		}
	}
	return a, nil
}
