package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"sor/internal/domain/stage"
	"sor/pkg/errors"
)

// StageResultRepository implements stage.Repository. Save replaces any prior
// result for the same (project, stage), matching re-run semantics.
type StageResultRepository struct {
	db DBTX
}

// NewStageResultRepository creates a new stage result repository
func NewStageResultRepository(db DBTX) *StageResultRepository {
	return &StageResultRepository{db: db}
}

// Save persists a stage result, replacing any existing one for the same
// project and stage number. Agent outputs keep their run order via ordinal.
func (r *StageResultRepository) Save(ctx context.Context, result *stage.Result) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM stage_results WHERE project_id = $1 AND stage_number = $2`,
		result.ProjectID, result.StageNumber,
	)
	if err != nil {
		return errors.Wrap(err, "replace stage result")
	}

	var report interface{}
	if result.ConflictReport != nil {
		data, err := json.Marshal(result.ConflictReport)
		if err != nil {
			return errors.Wrap(err, "marshal conflict report")
		}
		report = data
	}

	query := `
		INSERT INTO stage_results (
			id, project_id, stage_number, status,
			conflict_report, human_override, human_notes, approved_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.ExecContext(ctx, query,
		result.ID, result.ProjectID, result.StageNumber, result.Status,
		report, result.HumanOverride, result.HumanNotes, result.ApprovedAt, result.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "insert stage result")
	}

	outputQuery := `
		INSERT INTO agent_outputs (
			id, agent_id, agent_name, stage, project_id, stage_result_id,
			ordinal, content, status, error, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for i, out := range result.AgentOutputs {
		createdAt := out.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := r.db.ExecContext(ctx, outputQuery,
			out.ID, out.AgentID, out.AgentName, out.Stage, out.ProjectID, result.ID,
			i, out.Content, out.Status, out.Error, createdAt,
		); err != nil {
			return errors.Wrapf(err, "insert agent output %s", out.AgentID)
		}
	}

	return nil
}

// GetByStage retrieves one stage result with its outputs in run order
func (r *StageResultRepository) GetByStage(ctx context.Context, projectID string, stageNumber int) (*stage.Result, error) {
	query := `
		SELECT id, project_id, stage_number, status,
		       conflict_report, human_override, human_notes, approved_at, created_at
		FROM stage_results
		WHERE project_id = $1 AND stage_number = $2
	`

	result, err := scanStageResult(r.db.QueryRowContext(ctx, query, projectID, stageNumber))
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "stage %d for project %s", stageNumber, projectID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "get stage result")
	}

	if err := r.loadOutputs(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByProject retrieves all stage results for a project in stage order
func (r *StageResultRepository) ListByProject(ctx context.Context, projectID string) ([]stage.Result, error) {
	query := `
		SELECT id, project_id, stage_number, status,
		       conflict_report, human_override, human_notes, approved_at, created_at
		FROM stage_results
		WHERE project_id = $1
		ORDER BY stage_number
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "list stage results")
	}
	defer rows.Close()

	var results []stage.Result
	for rows.Next() {
		result, err := scanStageResult(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan stage result")
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		if err := r.loadOutputs(ctx, &results[i]); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Approve marks a stage result approved
func (r *StageResultRepository) Approve(ctx context.Context, projectID string, stageNumber int, approvedAt time.Time) error {
	query := `
		UPDATE stage_results
		SET status = $1, approved_at = $2
		WHERE project_id = $3 AND stage_number = $4
	`
	result, err := r.db.ExecContext(ctx, query, stage.StatusApproved, approvedAt, projectID, stageNumber)
	if err != nil {
		return errors.Wrap(err, "approve stage result")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(errors.ErrNotFound, "stage %d for project %s", stageNumber, projectID)
	}
	return nil
}

// SetOverride records a human override for a stage result
func (r *StageResultRepository) SetOverride(ctx context.Context, projectID string, stageNumber int, content, notes string) error {
	query := `
		UPDATE stage_results
		SET human_override = $1, human_notes = $2
		WHERE project_id = $3 AND stage_number = $4
	`
	result, err := r.db.ExecContext(ctx, query, content, notes, projectID, stageNumber)
	if err != nil {
		return errors.Wrap(err, "set stage override")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(errors.ErrNotFound, "stage %d for project %s", stageNumber, projectID)
	}
	return nil
}

func (r *StageResultRepository) loadOutputs(ctx context.Context, result *stage.Result) error {
	query := `
		SELECT id, agent_id, agent_name, stage, project_id, content, status, error, created_at
		FROM agent_outputs
		WHERE stage_result_id = $1
		ORDER BY ordinal
	`

	rows, err := r.db.QueryContext(ctx, query, result.ID)
	if err != nil {
		return errors.Wrap(err, "list agent outputs")
	}
	defer rows.Close()

	var outputs []stage.AgentOutput
	for rows.Next() {
		var out stage.AgentOutput
		if err := rows.Scan(
			&out.ID, &out.AgentID, &out.AgentName, &out.Stage, &out.ProjectID,
			&out.Content, &out.Status, &out.Error, &out.CreatedAt,
		); err != nil {
			return errors.Wrap(err, "scan agent output")
		}
		outputs = append(outputs, out)
	}
	result.AgentOutputs = outputs
	return rows.Err()
}

func scanStageResult(row rowScanner) (*stage.Result, error) {
	result := &stage.Result{}
	var report []byte
	err := row.Scan(
		&result.ID, &result.ProjectID, &result.StageNumber, &result.Status,
		&report, &result.HumanOverride, &result.HumanNotes, &result.ApprovedAt, &result.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(report) > 0 {
		result.ConflictReport = &stage.ConflictReport{}
		if err := json.Unmarshal(report, result.ConflictReport); err != nil {
			return nil, errors.Wrap(err, "unmarshal conflict report")
		}
	}
	return result, nil
}
