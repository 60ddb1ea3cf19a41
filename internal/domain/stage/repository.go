package stage

import (
	"context"
	"time"
)

// Repository persists stage results. Save upserts by (project_id,
// stage_number) and must keep agent outputs retrievable in original order.
type Repository interface {
	Save(ctx context.Context, result *Result) error
	GetByStage(ctx context.Context, projectID string, stageNumber int) (*Result, error)
	ListByProject(ctx context.Context, projectID string) ([]Result, error)
	Approve(ctx context.Context, projectID string, stageNumber int, approvedAt time.Time) error
	SetOverride(ctx context.Context, projectID string, stageNumber int, content, notes string) error
}
