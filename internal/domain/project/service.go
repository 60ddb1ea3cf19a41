package project

import (
	"context"
	"time"

	"sor/internal/domain/stage"
	"sor/pkg/errors"
	"sor/pkg/logger"
)

// Service coordinates project lifecycle with stage results. Approval is the
// only way a project advances through the pipeline.
type Service struct {
	projects Repository
	stages   stage.Repository
	log      *logger.Logger
}

// NewService creates a project service.
func NewService(projects Repository, stages stage.Repository) *Service {
	return &Service{
		projects: projects,
		stages:   stages,
		log:      logger.Get().With("component", "project_service"),
	}
}

// Approve marks a completed stage approved and advances the project. Approving
// the final stage completes the project and leaves current_stage in place.
func (s *Service) Approve(ctx context.Context, projectID string, stageNumber int) (*Project, error) {
	if stageNumber < stage.MinStage || stageNumber > stage.MaxStage {
		return nil, errors.Wrapf(errors.ErrStageOutOfRange, "stage %d", stageNumber)
	}

	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	result, err := s.stages.GetByStage(ctx, projectID, stageNumber)
	if err != nil {
		return nil, err
	}
	if result.Status != stage.StatusComplete && result.Status != stage.StatusApproved {
		return nil, errors.Wrapf(errors.ErrStageNotComplete, "stage %d is %s", stageNumber, result.Status)
	}

	if err := s.stages.Approve(ctx, projectID, stageNumber, time.Now().UTC()); err != nil {
		return nil, err
	}

	fields := UpdateFields{}
	if stageNumber >= stage.MaxStage {
		state := StateComplete
		fields.State = &state
	} else {
		next := stageNumber + 1
		if next > p.CurrentStage {
			fields.CurrentStage = &next
		}
		state := StateInProgress
		fields.State = &state
	}
	if err := s.projects.Update(ctx, projectID, fields); err != nil {
		return nil, err
	}

	s.log.Infow("Stage approved", "project_id", projectID, "stage", stageNumber)
	return s.projects.GetByID(ctx, projectID)
}

// SetOverride records a human-authored replacement for a stage's agent
// outputs. Downstream stages see the override instead of the synthesis.
func (s *Service) SetOverride(ctx context.Context, projectID string, stageNumber int, content, notes string) (*stage.Result, error) {
	if stageNumber < stage.MinStage || stageNumber > stage.MaxStage {
		return nil, errors.Wrapf(errors.ErrStageOutOfRange, "stage %d", stageNumber)
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	if _, err := s.stages.GetByStage(ctx, projectID, stageNumber); err != nil {
		return nil, err
	}
	if err := s.stages.SetOverride(ctx, projectID, stageNumber, content, notes); err != nil {
		return nil, err
	}
	return s.stages.GetByStage(ctx, projectID, stageNumber)
}
