package agent

import (
	"context"

	"sor/pkg/errors"
	"sor/pkg/logger"
)

// Service wraps the repository with the operations the API and project
// lifecycle need beyond plain CRUD.
type Service struct {
	repo Repository
	log  *logger.Logger
}

// NewService creates an agent service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, log: logger.Get().With("component", "agent_service")}
}

// SeedDefaults inserts the given default templates if no defaults exist yet.
// Called once at startup so a fresh database has a working agent roster.
func (s *Service) SeedDefaults(ctx context.Context, defaults []Agent) error {
	existing, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return errors.Wrap(err, "list default agents")
	}
	if len(existing) > 0 {
		return nil
	}

	for i := range defaults {
		a := defaults[i]
		if err := s.repo.Create(ctx, &a); err != nil {
			return errors.Wrapf(err, "seed agent %s", a.ID)
		}
	}
	s.log.Infof("Seeded %d default agents", len(defaults))
	return nil
}

// CloneDefaultsForProject copies every global default template into the
// project's own scope so it can be edited without touching the templates.
func (s *Service) CloneDefaultsForProject(ctx context.Context, projectID string) ([]Agent, error) {
	defaults, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return nil, errors.Wrap(err, "list default agents")
	}

	cloned := make([]Agent, 0, len(defaults))
	for _, a := range defaults {
		clone := a.CloneForProject(projectID)
		if err := s.repo.Create(ctx, &clone); err != nil {
			return nil, errors.Wrapf(err, "clone agent %s", a.ID)
		}
		cloned = append(cloned, clone)
	}
	return cloned, nil
}

// Toggle flips the enabled flag and returns the new state.
func (s *Service) Toggle(ctx context.Context, id string) (bool, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	enabled := !a.Enabled
	if err := s.repo.Update(ctx, id, UpdateFields{Enabled: &enabled}); err != nil {
		return false, err
	}
	return enabled, nil
}
