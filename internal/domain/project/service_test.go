package project

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sor/internal/domain/stage"
	"sor/pkg/errors"
)

type memProjectRepo struct {
	projects map[string]*Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: map[string]*Project{}}
}

func (r *memProjectRepo) Create(_ context.Context, p *Project) error {
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *memProjectRepo) GetByID(_ context.Context, id string) (*Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "project %s", id)
	}
	cp := *p
	return &cp, nil
}

func (r *memProjectRepo) List(_ context.Context) ([]Project, error) {
	out := make([]Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memProjectRepo) Update(_ context.Context, id string, fields UpdateFields) error {
	p, ok := r.projects[id]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "project %s", id)
	}
	if fields.Name != nil {
		p.Name = *fields.Name
	}
	if fields.ResearchQuestion != nil {
		p.ResearchQuestion = *fields.ResearchQuestion
	}
	if fields.Context != nil {
		p.Context = *fields.Context
	}
	if fields.State != nil {
		p.State = *fields.State
	}
	if fields.CurrentStage != nil {
		p.CurrentStage = *fields.CurrentStage
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, id string) error {
	delete(r.projects, id)
	return nil
}

type memStageRepo struct {
	results map[string]*stage.Result
}

func newMemStageRepo() *memStageRepo {
	return &memStageRepo{results: map[string]*stage.Result{}}
}

func stageKey(projectID string, n int) string {
	return projectID + "/" + string(rune('0'+n))
}

func (r *memStageRepo) Save(_ context.Context, result *stage.Result) error {
	cp := *result
	r.results[stageKey(result.ProjectID, result.StageNumber)] = &cp
	return nil
}

func (r *memStageRepo) GetByStage(_ context.Context, projectID string, n int) (*stage.Result, error) {
	res, ok := r.results[stageKey(projectID, n)]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "stage %d for project %s", n, projectID)
	}
	cp := *res
	return &cp, nil
}

func (r *memStageRepo) ListByProject(_ context.Context, projectID string) ([]stage.Result, error) {
	var out []stage.Result
	for n := stage.MinStage; n <= stage.MaxStage; n++ {
		if res, ok := r.results[stageKey(projectID, n)]; ok {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *memStageRepo) Approve(_ context.Context, projectID string, n int, approvedAt time.Time) error {
	res, ok := r.results[stageKey(projectID, n)]
	if !ok {
		return errors.ErrNotFound
	}
	res.Status = stage.StatusApproved
	res.ApprovedAt = &approvedAt
	return nil
}

func (r *memStageRepo) SetOverride(_ context.Context, projectID string, n int, content, notes string) error {
	res, ok := r.results[stageKey(projectID, n)]
	if !ok {
		return errors.ErrNotFound
	}
	res.HumanOverride = content
	res.HumanNotes = notes
	return nil
}

func seedProject(t *testing.T, repo *memProjectRepo) *Project {
	t.Helper()
	p := New("Churn study", "Why do users churn in week two?", "")
	p.State = StateInProgress
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func completedResult(projectID string, n int) *stage.Result {
	res := stage.NewResult(projectID, n)
	res.Status = stage.StatusComplete
	res.AgentOutputs = []stage.AgentOutput{{
		ID: stage.NewID(), AgentID: "scoper", AgentName: "The Scoper",
		Stage: n, ProjectID: projectID, Content: "scoped", Status: stage.OutputComplete,
	}}
	return res
}

func TestApproveAdvancesCurrentStage(t *testing.T) {
	projects := newMemProjectRepo()
	stages := newMemStageRepo()
	svc := NewService(projects, stages)
	ctx := context.Background()

	p := seedProject(t, projects)
	require.NoError(t, stages.Save(ctx, completedResult(p.ID, 1)))

	updated, err := svc.Approve(ctx, p.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, updated.CurrentStage)
	assert.Equal(t, StateInProgress, updated.State)

	res, err := stages.GetByStage(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, stage.StatusApproved, res.Status)
	require.NotNil(t, res.ApprovedAt)
}

func TestApproveFinalStageCompletesProject(t *testing.T) {
	projects := newMemProjectRepo()
	stages := newMemStageRepo()
	svc := NewService(projects, stages)
	ctx := context.Background()

	p := seedProject(t, projects)
	p.CurrentStage = 6
	require.NoError(t, projects.Update(ctx, p.ID, UpdateFields{CurrentStage: &p.CurrentStage}))
	require.NoError(t, stages.Save(ctx, completedResult(p.ID, 6)))

	updated, err := svc.Approve(ctx, p.ID, 6)
	require.NoError(t, err)

	assert.Equal(t, StateComplete, updated.State)
	assert.Equal(t, 6, updated.CurrentStage)
}

func TestApproveRejectsIncompleteStage(t *testing.T) {
	projects := newMemProjectRepo()
	stages := newMemStageRepo()
	svc := NewService(projects, stages)
	ctx := context.Background()

	p := seedProject(t, projects)
	res := stage.NewResult(p.ID, 1)
	res.Status = stage.StatusRunning
	require.NoError(t, stages.Save(ctx, res))

	_, err := svc.Approve(ctx, p.ID, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStageNotComplete))
}

func TestApproveRejectsStageOutOfRange(t *testing.T) {
	svc := NewService(newMemProjectRepo(), newMemStageRepo())

	_, err := svc.Approve(context.Background(), "p1", 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStageOutOfRange))

	_, err = svc.Approve(context.Background(), "p1", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStageOutOfRange))
}

func TestApproveIsIdempotentOnApprovedStage(t *testing.T) {
	projects := newMemProjectRepo()
	stages := newMemStageRepo()
	svc := NewService(projects, stages)
	ctx := context.Background()

	p := seedProject(t, projects)
	require.NoError(t, stages.Save(ctx, completedResult(p.ID, 2)))

	first, err := svc.Approve(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, first.CurrentStage)

	second, err := svc.Approve(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, second.CurrentStage)
}

func TestSetOverride(t *testing.T) {
	projects := newMemProjectRepo()
	stages := newMemStageRepo()
	svc := NewService(projects, stages)
	ctx := context.Background()

	p := seedProject(t, projects)
	require.NoError(t, stages.Save(ctx, completedResult(p.ID, 1)))

	res, err := svc.SetOverride(ctx, p.ID, 1, "Revised framing", "agents missed seasonality")
	require.NoError(t, err)
	assert.Equal(t, "Revised framing", res.HumanOverride)
	assert.Equal(t, "agents missed seasonality", res.HumanNotes)

	_, err = svc.SetOverride(ctx, p.ID, 3, "x", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
