package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sor/internal/domain/project"
	"sor/internal/domain/stage"
	"sor/internal/testsupport"
	"sor/pkg/errors"
)

func TestProjectRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	defer testDB.Close()

	repo := NewProjectRepository(testDB.Tx())
	ctx := context.Background()

	t.Run("creates and retrieves project", func(t *testing.T) {
		p := project.New("Churn study", "Why do users churn in week two?", "B2B SaaS")
		require.NoError(t, repo.Create(ctx, p))

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Name, got.Name)
		assert.Equal(t, p.ResearchQuestion, got.ResearchQuestion)
		assert.Equal(t, project.StateDraft, got.State)
		assert.Equal(t, 1, got.CurrentStage)
		assert.Empty(t, got.StageResults)
	})

	t.Run("returns not found for missing project", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})
}

func TestProjectRepository_GetLoadsStageResults(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	defer testDB.Close()

	projects := NewProjectRepository(testDB.Tx())
	stages := NewStageResultRepository(testDB.Tx())
	ctx := context.Background()

	p := project.New("Study", "Question?", "")
	require.NoError(t, projects.Create(ctx, p))

	for _, n := range []int{2, 1} {
		res := stage.NewResult(p.ID, n)
		res.Status = stage.StatusComplete
		require.NoError(t, stages.Save(ctx, res))
	}

	got, err := projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.StageResults, 2)
	assert.Equal(t, 1, got.StageResults[0].StageNumber)
	assert.Equal(t, 2, got.StageResults[1].StageNumber)
}

func TestProjectRepository_Update(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	defer testDB.Close()

	repo := NewProjectRepository(testDB.Tx())
	ctx := context.Background()

	p := project.New("Study", "Question?", "")
	require.NoError(t, repo.Create(ctx, p))

	t.Run("applies partial updates", func(t *testing.T) {
		state := project.StateInProgress
		next := 3
		require.NoError(t, repo.Update(ctx, p.ID, project.UpdateFields{
			State:        &state,
			CurrentStage: &next,
		}))

		got, err := repo.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, project.StateInProgress, got.State)
		assert.Equal(t, 3, got.CurrentStage)
		assert.Equal(t, "Study", got.Name, "untouched fields stay intact")
		assert.True(t, got.UpdatedAt.After(got.CreatedAt))
	})

	t.Run("returns not found for missing project", func(t *testing.T) {
		name := "x"
		err := repo.Update(ctx, "missing", project.UpdateFields{Name: &name})
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})
}

func TestProjectRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	defer testDB.Close()

	projects := NewProjectRepository(testDB.Tx())
	stages := NewStageResultRepository(testDB.Tx())
	ctx := context.Background()

	p := project.New("Study", "Question?", "")
	require.NoError(t, projects.Create(ctx, p))

	res := stage.NewResult(p.ID, 1)
	res.Status = stage.StatusComplete
	require.NoError(t, stages.Save(ctx, res))

	require.NoError(t, projects.Delete(ctx, p.ID))

	_, err := projects.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = stages.GetByStage(ctx, p.ID, 1)
	assert.ErrorIs(t, err, errors.ErrNotFound, "cascade removes stage results")

	assert.ErrorIs(t, projects.Delete(ctx, p.ID), errors.ErrNotFound)
}
