package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sor/internal/domain/document"
	"sor/internal/testsupport"
	"sor/pkg/errors"
)

func TestDocumentRepository_CreateAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	defer testDB.Close()

	projects := NewProjectRepository(testDB.Tx())
	docs := NewDocumentRepository(testDB.Tx())
	ctx := context.Background()

	p := seedTestProject(t, projects)

	first := document.New(p.ID, "notes.txt", "text/plain", "interview notes")
	require.NoError(t, docs.Create(ctx, first))

	second := document.New(p.ID, "survey.csv", "text/csv", "q1,q2\nyes,no")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, docs.Create(ctx, second))

	got, err := docs.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got, 2, "documents come back newest first")
	assert.Equal(t, "survey.csv", got[0].Filename)
	assert.Equal(t, "notes.txt", got[1].Filename)
	assert.Equal(t, "interview notes", got[1].ExtractedText)
}

func TestDocumentRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	defer testDB.Close()

	projects := NewProjectRepository(testDB.Tx())
	docs := NewDocumentRepository(testDB.Tx())
	ctx := context.Background()

	p := seedTestProject(t, projects)
	d := document.New(p.ID, "notes.txt", "text/plain", "interview notes")
	require.NoError(t, docs.Create(ctx, d))

	require.NoError(t, docs.Delete(ctx, d.ID))

	got, err := docs.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.ErrorIs(t, docs.Delete(ctx, d.ID), errors.ErrNotFound)
}
