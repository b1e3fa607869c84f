package repositories_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/repositories"
	"github.com/myrjola/gumshoe/internal/sqlite"
	"github.com/stretchr/testify/require"
)

// newTestDB creates a new in-memory database for testing purposes.
func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dbs, err := sqlite.NewDatabase(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, dbs.Close())
	})
	return dbs
}

func TestCasebookRepository_RecordAndRecent(t *testing.T) {
	ctx := context.Background()
	dbs := newTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repositories.NewCasebookRepository(dbs, logger)

	entries, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, entries)

	first := models.CasebookEntry{
		CaseTitle:  "The Grandfather Clock Affair",
		Difficulty: models.DifficultyMedium,
		Accused:    "Arthur Penn",
		Culprit:    "Jean Brash",
		Correct:    false,
		FinishedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Record(ctx, first))

	second := models.CasebookEntry{
		CaseTitle:  "Death at the Observatory",
		Difficulty: models.DifficultyHard,
		Accused:    "Jean Brash",
		Culprit:    "Jean Brash",
		Correct:    true,
		FinishedAt: time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Record(ctx, second))

	entries, err = repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	require.Equal(t, "Death at the Observatory", entries[0].CaseTitle)
	require.True(t, entries[0].Correct)
	require.Equal(t, models.DifficultyHard, entries[0].Difficulty)
	require.Equal(t, "The Grandfather Clock Affair", entries[1].CaseTitle)
	require.False(t, entries[1].Correct)

	entries, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Death at the Observatory", entries[0].CaseTitle)
}

func TestCasebookRepository_RecordFillsFinishedAt(t *testing.T) {
	ctx := context.Background()
	dbs := newTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repositories.NewCasebookRepository(dbs, logger)

	require.NoError(t, repo.Record(ctx, models.CasebookEntry{
		CaseTitle:  "The Grandfather Clock Affair",
		Difficulty: models.DifficultyEasy,
		Accused:    "Jean Brash",
		Culprit:    "Jean Brash",
		Correct:    true,
	}))

	entries, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.False(t, entries[0].FinishedAt.IsZero())
}
