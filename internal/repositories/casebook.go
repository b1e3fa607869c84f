package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/sqlite"
)

// CasebookRepository archives the outcomes of resolved cases.
type CasebookRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewCasebookRepository(dbs *sqlite.Database, logger *slog.Logger) *CasebookRepository {
	return &CasebookRepository{
		dbs:    dbs,
		logger: logger.With("source", "CasebookRepository"),
	}
}

// Record stores the outcome of a finished game. The FinishedAt timestamp is
// filled in when left zero.
func (r *CasebookRepository) Record(ctx context.Context, entry models.CasebookEntry) error {
	if entry.FinishedAt.IsZero() {
		entry.FinishedAt = time.Now().UTC()
	}
	stmt := `INSERT INTO solved_cases (case_title, difficulty, accused, culprit, correct, finished_at)
	VALUES (:case_title, :difficulty, :accused, :culprit, :correct, :finished_at)`
	if _, err := r.dbs.ReadWrite.NamedExecContext(ctx, stmt, entry); err != nil {
		return errors.Wrap(err, "insert solved case",
			slog.String("case_title", entry.CaseTitle))
	}
	return nil
}

// Recent returns the latest archived outcomes, newest first.
func (r *CasebookRepository) Recent(ctx context.Context, limit int) ([]models.CasebookEntry, error) {
	entries := []models.CasebookEntry{}
	stmt := `SELECT id, case_title, difficulty, accused, culprit, correct, finished_at
	FROM solved_cases
	ORDER BY finished_at DESC, id DESC
	LIMIT ?`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &entries, stmt, limit); err != nil {
		return nil, errors.Wrap(err, "query solved cases")
	}
	return entries, nil
}
