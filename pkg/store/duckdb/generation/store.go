package generation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/farm-insights/pkg/models/store"
)

// Store keeps generation attempts for operator diagnosis. Add writes a
// batch atomically.
type Store interface {
	Add(ctx context.Context, attempts []store.GenerationAttempt) error
	ListByRun(ctx context.Context, runID string) ([]store.GenerationAttempt, error)
	ListRecent(ctx context.Context, limit int) ([]store.GenerationAttempt, error)
}

type attemptStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &attemptStore{db: db}, nil
}

func (s *attemptStore) Add(ctx context.Context, attempts []store.GenerationAttempt) error {
	if len(attempts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO generation_attempts (
			run_id, schema_id, attempt, mode, prompt,
			raw_text, error_kind, error_message, created_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?
		)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, a := range attempts {
		_, err = stmt.ExecContext(ctx,
			a.RunID,
			a.SchemaID,
			a.Attempt,
			a.Mode,
			a.Prompt,
			a.RawText,
			nullable(a.ErrorKind),
			nullable(a.ErrorMessage),
			a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert attempt %s/%d: %w", a.RunID, a.Attempt, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attempts: %w", err)
	}
	return nil
}

const selectAttempts = `
	SELECT run_id, schema_id, attempt, mode, prompt, raw_text, error_kind, error_message, created_at
	FROM generation_attempts
`

func (s *attemptStore) ListByRun(ctx context.Context, runID string) ([]store.GenerationAttempt, error) {
	rows, err := s.db.QueryContext(ctx, selectAttempts+" WHERE run_id = ? ORDER BY attempt", runID)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func (s *attemptStore) ListRecent(ctx context.Context, limit int) ([]store.GenerationAttempt, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectAttempts+" ORDER BY created_at DESC, attempt DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query recent attempts: %w", err)
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func scanAttempts(rows *sql.Rows) ([]store.GenerationAttempt, error) {
	attempts := make([]store.GenerationAttempt, 0)
	for rows.Next() {
		var (
			a               store.GenerationAttempt
			prompt, raw     sql.NullString
			errKind, errMsg sql.NullString
		)
		if err := rows.Scan(&a.RunID, &a.SchemaID, &a.Attempt, &a.Mode, &prompt, &raw, &errKind, &errMsg, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Prompt = prompt.String
		a.RawText = raw.String
		a.ErrorKind = errKind.String
		a.ErrorMessage = errMsg.String
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
