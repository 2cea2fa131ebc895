// Package diagnostics keeps the raw model output of generation runs so that
// operators can see why a run failed.
package diagnostics

import (
	"context"
	"fmt"

	"github.com/de-tools/farm-insights/pkg/adapters"
	"github.com/de-tools/farm-insights/pkg/models/api"
	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/models/store"
	attemptstore "github.com/de-tools/farm-insights/pkg/store/duckdb/generation"
	"github.com/rs/zerolog"
)

// FailureArchive stores terminal failure documents outside the process.
type FailureArchive interface {
	PutFailure(ctx context.Context, failure api.GenerationFailure) (string, error)
}

// Recorder implements generation.Recorder. Either sink may be nil.
type Recorder struct {
	attempts attemptstore.Store
	archive  FailureArchive
}

func NewRecorder(attempts attemptstore.Store, archive FailureArchive) *Recorder {
	return &Recorder{attempts: attempts, archive: archive}
}

func (r *Recorder) RecordAttempt(ctx context.Context, attempt domain.Attempt) error {
	if r.attempts == nil {
		return nil
	}
	return r.attempts.Add(ctx, []store.GenerationAttempt{adapters.MapAttemptDomainToStore(attempt)})
}

func (r *Recorder) RecordFailure(ctx context.Context, result domain.GenerationResult, attempts []domain.Attempt) error {
	if r.archive == nil || result.OK() {
		return nil
	}

	key, err := r.archive.PutFailure(ctx, adapters.MapGenerationFailureDomainToApi(result, attempts))
	if err != nil {
		return fmt.Errorf("archive failure for run %s: %w", result.RunID, err)
	}
	zerolog.Ctx(ctx).Info().Str("key", key).Msg("archived generation failure")
	return nil
}

// Attempts returns the recorded attempts of one run, oldest first.
func (r *Recorder) Attempts(ctx context.Context, runID string) ([]domain.Attempt, error) {
	if r.attempts == nil {
		return nil, domain.Errorf(domain.KindConfiguration, "attempt log is disabled; set diagnostics.duckdb_path")
	}
	rows, err := r.attempts.ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return mapAttempts(rows), nil
}

// RecentAttempts returns the newest recorded attempts across runs.
func (r *Recorder) RecentAttempts(ctx context.Context, limit int) ([]domain.Attempt, error) {
	if r.attempts == nil {
		return nil, domain.Errorf(domain.KindConfiguration, "attempt log is disabled; set diagnostics.duckdb_path")
	}
	rows, err := r.attempts.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return mapAttempts(rows), nil
}

func mapAttempts(rows []store.GenerationAttempt) []domain.Attempt {
	out := make([]domain.Attempt, 0, len(rows))
	for _, row := range rows {
		out = append(out, adapters.MapAttemptStoreToDomain(row))
	}
	return out
}
