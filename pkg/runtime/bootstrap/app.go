// Package bootstrap builds the application graph from settings. Both the CLI
// and the web server start here.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/services/backend"
	"github.com/de-tools/farm-insights/pkg/services/backend/providers"
	"github.com/de-tools/farm-insights/pkg/services/config"
	"github.com/de-tools/farm-insights/pkg/services/diagnostics"
	"github.com/de-tools/farm-insights/pkg/services/generation"
	"github.com/de-tools/farm-insights/pkg/services/insights"
	"github.com/de-tools/farm-insights/pkg/services/prompt"
	"github.com/de-tools/farm-insights/pkg/services/sources"
	"github.com/de-tools/farm-insights/pkg/store/duckdb"
	attemptstore "github.com/de-tools/farm-insights/pkg/store/duckdb/generation"
	"github.com/de-tools/farm-insights/pkg/store/s3archive"
	sqlstore "github.com/de-tools/farm-insights/pkg/store/sql"
	"github.com/rs/zerolog"
)

// AttemptLog reads back recorded generation attempts.
type AttemptLog interface {
	Attempts(ctx context.Context, runID string) ([]domain.Attempt, error)
	RecentAttempts(ctx context.Context, limit int) ([]domain.Attempt, error)
}

type App struct {
	Insights insights.Service
	Records  sources.Loader // nil when no record source is configured
	Attempts AttemptLog

	dbs []*sql.DB
}

func New(ctx context.Context, settings *config.Settings) (*App, error) {
	logger := zerolog.Ctx(ctx)
	app := &App{}

	invoker, err := providers.Registry().Create(settings.Backend)
	if err != nil {
		if domain.KindOf(err) == "" {
			err = domain.NewError(domain.KindConfiguration, "invalid backend configuration", err)
		}
		// startup continues so that offline commands work; every generation
		// call reports the configuration error instead
		logger.Warn().Err(err).Str("provider", settings.Backend.Provider).Msg("generation backend unavailable")
		invoker = backend.Unavailable(err)
	}

	recorder, err := app.diagnostics(ctx, settings.Diagnostics)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Attempts = recorder

	var genRecorder generation.Recorder
	if settings.Diagnostics.DuckDBPath != "" || settings.Diagnostics.S3Bucket != "" {
		genRecorder = recorder
	}

	builder := prompt.NewBuilder()
	controller := generation.NewController(invoker, builder, settings.Generation, genRecorder)
	app.Insights = insights.NewService(controller, builder)

	db, err := sources.Open(ctx, settings.Source)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to open record source: %w", err)
	}
	if db != nil {
		app.dbs = append(app.dbs, db)
		reader, err := sqlstore.NewRecordReader(db, settings.Source.Table)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.Records = sources.NewLoader(reader)
	}

	return app, nil
}

func (a *App) diagnostics(ctx context.Context, cfg config.DiagnosticsConfig) (*diagnostics.Recorder, error) {
	var attempts attemptstore.Store
	if cfg.DuckDBPath != "" {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.DuckDBPath})
		if err != nil {
			return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		a.dbs = append(a.dbs, db)

		attempts, err = attemptstore.NewStore(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create attempt store: %w", err)
		}
	}

	var archive diagnostics.FailureArchive
	if cfg.S3Bucket != "" {
		s3, err := s3archive.New(ctx, s3archive.Config{
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
			Profile:  cfg.AWSProfile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create failure archive: %w", err)
		}
		archive = s3
	}

	return diagnostics.NewRecorder(attempts, archive), nil
}

func (a *App) Close() error {
	var errs []error
	for _, db := range a.dbs {
		errs = append(errs, db.Close())
	}
	a.dbs = nil
	return errors.Join(errs...)
}
