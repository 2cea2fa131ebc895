// Package generation runs a prompt through the backend, extracts and
// validates the reply, and retries once with a corrective prompt when the
// reply is unusable.
package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/services/backend"
	"github.com/de-tools/farm-insights/pkg/services/extract"
	"github.com/de-tools/farm-insights/pkg/services/prompt"
	"github.com/de-tools/farm-insights/pkg/services/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MaxAttempts is the hard cap on backend invocations per run.
const MaxAttempts = 2

// Recorder receives every attempt of a run and, on terminal failure, the
// final result. Recorder errors never fail the run.
type Recorder interface {
	RecordAttempt(ctx context.Context, attempt domain.Attempt) error
	RecordFailure(ctx context.Context, result domain.GenerationResult, attempts []domain.Attempt) error
}

type Controller struct {
	invoker  backend.Invoker
	builder  *prompt.Builder
	options  backend.Options
	recorder Recorder
	now      func() time.Time
}

// NewController wires the pipeline. recorder may be nil.
func NewController(invoker backend.Invoker, builder *prompt.Builder, options backend.Options, recorder Recorder) *Controller {
	if builder == nil {
		builder = prompt.NewBuilder()
	}
	return &Controller{
		invoker:  invoker,
		builder:  builder,
		options:  options,
		recorder: recorder,
		now:      time.Now,
	}
}

type run struct {
	id       string
	schemaID string
	attempts []domain.Attempt
}

// Run sends the prompt to the backend and validates the reply against s.
// The backend is invoked at most MaxAttempts times, strictly in sequence.
func (c *Controller) Run(ctx context.Context, spec domain.PromptSpec, s *schema.Schema) domain.GenerationResult {
	r := &run{id: uuid.NewString(), schemaID: spec.SchemaID}
	if s != nil {
		r.schemaID = s.ID()
	}

	logger := zerolog.Ctx(ctx).With().
		Str("run_id", r.id).
		Str("schema", r.schemaID).
		Logger()
	ctx = logger.WithContext(ctx)

	if s == nil || c.invoker == nil {
		return c.fail(ctx, r, domain.Errorf(domain.KindConfiguration, "generation pipeline is not configured"))
	}
	if err := c.options.Validate(); err != nil {
		return c.fail(ctx, r, asError(err))
	}

	first, value, err := c.attempt(ctx, r, spec, s)
	if err == nil {
		logger.Info().Int("attempts", 1).Msg("generation succeeded")
		return domain.Succeeded(r.id, r.schemaID, value, 1)
	}
	if !err.Kind.IsOutput() {
		return c.fail(ctx, r, err)
	}

	logger.Warn().
		Err(err).
		Str("raw_text", first).
		Msg("first attempt produced unusable output, retrying with corrective prompt")

	corrective, buildErr := c.builder.Corrective(spec, s)
	if buildErr != nil {
		return c.fail(ctx, r, domain.NewError(domain.KindConfiguration, "failed to build corrective prompt", buildErr))
	}

	second, value, err := c.attempt(ctx, r, corrective, s)
	if err == nil {
		logger.Info().Int("attempts", 2).Msg("generation succeeded after corrective retry")
		return domain.Succeeded(r.id, r.schemaID, value, 2)
	}

	// any failure of the corrective attempt is terminal; the cause stays
	// reachable through Err
	return c.fail(ctx, r, &domain.Error{
		Kind:     domain.KindInvalidOutputAfterRetry,
		Message:  fmt.Sprintf("no valid model output after %d attempts", MaxAttempts),
		Raw:      first,
		RetryRaw: second,
		Err:      err,
	})
}

// attempt performs one invocation and returns the raw text alongside either
// the validated document or a classified error.
func (c *Controller) attempt(ctx context.Context, r *run, spec domain.PromptSpec, s *schema.Schema) (string, map[string]any, *domain.Error) {
	rec := domain.Attempt{
		RunID:     r.id,
		SchemaID:  r.schemaID,
		Number:    len(r.attempts) + 1,
		Mode:      spec.Mode,
		Prompt:    spec.Text,
		CreatedAt: c.now().UTC(),
	}

	text, err := c.invoker.Invoke(ctx, spec.Text, c.options)
	var value map[string]any
	if err == nil {
		rec.RawText = text
		value, err = parse(text, s)
	}

	var derr *domain.Error
	if err != nil {
		derr = asError(err)
		if derr.Raw == "" && derr.Kind.IsOutput() {
			derr.Raw = text
		}
		rec.ErrorKind = derr.Kind
		rec.Error = derr.Error()
	}

	r.attempts = append(r.attempts, rec)
	c.record(ctx, rec)
	return text, value, derr
}

func parse(text string, s *schema.Schema) (map[string]any, error) {
	v, err := extract.JSON(text)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(v); err != nil {
		return nil, err
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, domain.Errorf(domain.KindValidation, "expected a JSON object, got %T", v)
	}
	return doc, nil
}

func (c *Controller) fail(ctx context.Context, r *run, err *domain.Error) domain.GenerationResult {
	result := domain.Failed(r.id, r.schemaID, err, len(r.attempts))

	zerolog.Ctx(ctx).Error().
		Err(err).
		Str("kind", string(err.Kind)).
		Int("attempts", len(r.attempts)).
		Str("raw_text", err.Raw).
		Str("retry_raw_text", err.RetryRaw).
		Msg("generation failed")

	if c.recorder != nil {
		if rerr := c.recorder.RecordFailure(ctx, result, r.attempts); rerr != nil {
			zerolog.Ctx(ctx).Warn().Err(rerr).Msg("failed to record generation failure")
		}
	}
	return result
}

func (c *Controller) record(ctx context.Context, attempt domain.Attempt) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordAttempt(ctx, attempt); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int("attempt", attempt.Number).Msg("failed to record generation attempt")
	}
}

// asError classifies err, treating anything unclassified as an unknown
// transport failure.
func asError(err error) *domain.Error {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return derr
	}
	return domain.NewError(domain.KindUnknown, "backend invocation failed", err)
}
