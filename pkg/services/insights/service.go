// Package insights implements the two user-facing flows: cost/profit
// analysis and yield prediction.
package insights

import (
	"context"

	"github.com/de-tools/farm-insights/pkg/adapters"
	"github.com/de-tools/farm-insights/pkg/models/api"
	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/services/aggregate"
	"github.com/de-tools/farm-insights/pkg/services/prompt"
	"github.com/de-tools/farm-insights/pkg/services/schema"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type Service interface {
	AnalyzeCosts(ctx context.Context, records []domain.FarmRecord) (domain.CostAnalysis, error)
	PredictYield(ctx context.Context, planting domain.PlantingContext, records []domain.FarmRecord) (domain.YieldPrediction, error)
}

// Runner executes a rendered prompt against an output contract.
// *generation.Controller is the production implementation.
type Runner interface {
	Run(ctx context.Context, spec domain.PromptSpec, s *schema.Schema) domain.GenerationResult
}

type service struct {
	runner   Runner
	builder  *prompt.Builder
	validate *validator.Validate
}

func NewService(runner Runner, builder *prompt.Builder) Service {
	if builder == nil {
		builder = prompt.NewBuilder()
	}
	return &service{
		runner:   runner,
		builder:  builder,
		validate: validator.New(),
	}
}

func (s *service) AnalyzeCosts(ctx context.Context, records []domain.FarmRecord) (domain.CostAnalysis, error) {
	if len(records) == 0 {
		return domain.CostAnalysis{}, domain.Errorf(domain.KindInput, "no farm records to analyze")
	}

	totals, err := aggregate.Totals(records)
	if err != nil {
		return domain.CostAnalysis{}, err
	}
	spec, err := s.builder.Build(prompt.Input{
		Schema:    schema.CostAnalysis,
		Aggregate: totals,
		Records:   records,
	}, domain.PromptModeInitial)
	if err != nil {
		return domain.CostAnalysis{}, err
	}

	result := s.runner.Run(ctx, spec, schema.CostAnalysis)
	if !result.OK() {
		return domain.CostAnalysis{}, result.Failure
	}

	var out api.CostAnalysis
	if err := result.Decode(&out); err != nil {
		return domain.CostAnalysis{}, domain.NewError(domain.KindValidation, "validated analysis could not be decoded", err)
	}

	analysis := adapters.MapCostAnalysisApiToDomain(out)
	if analysis.Metrics != totals {
		zerolog.Ctx(ctx).Debug().
			Str("run_id", result.RunID).
			Interface("model_metrics", out.Metrics).
			Msg("replacing model metrics with computed totals")
	}
	analysis.Metrics = totals
	return analysis, nil
}

func (s *service) PredictYield(
	ctx context.Context,
	planting domain.PlantingContext,
	records []domain.FarmRecord,
) (domain.YieldPrediction, error) {
	if err := s.validate.Struct(planting); err != nil {
		return domain.YieldPrediction{}, domain.NewError(domain.KindInput, "invalid planting context", err)
	}
	if len(records) == 0 {
		return domain.YieldPrediction{}, domain.Errorf(domain.KindInput, "no historical farm records for prediction")
	}

	totals, err := aggregate.Totals(records)
	if err != nil {
		return domain.YieldPrediction{}, err
	}
	spec, err := s.builder.Build(prompt.Input{
		Schema:    schema.YieldPrediction,
		Aggregate: totals,
		Records:   records,
		Planting:  &planting,
	}, domain.PromptModeInitial)
	if err != nil {
		return domain.YieldPrediction{}, err
	}

	result := s.runner.Run(ctx, spec, schema.YieldPrediction)
	if !result.OK() {
		return domain.YieldPrediction{}, result.Failure
	}

	var out api.YieldPrediction
	if err := result.Decode(&out); err != nil {
		return domain.YieldPrediction{}, domain.NewError(domain.KindValidation, "validated prediction could not be decoded", err)
	}
	return adapters.MapYieldPredictionApiToDomain(out), nil
}
