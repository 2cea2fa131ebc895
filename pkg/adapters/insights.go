package adapters

import (
	"github.com/de-tools/farm-insights/pkg/models/api"
	"github.com/de-tools/farm-insights/pkg/models/domain"
)

func MapAggregateDomainToApi(agg domain.Aggregate) api.Metrics {
	return api.Metrics{
		TotalCost:    agg.TotalCost,
		TotalRevenue: agg.TotalRevenue,
		TotalProfit:  agg.TotalProfit,
		ProfitMargin: agg.ProfitMargin,
	}
}

func MapMetricsApiToDomain(metrics api.Metrics) domain.Aggregate {
	return domain.Aggregate{
		TotalCost:    metrics.TotalCost,
		TotalRevenue: metrics.TotalRevenue,
		TotalProfit:  metrics.TotalProfit,
		ProfitMargin: metrics.ProfitMargin,
	}
}

func MapCostAnalysisApiToDomain(analysis api.CostAnalysis) domain.CostAnalysis {
	trends := make([]domain.MonthlyTrend, 0, len(analysis.MonthlyTrends))
	for _, t := range analysis.MonthlyTrends {
		trends = append(trends, domain.MonthlyTrend{
			Period:      t.Period,
			Cost:        t.Cost,
			Revenue:     t.Revenue,
			Profit:      t.Profit,
			Observation: t.Observation,
		})
	}

	return domain.CostAnalysis{
		Summary:         analysis.Summary,
		Metrics:         MapMetricsApiToDomain(analysis.Metrics),
		MonthlyTrends:   trends,
		Recommendations: append([]string{}, analysis.Recommendations...),
	}
}

func MapCostAnalysisDomainToApi(analysis domain.CostAnalysis) api.CostAnalysis {
	trends := make([]api.MonthlyTrend, 0, len(analysis.MonthlyTrends))
	for _, t := range analysis.MonthlyTrends {
		trends = append(trends, api.MonthlyTrend{
			Period:      t.Period,
			Cost:        t.Cost,
			Revenue:     t.Revenue,
			Profit:      t.Profit,
			Observation: t.Observation,
		})
	}

	return api.CostAnalysis{
		Summary:         analysis.Summary,
		Metrics:         MapAggregateDomainToApi(analysis.Metrics),
		MonthlyTrends:   trends,
		Recommendations: append([]string{}, analysis.Recommendations...),
	}
}

func MapYieldPredictionApiToDomain(prediction api.YieldPrediction) domain.YieldPrediction {
	return domain.YieldPrediction{
		PredictedYield: prediction.PredictedYield,
		Confidence:     prediction.Confidence,
		Insights:       prediction.Insights,
	}
}

func MapYieldPredictionDomainToApi(prediction domain.YieldPrediction) api.YieldPrediction {
	return api.YieldPrediction{
		PredictedYield: prediction.PredictedYield,
		Confidence:     prediction.Confidence,
		Insights:       prediction.Insights,
	}
}

func MapPlantingContextApiToDomain(planting api.PlantingContext) domain.PlantingContext {
	return domain.PlantingContext{
		CropType:     planting.CropType,
		PlantingDate: planting.PlantingDate,
		Area:         float64(planting.Area),
		Expenses:     float64(planting.Expenses),
		InputsUsed:   planting.InputsUsed,
	}
}

func MapErrorDomainToApi(err *domain.Error) api.Error {
	return api.Error{
		Kind:    string(err.Kind),
		Message: err.UserMessage(),
	}
}
