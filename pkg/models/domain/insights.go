package domain

// CostAnalysis is the validated cost/profit analysis returned to callers.
// Metrics always carries the locally computed Aggregate.
type CostAnalysis struct {
	Summary         string
	Metrics         Aggregate
	MonthlyTrends   []MonthlyTrend
	Recommendations []string
}

type MonthlyTrend struct {
	Period      string // YYYY-MM
	Cost        float64
	Revenue     float64
	Profit      float64
	Observation string
}

// YieldPrediction is the validated yield prediction returned to callers.
type YieldPrediction struct {
	PredictedYield float64
	Confidence     float64 // 0..1
	Insights       string
}
