package api

type AnalysisRequest struct {
	Records []FarmRecord `json:"records"`
}

type PlantingContext struct {
	CropType     string `json:"cropType"`
	PlantingDate string `json:"plantingDate"`
	Area         Number `json:"area"`
	Expenses     Number `json:"expenses"`
	InputsUsed   string `json:"inputsUsed"`
}

type PredictionRequest struct {
	Planting PlantingContext `json:"planting"`
	Records  []FarmRecord    `json:"records"`
}

type CostAnalysis struct {
	Summary         string         `json:"summary"`
	Metrics         Metrics        `json:"metrics"`
	MonthlyTrends   []MonthlyTrend `json:"monthlyTrends"`
	Recommendations []string       `json:"recommendations"`
}

type MonthlyTrend struct {
	Period      string  `json:"period"`
	Cost        float64 `json:"cost"`
	Revenue     float64 `json:"revenue"`
	Profit      float64 `json:"profit"`
	Observation string  `json:"observation"`
}

type YieldPrediction struct {
	PredictedYield float64 `json:"predictedYield"`
	Confidence     float64 `json:"confidence"`
	Insights       string  `json:"insights"`
}

type Schema struct {
	ID      string         `json:"id"`
	Shape   string         `json:"shape"`
	Example map[string]any `json:"example"`
}

type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
