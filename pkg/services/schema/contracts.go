package schema

const (
	YieldPredictionID = "yield_prediction"
	CostAnalysisID    = "cost_analysis"
)

const yieldPredictionDocument = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["predictedYield", "confidence", "insights"],
  "properties": {
    "predictedYield": {"type": "number"},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1},
    "insights": {"type": "string"}
  }
}`

const yieldPredictionShape = `
{
  "predictedYield": <number>,
  "confidence": <number between 0 and 1>,
  "insights": "<string with analysis and recommendations>"
}`

const costAnalysisDocument = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["summary", "metrics", "monthlyTrends", "recommendations"],
  "properties": {
    "summary": {"type": "string"},
    "metrics": {
      "type": "object",
      "required": ["totalCost", "totalRevenue", "totalProfit", "profitMargin"],
      "properties": {
        "totalCost": {"type": "number"},
        "totalRevenue": {"type": "number"},
        "totalProfit": {"type": "number"},
        "profitMargin": {"type": "number"}
      }
    },
    "monthlyTrends": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["period", "cost", "revenue", "profit", "observation"],
        "properties": {
          "period": {"type": "string", "pattern": "^[0-9]{4}-(0[1-9]|1[0-2])$"},
          "cost": {"type": "number"},
          "revenue": {"type": "number"},
          "profit": {"type": "number"},
          "observation": {"type": "string"}
        }
      }
    },
    "recommendations": {"type": "array", "items": {"type": "string"}}
  }
}`

const costAnalysisShape = `
{
  "summary": "string (1-2 sentences summary of the overall financial health)",
  "metrics": {
    "totalCost": "number",
    "totalRevenue": "number",
    "totalProfit": "number",
    "profitMargin": "number (0-1, representing percentage)"
  },
  "monthlyTrends": [
    { "period": "YYYY-MM", "cost": "number", "revenue": "number", "profit": "number", "observation": "string (a brief observation about this month)" }
  ],
  "recommendations": ["string", "... up to 5 actionable recommendations"]
}`

var YieldPrediction = mustNew(YieldPredictionID, yieldPredictionDocument, yieldPredictionShape, map[string]any{
	"predictedYield": 0,
	"confidence":     0,
	"insights":       "string",
})

var CostAnalysis = mustNew(CostAnalysisID, costAnalysisDocument, costAnalysisShape, map[string]any{
	"summary": "Short summary",
	"metrics": map[string]any{
		"totalCost":    0,
		"totalRevenue": 0,
		"totalProfit":  0,
		"profitMargin": 0,
	},
	"monthlyTrends": []any{
		map[string]any{
			"period":      "2024-01",
			"cost":        0,
			"revenue":     0,
			"profit":      0,
			"observation": "string",
		},
	},
	"recommendations": []any{"string"},
})
