package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/services/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAnalysis() domain.CostAnalysis {
	return domain.CostAnalysis{
		Summary: "Maize was profitable.",
		Metrics: domain.Aggregate{TotalCost: 1000, TotalRevenue: 1500, TotalProfit: 500, ProfitMargin: 1.0 / 3.0},
		MonthlyTrends: []domain.MonthlyTrend{
			{Period: "2024-03", Cost: 1000, Revenue: 1500, Profit: 500, Observation: "harvest month"},
		},
		Recommendations: []string{"Keep input costs flat"},
	}
}

func TestReporter_CostAnalysisText(t *testing.T) {
	// Given
	var buf bytes.Buffer
	reporter := NewReporter(&buf, FormatText)

	// When
	err := reporter.CostAnalysis(sampleAnalysis())

	// Then
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Maize was profitable.")
	assert.Contains(t, out, "Total Cost:    1000.00")
	assert.Contains(t, out, "Profit Margin: 33.3%")
	assert.Contains(t, out, "2024-03")
	assert.Contains(t, out, "harvest month")
	assert.Contains(t, out, "- Keep input costs flat")
}

func TestReporter_CostAnalysisJSON(t *testing.T) {
	// Given
	var buf bytes.Buffer
	reporter := NewReporter(&buf, FormatJSON)

	// When
	err := reporter.CostAnalysis(sampleAnalysis())

	// Then
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Maize was profitable.", decoded["summary"])
	metrics := decoded["metrics"].(map[string]any)
	assert.Equal(t, 1000.0, metrics["totalCost"])
	assert.Equal(t, 500.0, metrics["totalProfit"])
}

func TestReporter_YieldPredictionText(t *testing.T) {
	// Given
	var buf bytes.Buffer
	reporter := NewReporter(&buf, "")

	// When
	err := reporter.YieldPrediction(domain.YieldPrediction{PredictedYield: 12.5, Confidence: 0.8, Insights: "Rain was adequate."})

	// Then
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Predicted Yield: 12.5")
	assert.Contains(t, buf.String(), "Confidence:      80.0%")
	assert.Contains(t, buf.String(), "Rain was adequate.")
}

func TestReporter_Schemas(t *testing.T) {
	// Given
	var buf bytes.Buffer
	reporter := NewReporter(&buf, FormatText)

	// When
	err := reporter.Schemas(schema.All())

	// Then
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "=== "+schema.CostAnalysisID+" ===")
	assert.Contains(t, buf.String(), "=== "+schema.YieldPredictionID+" ===")
}

func TestReporter_Attempts(t *testing.T) {
	// Given
	var buf bytes.Buffer
	reporter := NewReporter(&buf, FormatText)
	attempts := []domain.Attempt{
		{
			RunID:     "run-1",
			SchemaID:  schema.CostAnalysisID,
			Number:    1,
			Mode:      domain.PromptModeInitial,
			RawText:   "not json",
			ErrorKind: domain.KindNoJSONFound,
			Error:     "no JSON object found",
			CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	// When
	err := reporter.Attempts(attempts)

	// Then
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "[run-1 #1] cost_analysis")
	assert.Contains(t, out, "2024-05-01 10:00:00")
	assert.Contains(t, out, "error=no_json_found")
	assert.Contains(t, out, "not json")
}
