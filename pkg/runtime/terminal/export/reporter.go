package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/farm-insights/pkg/adapters"
	"github.com/de-tools/farm-insights/pkg/models/api"
	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/services/schema"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type TableConfig struct {
	PeriodWidth      int
	AmountWidth      int
	ObservationWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		PeriodWidth:      8,
		AmountWidth:      14,
		ObservationWidth: 48,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
	format string
}

func NewReporter(writer io.Writer, format string) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	if format == "" {
		format = FormatText
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
		format: format,
	}
}

func (c *Reporter) funcs() template.FuncMap {
	return template.FuncMap{
		"trendRow": func(period string, cost, revenue, profit any, observation string) string {
			return fmt.Sprintf("| %-*s | %*v | %*v | %*v | %-*s |",
				c.config.PeriodWidth, period,
				c.config.AmountWidth, cost,
				c.config.AmountWidth, revenue,
				c.config.AmountWidth, profit,
				c.config.ObservationWidth, observation)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.PeriodWidth+2),
				strings.Repeat("-", c.config.AmountWidth+2),
				strings.Repeat("-", c.config.AmountWidth+2),
				strings.Repeat("-", c.config.AmountWidth+2),
				strings.Repeat("-", c.config.ObservationWidth+2))
		},
		"money": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"percent": func(v float64) string {
			return fmt.Sprintf("%.1f%%", v*100)
		},
	}
}

const analysisTemplate = `
Cost vs Profit Analysis

{{.Summary}}

Total Cost:    {{money .Metrics.TotalCost}}
Total Revenue: {{money .Metrics.TotalRevenue}}
Total Profit:  {{money .Metrics.TotalProfit}}
Profit Margin: {{percent .Metrics.ProfitMargin}}
{{if .MonthlyTrends}}
{{separator}}
{{trendRow "Period" "Cost" "Revenue" "Profit" "Observation"}}
{{separator}}
{{range .MonthlyTrends}}{{trendRow .Period (money .Cost) (money .Revenue) (money .Profit) .Observation}}
{{end}}{{separator}}
{{end}}{{if .Recommendations}}
Recommendations:
{{range .Recommendations}}- {{.}}
{{end}}{{end}}`

const predictionTemplate = `
Yield Prediction

Predicted Yield: {{printf "%g" .PredictedYield}}
Confidence:      {{percent .Confidence}}

{{.Insights}}
`

const schemasTemplate = `{{range .}}
=== {{.ID}} ===
{{.Shape}}
{{end}}`

const attemptsTemplate = `{{range .}}
[{{.RunID}} #{{.Number}}] {{.SchemaID}} {{.Mode}} {{.CreatedAt.Format "2006-01-02 15:04:05"}}{{if .ErrorKind}} error={{.ErrorKind}}{{end}}
{{if .Error}}{{.Error}}
{{end}}--- raw text ---
{{.RawText}}
{{end}}`

func (c *Reporter) render(name, tmpl string, data any, jsonBody any) error {
	if c.format == FormatJSON {
		enc := json.NewEncoder(c.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonBody)
	}

	t, err := template.New(name).Funcs(c.funcs()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}

func (c *Reporter) CostAnalysis(analysis domain.CostAnalysis) error {
	return c.render("analysis", analysisTemplate, analysis, adapters.MapCostAnalysisDomainToApi(analysis))
}

func (c *Reporter) YieldPrediction(prediction domain.YieldPrediction) error {
	return c.render("prediction", predictionTemplate, prediction, adapters.MapYieldPredictionDomainToApi(prediction))
}

func (c *Reporter) Schemas(schemas []*schema.Schema) error {
	views := make([]api.Schema, 0, len(schemas))
	for _, s := range schemas {
		views = append(views, api.Schema{ID: s.ID(), Shape: s.Shape(), Example: s.Example()})
	}
	return c.render("schemas", schemasTemplate, views, views)
}

func (c *Reporter) Attempts(attempts []domain.Attempt) error {
	out := make([]api.Attempt, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, adapters.MapAttemptDomainToApi(a))
	}
	return c.render("attempts", attemptsTemplate, attempts, out)
}
