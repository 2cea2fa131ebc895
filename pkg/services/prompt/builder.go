// Package prompt renders generation prompts from locally computed facts and
// an output contract.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/de-tools/farm-insights/pkg/adapters"
	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/services/aggregate"
	"github.com/de-tools/farm-insights/pkg/services/schema"
)

// DefaultSampleSize bounds how many records are embedded in a prompt.
const DefaultSampleSize = 20

const initialTemplate = `You are an expert agricultural analyst. {{.Task}}
{{- with .Planting}}

Current crop: {{.CropType}}
Planting date: {{.PlantingDate}}
Area: {{printf "%g" .Area}} hectares
Expenses: {{printf "%g" .Expenses}}
Inputs used: {{.InputsUsed}}
{{- end}}

Computed totals (use these numbers exactly; do not invent or recompute totals):
{{.Totals}}

Sample records ({{.SampleCount}} of {{.RecordCount}}):
{{.Sample}}

Return ONLY a single valid JSON object with this structure:
{{.Shape}}

Do not include any commentary or markdown, and do not wrap the object in code fences.`

const correctiveTemplate = `{{.Previous}}

The previous response was invalid or unparsable. Return a single JSON object that follows this example exactly in structure, replacing the placeholder values:
{{.Example}}

Return only the JSON object, with no text before or after it.`

var (
	initialTmpl    = template.Must(template.New("initial").Parse(initialTemplate))
	correctiveTmpl = template.Must(template.New("corrective").Parse(correctiveTemplate))
)

var tasks = map[string]string{
	schema.CostAnalysisID:    "Use the computed totals and the sample records below to analyze costs against profit.",
	schema.YieldPredictionID: "Based on the following farm data and the historical harvest records, predict the yield.",
}

type Input struct {
	Schema    *schema.Schema
	Aggregate domain.Aggregate
	Records   []domain.FarmRecord
	Planting  *domain.PlantingContext // required for yield prediction
}

type Builder struct {
	SampleSize int
}

func NewBuilder() *Builder {
	return &Builder{SampleSize: DefaultSampleSize}
}

type initialData struct {
	Task        string
	Planting    *domain.PlantingContext
	Totals      string
	Sample      string
	SampleCount int
	RecordCount int
	Shape       string
}

// Build renders the initial prompt for in. A corrective mode renders the
// initial prompt and then wraps it with Corrective.
func (b *Builder) Build(in Input, mode domain.PromptMode) (domain.PromptSpec, error) {
	if in.Schema == nil {
		return domain.PromptSpec{}, domain.Errorf(domain.KindConfiguration, "prompt requires an output schema")
	}
	if in.Schema.ID() == schema.YieldPredictionID && in.Planting == nil {
		return domain.PromptSpec{}, domain.Errorf(domain.KindInput, "yield prediction requires a planting context")
	}

	size := b.SampleSize
	if size <= 0 {
		size = DefaultSampleSize
	}
	sample := aggregate.Sample(in.Records, size)

	totals, err := json.MarshalIndent(adapters.MapAggregateDomainToApi(in.Aggregate), "", "  ")
	if err != nil {
		return domain.PromptSpec{}, fmt.Errorf("encode totals: %w", err)
	}
	records, err := json.MarshalIndent(adapters.MapFarmRecordsDomainToApi(sample), "", "  ")
	if err != nil {
		return domain.PromptSpec{}, fmt.Errorf("encode sample records: %w", err)
	}

	task, ok := tasks[in.Schema.ID()]
	if !ok {
		task = "Use the computed totals and the sample records below."
	}

	var sb strings.Builder
	err = initialTmpl.Execute(&sb, initialData{
		Task:        task,
		Planting:    in.Planting,
		Totals:      string(totals),
		Sample:      string(records),
		SampleCount: len(sample),
		RecordCount: len(in.Records),
		Shape:       in.Schema.Shape(),
	})
	if err != nil {
		return domain.PromptSpec{}, fmt.Errorf("render prompt: %w", err)
	}

	spec := domain.PromptSpec{
		Text:     sb.String(),
		SchemaID: in.Schema.ID(),
		Mode:     domain.PromptModeInitial,
	}
	if mode == domain.PromptModeCorrective {
		return b.Corrective(spec, in.Schema)
	}
	return spec, nil
}

// Corrective appends a repair instruction and the schema's example object to
// a previous prompt.
func (b *Builder) Corrective(previous domain.PromptSpec, s *schema.Schema) (domain.PromptSpec, error) {
	var sb strings.Builder
	err := correctiveTmpl.Execute(&sb, struct {
		Previous string
		Example  string
	}{
		Previous: previous.Text,
		Example:  s.ExampleJSON(),
	})
	if err != nil {
		return domain.PromptSpec{}, fmt.Errorf("render corrective prompt: %w", err)
	}

	return domain.PromptSpec{
		Text:     sb.String(),
		SchemaID: s.ID(),
		Mode:     domain.PromptModeCorrective,
	}, nil
}
