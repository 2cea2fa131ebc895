// Package schema declares the output contracts a generation result must
// satisfy. Each Schema serves both the prompt builder (shape text and worked
// example) and the validator (compiled JSON Schema).
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaBaseURL = "https://farm-insights.schemas.local/"

type Schema struct {
	id       string
	shape    string
	example  []byte
	compiled *jsonschema.Schema
}

// New compiles document (draft 2020-12) and checks that example satisfies it.
func New(id, document, shape string, example map[string]any) (*Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := schemaBaseURL + id + ".schema.json"
	if err := c.AddResource(url, strings.NewReader(document)); err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", id, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", id, err)
	}

	exampleJSON, err := json.MarshalIndent(example, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode example for %s: %w", id, err)
	}

	s := &Schema{
		id:       id,
		shape:    strings.TrimSpace(shape),
		example:  exampleJSON,
		compiled: compiled,
	}
	if err := s.Validate(s.Example()); err != nil {
		return nil, fmt.Errorf("example for %s does not match its schema: %w", id, err)
	}
	return s, nil
}

func (s *Schema) ID() string {
	return s.id
}

// Shape is the human-readable contract embedded in prompts.
func (s *Schema) Shape() string {
	return s.shape
}

// Example returns a fresh copy of the placeholder document.
func (s *Schema) Example() map[string]any {
	var out map[string]any
	_ = json.Unmarshal(s.example, &out)
	return out
}

// ExampleJSON is the indented placeholder document.
func (s *Schema) ExampleJSON() string {
	return string(s.example)
}

// Validate checks a value decoded by encoding/json against the schema.
func (s *Schema) Validate(v any) error {
	if err := s.compiled.Validate(v); err != nil {
		return &domain.Error{
			Kind:    domain.KindValidation,
			Message: fmt.Sprintf("reply does not match %s schema", s.id),
			Err:     err,
		}
	}
	return nil
}

var registry = map[string]*Schema{
	YieldPrediction.ID(): YieldPrediction,
	CostAnalysis.ID():    CostAnalysis,
}

func Lookup(id string) (*Schema, bool) {
	s, ok := registry[id]
	return s, ok
}

// All returns the declared schemas ordered by ID.
func All() []*Schema {
	out := make([]*Schema, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func mustNew(id, document, shape string, example map[string]any) *Schema {
	s, err := New(id, document, shape, example)
	if err != nil {
		panic(err)
	}
	return s
}
