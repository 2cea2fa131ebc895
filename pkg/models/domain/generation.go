package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type PromptMode string

const (
	PromptModeInitial    PromptMode = "initial"
	PromptModeCorrective PromptMode = "corrective"
)

// PromptSpec is a rendered prompt and the contract it was rendered for.
type PromptSpec struct {
	Text     string
	SchemaID string
	Mode     PromptMode
}

// GenerationResult is the outcome of one pipeline run: either Value holds a
// schema-valid document, or Failure describes why none could be produced.
type GenerationResult struct {
	RunID    string
	SchemaID string
	Value    map[string]any
	Failure  *Error
	Attempts int
}

func Succeeded(runID, schemaID string, value map[string]any, attempts int) GenerationResult {
	return GenerationResult{RunID: runID, SchemaID: schemaID, Value: value, Attempts: attempts}
}

func Failed(runID, schemaID string, failure *Error, attempts int) GenerationResult {
	return GenerationResult{RunID: runID, SchemaID: schemaID, Failure: failure, Attempts: attempts}
}

func (r GenerationResult) OK() bool {
	return r.Failure == nil
}

// Err returns the failure as an error, or nil on success.
func (r GenerationResult) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// Decode copies the validated document into dst.
func (r GenerationResult) Decode(dst any) error {
	if r.Failure != nil {
		return r.Failure
	}
	data, err := json.Marshal(r.Value)
	if err != nil {
		return fmt.Errorf("marshal generation value: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode generation value: %w", err)
	}
	return nil
}

// Attempt is one backend round trip, kept for operator diagnosis.
type Attempt struct {
	RunID     string
	SchemaID  string
	Number    int
	Mode      PromptMode
	Prompt    string
	RawText   string
	ErrorKind ErrorKind // empty when the attempt produced a valid document
	Error     string
	CreatedAt time.Time
}
