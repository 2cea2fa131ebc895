package api

import "time"

type Attempt struct {
	RunID     string    `json:"runId"`
	SchemaID  string    `json:"schemaId"`
	Number    int       `json:"attempt"`
	Mode      string    `json:"mode"`
	Prompt    string    `json:"prompt"`
	RawText   string    `json:"rawText"`
	ErrorKind string    `json:"errorKind,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// GenerationFailure is the archived record of a run that produced no usable
// document.
type GenerationFailure struct {
	RunID    string    `json:"runId"`
	SchemaID string    `json:"schemaId"`
	Kind     string    `json:"kind"`
	Message  string    `json:"message"`
	Raw      string    `json:"raw,omitempty"`
	RetryRaw string    `json:"retryRaw,omitempty"`
	Attempts []Attempt `json:"attempts"`
}
