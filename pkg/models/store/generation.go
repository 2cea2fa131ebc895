package store

import "time"

type GenerationAttempt struct {
	RunID        string
	SchemaID     string
	Attempt      int
	Mode         string
	Prompt       string
	RawText      string
	ErrorKind    string
	ErrorMessage string
	CreatedAt    time.Time
}
