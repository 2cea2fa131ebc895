package adapters

import (
	"github.com/de-tools/farm-insights/pkg/models/api"
	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/models/store"
)

func MapAttemptDomainToStore(attempt domain.Attempt) store.GenerationAttempt {
	return store.GenerationAttempt{
		RunID:        attempt.RunID,
		SchemaID:     attempt.SchemaID,
		Attempt:      attempt.Number,
		Mode:         string(attempt.Mode),
		Prompt:       attempt.Prompt,
		RawText:      attempt.RawText,
		ErrorKind:    string(attempt.ErrorKind),
		ErrorMessage: attempt.Error,
		CreatedAt:    attempt.CreatedAt,
	}
}

func MapAttemptStoreToDomain(attempt store.GenerationAttempt) domain.Attempt {
	return domain.Attempt{
		RunID:     attempt.RunID,
		SchemaID:  attempt.SchemaID,
		Number:    attempt.Attempt,
		Mode:      domain.PromptMode(attempt.Mode),
		Prompt:    attempt.Prompt,
		RawText:   attempt.RawText,
		ErrorKind: domain.ErrorKind(attempt.ErrorKind),
		Error:     attempt.ErrorMessage,
		CreatedAt: attempt.CreatedAt,
	}
}

func MapAttemptDomainToApi(attempt domain.Attempt) api.Attempt {
	return api.Attempt{
		RunID:     attempt.RunID,
		SchemaID:  attempt.SchemaID,
		Number:    attempt.Number,
		Mode:      string(attempt.Mode),
		Prompt:    attempt.Prompt,
		RawText:   attempt.RawText,
		ErrorKind: string(attempt.ErrorKind),
		Error:     attempt.Error,
		CreatedAt: attempt.CreatedAt,
	}
}

func MapGenerationFailureDomainToApi(result domain.GenerationResult, attempts []domain.Attempt) api.GenerationFailure {
	out := api.GenerationFailure{
		RunID:    result.RunID,
		SchemaID: result.SchemaID,
		Attempts: make([]api.Attempt, 0, len(attempts)),
	}
	if result.Failure != nil {
		out.Kind = string(result.Failure.Kind)
		out.Message = result.Failure.Error()
		out.Raw = result.Failure.Raw
		out.RetryRaw = result.Failure.RetryRaw
	}
	for _, a := range attempts {
		out.Attempts = append(out.Attempts, MapAttemptDomainToApi(a))
	}
	return out
}
