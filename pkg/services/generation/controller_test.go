package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/services/backend"
	"github.com/de-tools/farm-insights/pkg/services/prompt"
	"github.com/de-tools/farm-insights/pkg/services/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validPrediction = `{"predictedYield": 42, "confidence": 0.8, "insights": "steady"}`

type mockInvoker struct {
	mock.Mock
}

func (m *mockInvoker) Invoke(ctx context.Context, prompt string, opts backend.Options) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

type memRecorder struct {
	attempts []domain.Attempt
	failures []domain.GenerationResult
	err      error
}

func (r *memRecorder) RecordAttempt(_ context.Context, attempt domain.Attempt) error {
	r.attempts = append(r.attempts, attempt)
	return r.err
}

func (r *memRecorder) RecordFailure(_ context.Context, result domain.GenerationResult, _ []domain.Attempt) error {
	r.failures = append(r.failures, result)
	return r.err
}

func initialSpec() domain.PromptSpec {
	return domain.PromptSpec{
		Text:     "predict the yield",
		SchemaID: schema.YieldPredictionID,
		Mode:     domain.PromptModeInitial,
	}
}

func isCorrective(p string) bool {
	return strings.Contains(p, "invalid or unparsable")
}

func TestRun_FirstAttemptSucceeds(t *testing.T) {
	// Given
	inv := new(mockInvoker)
	inv.On("Invoke", mock.Anything, "predict the yield", backend.DefaultOptions()).
		Return("Sure!\n```json\n"+validPrediction+"\n```", nil).Once()
	rec := &memRecorder{}
	c := NewController(inv, prompt.NewBuilder(), backend.DefaultOptions(), rec)

	// When
	result := c.Run(context.Background(), initialSpec(), schema.YieldPrediction)

	// Then
	require.True(t, result.OK(), "unexpected failure: %v", result.Err())
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 42.0, result.Value["predictedYield"])
	assert.NotEmpty(t, result.RunID)
	inv.AssertNumberOfCalls(t, "Invoke", 1)
	require.Len(t, rec.attempts, 1)
	assert.Empty(t, rec.attempts[0].ErrorKind)
	assert.Empty(t, rec.failures)
}

func TestRun_RetriesOnceThenSucceeds(t *testing.T) {
	// Given
	inv := new(mockInvoker)
	inv.On("Invoke", mock.Anything, mock.MatchedBy(func(p string) bool { return !isCorrective(p) }), mock.Anything).
		Return("I cannot answer that.", nil).Once()
	inv.On("Invoke", mock.Anything, mock.MatchedBy(isCorrective), mock.Anything).
		Return(validPrediction, nil).Once()
	rec := &memRecorder{}
	c := NewController(inv, nil, backend.DefaultOptions(), rec)

	// When
	result := c.Run(context.Background(), initialSpec(), schema.YieldPrediction)

	// Then
	require.True(t, result.OK())
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, "steady", result.Value["insights"])
	inv.AssertExpectations(t)
	require.Len(t, rec.attempts, 2)
	assert.Equal(t, domain.KindNoJSONFound, rec.attempts[0].ErrorKind)
	assert.Equal(t, domain.PromptModeCorrective, rec.attempts[1].Mode)
	assert.Equal(t, 2, rec.attempts[1].Number)
}

func TestRun_NeverMoreThanTwoCalls(t *testing.T) {
	// Given
	inv := new(mockInvoker)
	inv.On("Invoke", mock.Anything, mock.Anything, mock.Anything).Return("still not json", nil)
	rec := &memRecorder{}
	c := NewController(inv, nil, backend.DefaultOptions(), rec)

	// When
	result := c.Run(context.Background(), initialSpec(), schema.YieldPrediction)

	// Then
	require.False(t, result.OK())
	inv.AssertNumberOfCalls(t, "Invoke", MaxAttempts)
	assert.Equal(t, domain.KindInvalidOutputAfterRetry, result.Failure.Kind)
	assert.Equal(t, "still not json", result.Failure.Raw)
	assert.Equal(t, "still not json", result.Failure.RetryRaw)
	assert.Equal(t, 2, result.Attempts)
	assert.Len(t, rec.failures, 1)
}

func TestRun_SchemaViolationIsRetried(t *testing.T) {
	inv := new(mockInvoker)
	inv.On("Invoke", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"predictedYield": 42, "confidence": 1.7, "insights": "x"}`, nil).Once()
	inv.On("Invoke", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"predictedYield": "lots"}`, nil).Once()
	c := NewController(inv, nil, backend.DefaultOptions(), nil)

	result := c.Run(context.Background(), initialSpec(), schema.YieldPrediction)

	require.False(t, result.OK())
	assert.Equal(t, domain.KindInvalidOutputAfterRetry, result.Failure.Kind)
	assert.Contains(t, result.Failure.Raw, "1.7")
	assert.Equal(t, `{"predictedYield": "lots"}`, result.Failure.RetryRaw)
	assert.Equal(t, domain.KindValidation, domain.KindOf(result.Failure.Err))
	inv.AssertNumberOfCalls(t, "Invoke", 2)
}

func TestRun_TransportErrorAbortsWithoutRetry(t *testing.T) {
	kinds := []domain.ErrorKind{
		domain.KindUnauthorized,
		domain.KindForbidden,
		domain.KindNotFound,
		domain.KindGone,
		domain.KindRateLimited,
		domain.KindUnknown,
	}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			inv := new(mockInvoker)
			inv.On("Invoke", mock.Anything, mock.Anything, mock.Anything).
				Return("", domain.Errorf(kind, "backend said no")).Once()
			c := NewController(inv, nil, backend.DefaultOptions(), nil)

			result := c.Run(context.Background(), initialSpec(), schema.YieldPrediction)

			require.False(t, result.OK())
			assert.Equal(t, kind, result.Failure.Kind)
			assert.Equal(t, 1, result.Attempts)
			inv.AssertNumberOfCalls(t, "Invoke", 1)
		})
	}
}

func TestRun_TransportErrorOnRetryIsInvalidOutputAfterRetry(t *testing.T) {
	// Given
	inv := new(mockInvoker)
	inv.On("Invoke", mock.Anything, mock.Anything, mock.Anything).Return("nope", nil).Once()
	limited := &domain.Error{Kind: domain.KindRateLimited, Message: "slow down", Status: 429, Raw: `{"error":"rate limited"}`}
	inv.On("Invoke", mock.Anything, mock.Anything, mock.Anything).Return("", limited).Once()
	c := NewController(inv, nil, backend.DefaultOptions(), nil)

	// When
	result := c.Run(context.Background(), initialSpec(), schema.YieldPrediction)

	// Then
	require.False(t, result.OK())
	assert.Equal(t, domain.KindInvalidOutputAfterRetry, result.Failure.Kind)
	assert.Equal(t, "nope", result.Failure.Raw)
	assert.Equal(t, 2, result.Attempts)

	var cause *domain.Error
	require.ErrorAs(t, errors.Unwrap(result.Failure), &cause)
	assert.Equal(t, domain.KindRateLimited, cause.Kind)
	assert.Equal(t, `{"error":"rate limited"}`, cause.Raw)
	inv.AssertNumberOfCalls(t, "Invoke", 2)
}

func TestRun_UnclassifiedErrorIsUnknown(t *testing.T) {
	inv := new(mockInvoker)
	inv.On("Invoke", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("dial tcp: refused")).Once()
	c := NewController(inv, nil, backend.DefaultOptions(), nil)

	result := c.Run(context.Background(), initialSpec(), schema.YieldPrediction)

	assert.Equal(t, domain.KindUnknown, result.Failure.Kind)
	inv.AssertNumberOfCalls(t, "Invoke", 1)
}

func TestRun_ConfigurationErrors(t *testing.T) {
	inv := new(mockInvoker)

	result := NewController(inv, nil, backend.Options{MaxNewTokens: 0}, nil).
		Run(context.Background(), initialSpec(), schema.YieldPrediction)
	assert.Equal(t, domain.KindConfiguration, result.Failure.Kind)

	result = NewController(inv, nil, backend.DefaultOptions(), nil).
		Run(context.Background(), initialSpec(), nil)
	assert.Equal(t, domain.KindConfiguration, result.Failure.Kind)

	result = NewController(nil, nil, backend.DefaultOptions(), nil).
		Run(context.Background(), initialSpec(), schema.YieldPrediction)
	assert.Equal(t, domain.KindConfiguration, result.Failure.Kind)

	inv.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_RecorderErrorsDoNotFailRun(t *testing.T) {
	inv := new(mockInvoker)
	inv.On("Invoke", mock.Anything, mock.Anything, mock.Anything).Return(validPrediction, nil).Once()
	rec := &memRecorder{err: errors.New("disk full")}

	result := NewController(inv, nil, backend.DefaultOptions(), rec).
		Run(context.Background(), initialSpec(), schema.YieldPrediction)

	assert.True(t, result.OK())
	assert.Len(t, rec.attempts, 1)
}
