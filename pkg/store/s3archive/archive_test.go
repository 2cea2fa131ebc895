package s3archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/farm-insights/pkg/models/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
	body []byte
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if params.Body != nil {
		m.body, _ = io.ReadAll(params.Body)
	}
	args := m.Called(aws.ToString(params.Bucket), aws.ToString(params.Key))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func fixedArchive(client PutObjectAPI) *Archive {
	a := NewWithClient(client, "diagnostics", "generation-failures")
	a.now = func() time.Time { return time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC) }
	return a
}

func TestPutFailure(t *testing.T) {
	// Given
	client := new(mockS3)
	client.On("PutObject", "diagnostics", "generation-failures/2025/06/03/cost_analysis/run-1.json").
		Return(&s3.PutObjectOutput{}, nil).Once()
	failure := api.GenerationFailure{
		RunID:    "run-1",
		SchemaID: "cost_analysis",
		Kind:     "invalid_output_after_retry",
		Raw:      "first",
		RetryRaw: "second",
		Attempts: []api.Attempt{{RunID: "run-1", Number: 1}, {RunID: "run-1", Number: 2}},
	}

	// When
	key, err := fixedArchive(client).PutFailure(context.Background(), failure)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "generation-failures/2025/06/03/cost_analysis/run-1.json", key)
	var stored api.GenerationFailure
	require.NoError(t, json.Unmarshal(client.body, &stored))
	assert.Equal(t, failure.RetryRaw, stored.RetryRaw)
	assert.Len(t, stored.Attempts, 2)
	client.AssertExpectations(t)
}

func TestPutFailure_ClientError(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied")).Once()

	_, err := fixedArchive(client).PutFailure(context.Background(), api.GenerationFailure{RunID: "r", SchemaID: "s"})

	assert.ErrorContains(t, err, "access denied")
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})

	assert.Error(t, err)
}
