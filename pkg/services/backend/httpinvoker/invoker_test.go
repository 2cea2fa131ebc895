package httpinvoker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/services/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	path   string
	auth   string
	header http.Header
	body   map[string]any
}

func newServer(t *testing.T, status int, contentType, body string, got *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			got.path = r.URL.EscapedPath()
			got.auth = r.Header.Get("Authorization")
			got.header = r.Header.Clone()
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &got.body)
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if status == http.StatusTooManyRequests {
			w.Header().Set("Retry-After", "3")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInvoke_LocalFormat(t *testing.T) {
	// Given
	var got captured
	srv := newServer(t, http.StatusOK, "application/json", `{"text": "{\"ok\":true}"}`, &got)
	inv, err := New(backend.Config{
		URL:     srv.URL + "/generate",
		APIKey:  "secret",
		Extras:  map[string]any{"top_p": 0.9, "prompt": "ignored"},
		Headers: map[string]string{"X-Team": "agro"},
	}, nil)
	require.NoError(t, err)

	// When
	text, err := inv.Invoke(context.Background(), "hello", backend.Options{MaxNewTokens: 128, Temperature: 0.5})

	// Then
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	assert.Equal(t, "/generate", got.path)
	assert.Equal(t, "Bearer secret", got.auth)
	assert.Equal(t, "agro", got.header.Get("X-Team"))
	assert.Equal(t, "hello", got.body["prompt"])
	assert.Equal(t, 128.0, got.body["max_new_tokens"])
	assert.Equal(t, 0.5, got.body["temperature"])
	assert.Equal(t, 0.9, got.body["top_p"])
}

func TestInvoke_HuggingFaceFormat(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusOK, "application/json; charset=utf-8", `[{"generated_text": "answer"}]`, &got)
	inv, err := New(backend.Config{
		URL:    srv.URL + "/models/",
		Model:  "google/flan-t5-large",
		APIKey: "hf_key",
		Format: FormatHuggingFace,
		Extras: map[string]any{"top_k": 50},
	}, nil)
	require.NoError(t, err)

	text, err := inv.Invoke(context.Background(), "p", backend.DefaultOptions())

	require.NoError(t, err)
	assert.Equal(t, "answer", text)
	assert.Equal(t, "/models/google%2Fflan-t5-large", got.path)
	assert.Equal(t, "p", got.body["inputs"])
	params, ok := got.body["parameters"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(backend.DefaultMaxNewTokens), params["max_new_tokens"])
	assert.Equal(t, 50.0, params["top_k"])
	assert.Equal(t, map[string]any{"wait_for_model": true}, got.body["options"])
}

func TestInvoke_PlainTextBodyReturnedUnchanged(t *testing.T) {
	srv := newServer(t, http.StatusOK, "text/plain", "  {\"a\": 1} trailing  ", nil)
	inv, err := New(backend.Config{URL: srv.URL, APIKey: "k"}, nil)
	require.NoError(t, err)

	text, err := inv.Invoke(context.Background(), "p", backend.DefaultOptions())

	require.NoError(t, err)
	assert.Equal(t, "  {\"a\": 1} trailing  ", text)
}

func TestInvoke_StatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   domain.ErrorKind
	}{
		{http.StatusUnauthorized, domain.KindUnauthorized},
		{http.StatusForbidden, domain.KindForbidden},
		{http.StatusNotFound, domain.KindNotFound},
		{http.StatusGone, domain.KindGone},
		{http.StatusTooManyRequests, domain.KindRateLimited},
		{http.StatusInternalServerError, domain.KindUnknown},
	}

	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := newServer(t, tc.status, "application/json", `{"error":"nope"}`, nil)
			inv, err := New(backend.Config{URL: srv.URL, APIKey: "k"}, nil)
			require.NoError(t, err)

			_, err = inv.Invoke(context.Background(), "p", backend.DefaultOptions())

			var derr *domain.Error
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tc.want, derr.Kind)
			assert.Equal(t, tc.status, derr.Status)
			assert.Equal(t, `{"error":"nope"}`, derr.Raw)
			if tc.want == domain.KindRateLimited {
				assert.Equal(t, 3*time.Second, derr.RetryAfter)
			}
		})
	}
}

func TestInvoke_WarmupIsInformationalText(t *testing.T) {
	srv := newServer(t, http.StatusServiceUnavailable, "application/json",
		`{"error":"Model google/flan-t5-large is currently loading","estimated_time":20.0}`, nil)
	inv, err := New(backend.Config{URL: srv.URL, APIKey: "k"}, nil)
	require.NoError(t, err)

	text, err := inv.Invoke(context.Background(), "p", backend.DefaultOptions())

	require.NoError(t, err)
	assert.Equal(t, backend.WarmupMessage, text)
}

func TestNew_MissingAPIKeyFailsBeforeNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	_, err := New(backend.Config{URL: srv.URL}, nil)
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))

	var zero Invoker
	_, err = zero.Invoke(context.Background(), "p", backend.DefaultOptions())
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
	assert.Zero(t, calls)
}

func TestNew_RejectsBadFormat(t *testing.T) {
	_, err := New(backend.Config{APIKey: "k", Format: "grpc"}, nil)
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))

	_, err = New(backend.Config{APIKey: "k", Format: FormatHuggingFace}, nil)
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
}

func TestInvoke_TransportFailureIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	inv, err := New(backend.Config{URL: url, APIKey: "k"}, nil)
	require.NoError(t, err)

	_, err = inv.Invoke(context.Background(), "p", backend.DefaultOptions())

	assert.Equal(t, domain.KindUnknown, domain.KindOf(err))
}
