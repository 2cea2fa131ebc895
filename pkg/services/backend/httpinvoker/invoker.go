// Package httpinvoker calls a plain HTTP text-generation endpoint: either a
// self-hosted model server or a Hugging Face style inference API.
package httpinvoker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/services/backend"
	"github.com/rs/zerolog"
)

const (
	FormatLocal       = "local"
	FormatHuggingFace = "huggingface"

	DefaultLocalURL       = "http://localhost:8000/generate"
	DefaultHuggingFaceURL = "https://router.huggingface.co/models"

	defaultTimeout  = 60 * time.Second
	maxResponseSize = 8 << 20
)

type Invoker struct {
	client  *http.Client
	url     string
	format  string
	apiKey  string
	extras  map[string]any
	headers map[string]string
}

// Factory is the backend.Factory for the "http" provider.
func Factory(cfg backend.Config) (backend.Invoker, error) {
	return New(cfg, nil)
}

// New validates cfg and builds an invoker. A nil client gets a default one
// with cfg.Timeout.
func New(cfg backend.Config, client *http.Client) (*Invoker, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	format := cfg.Format
	if format == "" {
		format = FormatLocal
	}

	var endpoint string
	switch format {
	case FormatLocal:
		endpoint = cfg.URL
		if endpoint == "" {
			endpoint = DefaultLocalURL
		}
	case FormatHuggingFace:
		if cfg.Model == "" {
			return nil, domain.Errorf(domain.KindConfiguration, "huggingface format requires a model name")
		}
		base := cfg.URL
		if base == "" {
			base = DefaultHuggingFaceURL
		}
		endpoint = strings.TrimRight(base, "/") + "/" + url.PathEscape(cfg.Model)
	default:
		return nil, domain.Errorf(domain.KindConfiguration, "unsupported http backend format %q", format)
	}

	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Invoker{
		client:  client,
		url:     endpoint,
		format:  format,
		apiKey:  cfg.APIKey,
		extras:  cfg.Extras,
		headers: cfg.Headers,
	}, nil
}

func (i *Invoker) Invoke(ctx context.Context, prompt string, opts backend.Options) (string, error) {
	logger := zerolog.Ctx(ctx)

	if i.apiKey == "" {
		return "", domain.Errorf(domain.KindConfiguration, "backend API key not configured; set BACKEND_API_KEY")
	}

	payload, err := json.Marshal(i.body(prompt, opts))
	if err != nil {
		return "", fmt.Errorf("marshal backend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+i.apiKey)
	for k, v := range i.headers {
		req.Header.Set(k, v)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return "", domain.NewError(domain.KindUnknown, "backend request failed", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close backend response body")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", domain.NewError(domain.KindUnknown, "failed to read backend response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("backend returned an error")

		kind := backend.ClassifyStatus(resp.StatusCode)
		if kind == domain.KindUnknown && backend.IsWarmup(string(body)) {
			return backend.WarmupMessage, nil
		}
		return "", backend.StatusError(resp.StatusCode, resp.Header, string(body))
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return backend.ReduceJSON(body), nil
	}
	return string(body), nil
}

func (i *Invoker) body(prompt string, opts backend.Options) map[string]any {
	if i.format == FormatHuggingFace {
		params := map[string]any{
			"max_new_tokens": opts.MaxNewTokens,
			"temperature":    opts.Temperature,
		}
		for k, v := range i.extras {
			params[k] = v
		}
		return map[string]any{
			"inputs":     prompt,
			"parameters": params,
			"options":    map[string]any{"wait_for_model": true},
		}
	}

	body := map[string]any{
		"prompt":         prompt,
		"max_new_tokens": opts.MaxNewTokens,
		"temperature":    opts.Temperature,
	}
	for k, v := range i.extras {
		if _, reserved := body[k]; !reserved {
			body[k] = v
		}
	}
	return body
}
