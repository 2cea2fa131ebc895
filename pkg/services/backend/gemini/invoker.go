// Package gemini invokes Google's Gemini API as a generation backend.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/services/backend"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

type Invoker struct {
	client *genai.Client
	model  string
}

func Factory(cfg backend.Config) (backend.Invoker, error) {
	return New(context.Background(), cfg)
}

func New(ctx context.Context, cfg backend.Config) (*Invoker, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	httpOpts := genai.HTTPOptions{}
	if cfg.URL != "" {
		httpOpts.BaseURL = strings.TrimRight(cfg.URL, "/") + "/"
	}
	if len(cfg.Headers) > 0 {
		httpOpts.Headers = http.Header{}
		for k, v := range cfg.Headers {
			httpOpts.Headers.Set(k, v)
		}
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		httpOpts.Timeout = &timeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOpts,
	})
	if err != nil {
		return nil, domain.NewError(domain.KindConfiguration, "failed to create gemini client", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Invoker{client: client, model: model}, nil
}

func (i *Invoker) Invoke(ctx context.Context, prompt string, opts backend.Options) (string, error) {
	resp, err := i.client.Models.GenerateContent(ctx, i.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(opts.Temperature)),
		MaxOutputTokens: int32(opts.MaxNewTokens),
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("model", i.model).Msg("gemini request failed")
		return "", classify(err)
	}
	return resp.Text(), nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return domain.NewError(domain.KindUnknown, "gemini request failed", err)
	}

	e := backend.StatusError(apiErr.Code, http.Header{}, fmt.Sprintf("%s: %s", apiErr.Status, apiErr.Message))
	e.Err = err
	return e
}
