// Package claude invokes Anthropic's Messages API as a generation backend.
package claude

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/de-tools/farm-insights/pkg/services/backend"
	"github.com/rs/zerolog"
)

const DefaultModel = "claude-sonnet-4-5"

type Invoker struct {
	client anthropic.Client
	model  string
}

func Factory(cfg backend.Config) (backend.Invoker, error) {
	return New(cfg)
}

func New(cfg backend.Config) (*Invoker, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	// retries belong to the generation controller, not the SDK
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.URL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.URL, "/")+"/"))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	for k, v := range cfg.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Invoker{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

func (i *Invoker) Invoke(ctx context.Context, prompt string, opts backend.Options) (string, error) {
	message, err := i.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(i.model),
		MaxTokens:   int64(opts.MaxNewTokens),
		Temperature: anthropic.Float(opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("model", i.model).Msg("anthropic request failed")
		return "", classify(err)
	}

	var parts []string
	for _, block := range message.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return message.RawJSON(), nil
	}
	return strings.Join(parts, "\n"), nil
}

func classify(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return domain.NewError(domain.KindUnknown, "anthropic request failed", err)
	}

	header := http.Header{}
	if apiErr.Response != nil {
		header = apiErr.Response.Header
	}
	e := backend.StatusError(apiErr.StatusCode, header, apiErr.RawJSON())
	e.Err = err
	return e
}
