// Package backend defines the text-generation backend contract shared by
// every provider, plus the failure classification and response reduction
// they have in common.
package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/farm-insights/pkg/models/domain"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultMaxNewTokens = 1024
	DefaultTemperature  = 0.0
)

// Invoker sends one prompt to a generation backend and returns its text.
// Implementations perform exactly one network call per Invoke and never
// retry on their own.
type Invoker interface {
	Invoke(ctx context.Context, prompt string, opts Options) (string, error)
}

type Options struct {
	MaxNewTokens int     `mapstructure:"max_new_tokens" validate:"gte=1,lte=8192"`
	Temperature  float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

func DefaultOptions() Options {
	return Options{
		MaxNewTokens: DefaultMaxNewTokens,
		Temperature:  DefaultTemperature,
	}
}

var validate = validator.New()

// Validate rejects options no provider accepts.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return domain.NewError(domain.KindConfiguration, "invalid generation options", err)
	}
	return nil
}

// Config selects and configures a provider.
type Config struct {
	Provider string            `mapstructure:"provider"` // http, anthropic, gemini
	URL      string            `mapstructure:"url"`
	Model    string            `mapstructure:"model"`
	APIKey   string            `mapstructure:"api_key"`
	Format   string            `mapstructure:"format"` // http provider only: local, huggingface
	Timeout  time.Duration     `mapstructure:"timeout"`
	Extras   map[string]any    `mapstructure:"extras"`
	Headers  map[string]string `mapstructure:"headers"`
}

// RequireAPIKey fails before any network call when the credential is absent.
func (c Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return domain.Errorf(domain.KindConfiguration,
			"%s backend API key not configured; set BACKEND_API_KEY", providerName(c.Provider))
	}
	return nil
}

func providerName(p string) string {
	if p == "" {
		return "generation"
	}
	return fmt.Sprintf("%q", p)
}

type unavailable struct {
	err error
}

// Unavailable returns an Invoker that fails every call with err. It stands in
// for a provider whose configuration was rejected at startup.
func Unavailable(err error) Invoker {
	return unavailable{err: err}
}

func (u unavailable) Invoke(context.Context, string, Options) (string, error) {
	return "", u.err
}
