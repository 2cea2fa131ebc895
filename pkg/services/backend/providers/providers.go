// Package providers wires every built-in generation backend into a registry.
package providers

import (
	"github.com/de-tools/farm-insights/pkg/services/backend"
	"github.com/de-tools/farm-insights/pkg/services/backend/claude"
	"github.com/de-tools/farm-insights/pkg/services/backend/gemini"
	"github.com/de-tools/farm-insights/pkg/services/backend/httpinvoker"
)

const (
	HTTP      = "http"
	Anthropic = "anthropic"
	Gemini    = "gemini"
)

func Registry() backend.Registry {
	return backend.NewRegistry(map[string]backend.Factory{
		HTTP:      httpinvoker.Factory,
		Anthropic: claude.Factory,
		Gemini:    gemini.Factory,
	})
}
