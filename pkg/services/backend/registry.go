package backend

import (
	"sort"
	"strings"

	"github.com/de-tools/farm-insights/pkg/models/domain"
)

// Factory builds an Invoker from provider configuration.
type Factory func(cfg Config) (Invoker, error)

// Registry manages provider factories. It is built once at process start and
// passed to whatever needs an Invoker.
type Registry interface {
	// Create instantiates the invoker named by cfg.Provider
	Create(cfg Config) (Invoker, error)
	// ListProviders returns registered provider names in sorted order
	ListProviders() []string
}

type registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry seeded with factories. The set is fixed
// once built.
func NewRegistry(factories map[string]Factory) Registry {
	r := &registry{
		factories: make(map[string]Factory, len(factories)),
	}
	for name, f := range factories {
		if name != "" && f != nil {
			r.factories[name] = f
		}
	}
	return r
}

func (r *registry) Create(cfg Config) (Invoker, error) {
	factory, exists := r.factories[cfg.Provider]
	if !exists {
		return nil, domain.Errorf(domain.KindConfiguration,
			"backend provider %q is not registered; available: %s",
			cfg.Provider, strings.Join(r.ListProviders(), ", "))
	}

	return factory(cfg)
}

func (r *registry) ListProviders() []string {
	providers := make([]string, 0, len(r.factories))
	for provider := range r.factories {
		providers = append(providers, provider)
	}
	sort.Strings(providers)
	return providers
}
