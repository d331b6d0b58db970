package provider

import (
	"fmt"

	"github.com/rios0rios0/autocontrib/domain"
)

// Registry manages all registered Git provider implementations.
type Registry struct {
	providers map[string]Factory
}

// Factory is a constructor function that creates a Provider given an auth token.
type Factory func(token string) domain.Provider

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Factory),
	}
}

// Register adds a provider factory under the given name (e.g. "github").
func (r *Registry) Register(name string, factory Factory) {
	r.providers[name] = factory
}

// Get returns a configured provider instance for the given name and token.
func (r *Registry) Get(name, token string) (domain.Provider, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider type: %q", name)
	}
	return factory(token), nil
}

// ForURL returns a provider instance whose platform matches the given
// remote URL. Used by the local workflow to auto-detect the hosting
// service from the upstream remote.
func (r *Registry) ForURL(url, token string) (domain.Provider, error) {
	for _, factory := range r.providers {
		p := factory(token)
		if p.MatchesURL(url) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no registered provider matches remote URL %q", url)
}

// Names returns the list of registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
