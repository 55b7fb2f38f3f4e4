package provider

import (
	"fmt"
	"sync"

	"github.com/Dhanyavarthini/Techie-S-Assistant/internal/search/types"
)

// ProviderSerpAPI is the only built-in provider; google and bing are
// engine variants of it rather than separate integrations.
const ProviderSerpAPI = "serpapi"

// Factory creates provider instances
type Factory struct {
	mu           sync.RWMutex
	constructors map[string]func(*types.ProviderConfig) (Provider, error)
}

// NewFactory creates a new provider factory
func NewFactory() *Factory {
	f := &Factory{
		constructors: make(map[string]func(*types.ProviderConfig) (Provider, error)),
	}

	f.Register(ProviderSerpAPI, NewSerpAPIProvider)

	return f
}

// Register registers a provider constructor
func (f *Factory) Register(name string, constructor func(*types.ProviderConfig) (Provider, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[name] = constructor
}

// Create creates a provider instance from configuration
func (f *Factory) Create(config *types.ProviderConfig) (Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	f.mu.RLock()
	constructor, exists := f.constructors[config.Name]
	f.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("provider not found: %s", config.Name)
	}

	return constructor(config)
}

// ListProviders returns a list of all registered provider names
func (f *Factory) ListProviders() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.constructors))
	for name := range f.constructors {
		names = append(names, name)
	}
	return names
}
