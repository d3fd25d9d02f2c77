package llm

import (
	"fmt"
	"log/slog"
	"sync"

	"draftdeck/internal/config"
	domainllm "draftdeck/internal/domain/services/llm"
)

// ProviderRegistry manages provider instances by name. Instances are
// created lazily via the factory and cached; creating a Gemini client opens
// a gRPC connection, so one instance per process is enough.
type ProviderRegistry struct {
	factory *ProviderFactory
	cache   map[string]domainllm.Provider
	mu      sync.RWMutex
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry(factory *ProviderFactory) *ProviderRegistry {
	return &ProviderRegistry{
		factory: factory,
		cache:   make(map[string]domainllm.Provider),
	}
}

// GetProvider returns the provider for the given name, creating and
// caching it on first use.
func (r *ProviderRegistry) GetProvider(name string) (domainllm.Provider, error) {
	if name == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}

	// Fast path: cache hit under read lock
	r.mu.RLock()
	if cached, exists := r.cache[name]; exists {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have created the provider while we waited
	if cached, exists := r.cache[name]; exists {
		return cached, nil
	}

	provider, err := r.factory.GetProvider(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider '%s': %w", name, err)
	}

	r.cache[name] = provider
	return provider, nil
}

// SetupProvider initializes the registry and resolves the configured
// default provider, failing fast at startup on misconfiguration.
func SetupProvider(cfg *config.Config, logger *slog.Logger) (domainllm.Provider, error) {
	registry := NewProviderRegistry(NewProviderFactory(cfg))

	provider, err := registry.GetProvider(cfg.TextProvider)
	if err != nil {
		return nil, err
	}

	logger.Info("text provider initialized", "provider", provider.Name())
	return provider, nil
}
