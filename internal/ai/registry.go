package ai

import (
	"context"

	"go.uber.org/zap"

	"github.com/ljniox/ai-concierge-sub002/pkg/config"
	appErrors "github.com/ljniox/ai-concierge-sub002/pkg/errors"
)

// Registry holds the configured providers and resolves completion calls,
// falling back to the default provider when the requested one is not
// registered.
type Registry struct {
	providers   map[string]Provider
	defaultName string
	logger      *zap.Logger
}

// NewRegistry builds an empty registry with the given default provider name.
func NewRegistry(defaultName string, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		providers:   make(map[string]Provider),
		defaultName: defaultName,
		logger:      logger,
	}
}

// Register adds a provider under its name.
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Names lists the registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Complete resolves the provider by name and runs the completion. An
// unknown or empty name falls back to the configured default.
func (r *Registry) Complete(ctx context.Context, name string, req Request) (*Response, error) {
	provider, ok := r.providers[name]
	if !ok {
		if name != "" && name != r.defaultName {
			r.logger.Warn("requested ai provider not configured, using default",
				zap.String("requested", name), zap.String("default", r.defaultName))
		}
		provider, ok = r.providers[r.defaultName]
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrProviderUnavailable, "no ai provider configured")
	}
	return provider.Complete(ctx, req)
}

// NewRegistryFromConfig registers every provider that has at least one key.
func NewRegistryFromConfig(cfg config.AIConfig, logger *zap.Logger) *Registry {
	registry := NewRegistry(cfg.DefaultProvider, logger)

	if len(cfg.AnthropicKeys) > 0 {
		registry.Register(NewAnthropicProvider(NewAPIKeyManager(cfg.AnthropicKeys), cfg.AnthropicModel, "", cfg.RequestTimeout, logger))
	}
	if len(cfg.GeminiKeys) > 0 {
		registry.Register(NewGeminiProvider(NewAPIKeyManager(cfg.GeminiKeys), cfg.GeminiModel, "", cfg.RequestTimeout, logger))
	}
	if len(cfg.OpenRouterKeys) > 0 {
		registry.Register(NewOpenRouterProvider(NewAPIKeyManager(cfg.OpenRouterKeys), cfg.OpenRouterModel, "", cfg.RequestTimeout, logger))
	}

	return registry
}
