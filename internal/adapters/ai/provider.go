package ai

import (
	"context"
	"strings"

	"sor/pkg/errors"
)

// ProviderName identifies a supported AI provider.
type ProviderName string

const (
	ProviderNameClaude ProviderName = "claude"
	ProviderNameOpenAI ProviderName = "openai"
)

// ChatProvider defines the contract each AI provider implementation must satisfy.
type ChatProvider interface {
	Name() ProviderName

	// Chat sends a chat completion request.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Registry holds configured providers and routes requests by model name.
type Registry struct {
	providers       map[ProviderName]ChatProvider
	defaultProvider ProviderName
}

// NewRegistry creates a provider registry with the given default provider.
func NewRegistry(defaultProvider ProviderName) *Registry {
	return &Registry{
		providers:       make(map[ProviderName]ChatProvider),
		defaultProvider: defaultProvider,
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p ChatProvider) {
	r.providers[p.Name()] = p
}

// Get returns a provider by name.
func (r *Registry) Get(name ProviderName) (ChatProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "provider %s not registered", name)
	}
	return p, nil
}

// ForModel routes a model name to the provider that serves it. Unknown model
// prefixes fall through to the default provider.
func (r *Registry) ForModel(model string) (ChatProvider, error) {
	switch {
	case strings.HasPrefix(model, "gpt-"):
		return r.Get(ProviderNameOpenAI)
	case strings.HasPrefix(model, "claude-"):
		return r.Get(ProviderNameClaude)
	default:
		return r.Get(r.defaultProvider)
	}
}
