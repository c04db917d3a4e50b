package assistant

import (
	"net/http"
	"slices"
	"sort"
	"sync"

	"github.com/germanamz/pdfask/pkg/config"
	"github.com/germanamz/pdfask/pkg/modeladapter"
	"github.com/germanamz/pdfask/pkg/providers/deepseek"
	"github.com/germanamz/pdfask/pkg/providers/openai"
)

// ProviderFactory creates a Completer from a ProviderConfig. BaseURL, when
// set, replaces the provider's whole endpoint URL.
type ProviderFactory func(cfg config.ProviderConfig, client *http.Client) modeladapter.Completer

// builtinModels is the model catalogue offered per provider.
var builtinModels = map[string][]string{
	config.ProviderOpenAI:   {"gpt-4", "gpt-4-turbo", "gpt-3.5-turbo", "gpt-3.5-turbo-16k"},
	config.ProviderDeepSeek: {"deepseek-chat", "deepseek-coder"},
}

// AvailableModels returns the built-in model catalogue for provider, or nil
// for an unknown provider.
func AvailableModels(provider string) []string {
	return slices.Clone(builtinModels[provider])
}

// Registry maps provider names to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
	models    map[string][]string
}

// NewRegistry returns a Registry with the openai and deepseek providers.
func NewRegistry() *Registry {
	r := &Registry{
		factories: map[string]ProviderFactory{},
		models:    map[string][]string{},
	}
	r.Register(config.ProviderOpenAI, newOpenAI, AvailableModels(config.ProviderOpenAI)...)
	r.Register(config.ProviderDeepSeek, newDeepSeek, AvailableModels(config.ProviderDeepSeek)...)

	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, factory ProviderFactory, models ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[name] = factory
	r.models[name] = models
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// Models returns the model catalogue registered for name.
func (r *Registry) Models(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.models[name])
}

// Build validates cfg and creates its Completer. It returns a *ConfigError
// when the key is blank or the provider is unknown.
func (r *Registry) Build(cfg config.ProviderConfig, client *http.Client) (modeladapter.Completer, error) {
	if !cfg.HasAPIKey() {
		return nil, &ConfigError{Reason: MissingAPIKey, Provider: cfg.Name}
	}

	r.mu.RLock()
	factory, ok := r.factories[cfg.Name]
	r.mu.RUnlock()

	if !ok {
		return nil, &ConfigError{Reason: UnsupportedProvider, Provider: cfg.Name}
	}

	return factory(cfg, client), nil
}

func newOpenAI(cfg config.ProviderConfig, client *http.Client) modeladapter.Completer {
	return openai.New(cfg.BaseURL, cfg.APIKey, cfg.Model, client)
}

func newDeepSeek(cfg config.ProviderConfig, client *http.Client) modeladapter.Completer {
	return deepseek.New(cfg.BaseURL, cfg.APIKey, cfg.Model, client)
}
