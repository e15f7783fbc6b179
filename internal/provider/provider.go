// Package provider builds the language model the development backend talks to.
package provider

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/charmbracelet/catwalk/pkg/catwalk"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
	"charm.land/fantasy/providers/openai"

	"github.com/guilhermegouw/parley/internal/config"
)

// ErrNoProvider is returned when no provider is configured.
var ErrNoProvider = errors.New("no provider configured")

// ErrNoModel is returned when the provider names no model.
var ErrNoModel = errors.New("provider has no model")

// Model wraps a fantasy language model with the configuration it came from.
type Model struct {
	// Model is the fantasy language model interface.
	Model fantasy.LanguageModel
	// Config is the provider entry the model was built from.
	Config config.ProviderConfig
}

// Build creates the language model described by cfg.
func Build(ctx context.Context, cfg *config.ProviderConfig) (Model, error) {
	if cfg == nil {
		return Model{}, ErrNoProvider
	}
	if cfg.Model == "" {
		return Model{}, ErrNoModel
	}

	p, err := buildProvider(cfg)
	if err != nil {
		return Model{}, err
	}

	lm, err := p.LanguageModel(ctx, cfg.Model)
	if err != nil {
		return Model{}, fmt.Errorf("getting language model %q: %w", cfg.Model, err)
	}
	return Model{Model: lm, Config: *cfg}, nil
}

// buildProvider creates a fantasy provider from configuration.
func buildProvider(cfg *config.ProviderConfig) (fantasy.Provider, error) {
	headers := maps.Clone(cfg.ExtraHeaders)

	//nolint:exhaustive // Only openai-style and anthropic endpoints are supported.
	switch cfg.Type {
	case openai.Name, catwalk.TypeOpenAICompat:
		return buildOpenAIProvider(cfg.BaseURL, cfg.APIKey, headers)
	case anthropic.Name:
		return buildAnthropicProvider(cfg.BaseURL, cfg.APIKey, headers)
	default:
		return nil, fmt.Errorf("unsupported provider type: %q", cfg.Type)
	}
}

// buildOpenAIProvider creates an OpenAI fantasy provider. Local servers such
// as LM Studio use it with a base URL and no key.
func buildOpenAIProvider(baseURL, apiKey string, headers map[string]string) (fantasy.Provider, error) {
	var opts []openai.Option

	if apiKey != "" {
		opts = append(opts, openai.WithAPIKey(apiKey))
	}
	if len(headers) > 0 {
		opts = append(opts, openai.WithHeaders(headers))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	return openai.New(opts...)
}

// buildAnthropicProvider creates an Anthropic fantasy provider.
func buildAnthropicProvider(baseURL, apiKey string, headers map[string]string) (fantasy.Provider, error) {
	var opts []anthropic.Option

	if apiKey != "" {
		opts = append(opts, anthropic.WithAPIKey(apiKey))
	}
	if len(headers) > 0 {
		opts = append(opts, anthropic.WithHeaders(headers))
	}
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}

	return anthropic.New(opts...)
}
