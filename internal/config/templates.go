package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/catwalk/pkg/catwalk"
)

// ProviderTemplate is a ready-made server.provider entry.
type ProviderTemplate struct {
	Description string
	Provider    ProviderConfig
}

var providerTemplates = map[string]ProviderTemplate{
	"lmstudio": {
		Description: "LM Studio local server (OpenAI compatible)",
		Provider: ProviderConfig{
			ID:      "lmstudio",
			Type:    catwalk.TypeOpenAICompat,
			BaseURL: "http://localhost:1234/v1",
			APIKey:  "lm-studio",
			Model:   "local-model",
		},
	},
	"ollama": {
		Description: "Ollama local server (OpenAI compatible)",
		Provider: ProviderConfig{
			ID:      "ollama",
			Type:    catwalk.TypeOpenAICompat,
			BaseURL: "http://localhost:11434/v1",
			APIKey:  "ollama",
			Model:   "llama3.2",
		},
	},
	"openai": {
		Description: "OpenAI API, key read from $OPENAI_API_KEY",
		Provider: ProviderConfig{
			ID:     "openai",
			Type:   catwalk.TypeOpenAI,
			APIKey: "$OPENAI_API_KEY",
			Model:  "gpt-4o-mini",
		},
	},
	"anthropic": {
		Description: "Anthropic API, key read from $ANTHROPIC_API_KEY",
		Provider: ProviderConfig{
			ID:     "anthropic",
			Type:   catwalk.TypeAnthropic,
			APIKey: "$ANTHROPIC_API_KEY",
			Model:  "claude-3-5-haiku-latest",
		},
	},
	"openrouter": {
		Description: "OpenRouter, key read from $OPENROUTER_API_KEY",
		Provider: ProviderConfig{
			ID:      "openrouter",
			Type:    catwalk.TypeOpenAICompat,
			BaseURL: "https://openrouter.ai/api/v1",
			APIKey:  "$OPENROUTER_API_KEY",
			Model:   "openai/gpt-4o-mini",
		},
	},
}

// TemplateNames returns the provider template names, sorted.
func TemplateNames() []string {
	return slices.Sorted(maps.Keys(providerTemplates))
}

// GetTemplate returns the named provider template.
func GetTemplate(name string) (ProviderTemplate, bool) {
	t, ok := providerTemplates[strings.ToLower(name)]
	return t, ok
}

// UseTemplate writes the named template as server.provider of the config
// file at path. A non-empty model replaces the template's model.
func UseTemplate(path, name, model string) (ProviderConfig, error) {
	t, ok := GetTemplate(name)
	if !ok {
		return ProviderConfig{}, fmt.Errorf("unknown provider template %q", name)
	}
	p := t.Provider
	if model != "" {
		p.Model = model
	}
	if err := SetFileField(path, "server.provider", p); err != nil {
		return ProviderConfig{}, err
	}
	return p, nil
}
