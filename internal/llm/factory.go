package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/trainerdesk/internal/config"
)

// Provider names an LLM backend in the [llm] config section.
type Provider string

const (
	ProviderCopilot  Provider = "copilot"
	ProviderOllama   Provider = "ollama"
	ProviderLMStudio Provider = "lmstudio"
)

// ErrUnknownProvider is returned for a provider name no backend answers to.
var ErrUnknownProvider = errors.New("unsupported LLM provider")

// ErrModelRequired is returned when a provider has no default model and the
// config names none.
var ErrModelRequired = errors.New("LLM model is required")

// providerDefaults are applied to empty [llm] fields.
var providerDefaults = map[Provider]config.LLMConfig{
	ProviderCopilot:  {Model: "gpt-4o", BaseURL: copilotBaseURL},
	ProviderOllama:   {Model: "llama3.1", BaseURL: "http://localhost:11434"},
	ProviderLMStudio: {BaseURL: "http://localhost:1234/v1"},
}

// ParseProvider maps a configured provider name, including common
// misspellings of LM Studio, to a Provider. Empty means copilot.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case "", ProviderCopilot:
		return ProviderCopilot, nil
	case ProviderOllama:
		return ProviderOllama, nil
	case ProviderLMStudio, "lm-studio", "llmstudio":
		return ProviderLMStudio, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// Resolve normalizes the provider and fills the model and base URL from the
// provider's defaults. A base URL that is another provider's default is
// replaced too, so switching provider does not keep pointing at the old
// local server.
func Resolve(cfg config.LLMConfig) (config.LLMConfig, error) {
	p, err := ParseProvider(cfg.Provider)
	if err != nil {
		return config.LLMConfig{}, err
	}
	defaults := providerDefaults[p]

	out := config.LLMConfig{
		Provider: string(p),
		Model:    strings.TrimSpace(cfg.Model),
		BaseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
	}
	if out.Model == "" {
		out.Model = defaults.Model
	}
	if out.Model == "" {
		return config.LLMConfig{}, fmt.Errorf("%w for %s", ErrModelRequired, p)
	}
	if out.BaseURL == "" || isOtherDefault(p, out.BaseURL) {
		out.BaseURL = defaults.BaseURL
	}
	return out, nil
}

func isOtherDefault(p Provider, baseURL string) bool {
	for other, d := range providerDefaults {
		if other != p && d.BaseURL == baseURL {
			return true
		}
	}
	return false
}

// NewClient builds the client for the [llm] config section.
func NewClient(cfg config.LLMConfig) (Client, error) {
	resolved, err := Resolve(cfg)
	if err != nil {
		return nil, err
	}
	switch Provider(resolved.Provider) {
	case ProviderOllama:
		return newOllamaClient(resolved)
	case ProviderLMStudio:
		return newLMStudioClient(resolved), nil
	default:
		return newCopilotClient(resolved)
	}
}
