// Package factory builds llm.LLMProvider instances from configuration.
package factory

import (
	"fmt"

	"iso20022-assistant-be/pkg/llm"
	"iso20022-assistant-be/pkg/llm/huggingface"
	"iso20022-assistant-be/pkg/llm/ollama"
)

// Config carries the provider-specific settings the factory needs.
type Config struct {
	Provider string // "ollama" or "huggingface"
	Model    string
	BaseURL  string
	APIKey   string // huggingface only
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
