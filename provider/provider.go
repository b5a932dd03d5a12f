package provider

import (
	"errors"
	"fmt"

	"github.com/liliqgyurova/toolplanner/config"
	"github.com/liliqgyurova/toolplanner/provider/groq"
	"github.com/liliqgyurova/toolplanner/provider/openai"
)

// ErrNoCredentials signals that a provider is configured but has no API key.
// Callers treat this as "run without the provider", not as a failure.
var ErrNoCredentials = errors.New("provider credentials not configured")

// NewStepProvider builds the generative step provider from config.
func NewStepProvider(cfg config.LLMConfig) (*groq.Client, error) {
	switch cfg.Type {
	case "", "groq":
		if cfg.APIKey == "" {
			return nil, ErrNoCredentials
		}
		return groq.New(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported step provider type: %s", cfg.Type)
	}
}

// NewEmbeddingProvider builds the sentence-embedding provider from config.
func NewEmbeddingProvider(cfg config.EmbeddingConfig) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoCredentials
	}
	return openai.New(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
}
