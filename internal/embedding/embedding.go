// Package embedding resolves embedder backends from configuration.
package embedding

import (
	"errors"
	"fmt"
	"time"

	"vindex/internal/config"
	"vindex/internal/domain"
	"vindex/internal/embedding/openai"
	"vindex/internal/embedding/simple"
	"vindex/internal/vocab"
)

// New builds the configured embedder. The backend kind is a closed set;
// an unknown kind is an error, not a fallback.
func New(cfg config.EmbedderConfig, store *vocab.Store) (domain.Embedder, error) {
	switch cfg.Type {
	case "simple", "":
		return simple.New(store), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, errors.New("openai embedder config missing")
		}
		return openai.NewClient(openai.Config{
			BaseURL:   cfg.OpenAI.BaseURL,
			APIKeyEnv: cfg.OpenAI.APIKeyEnv,
			Model:     cfg.OpenAI.Model,
			Timeout:   time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown embedder type %q", cfg.Type)
	}
}
