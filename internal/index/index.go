// Package index resolves similarity-index backends from configuration.
package index

import (
	"fmt"

	"vindex/internal/config"
	"vindex/internal/domain"
	"vindex/internal/index/naive"
)

// New builds the configured index over the given embedder. The backend
// kind is a closed set; an unknown kind is an error.
func New(cfg config.IndexConfig, embedder domain.Embedder) (domain.Index, error) {
	switch cfg.Type {
	case "naive", "":
		return naive.New(embedder), nil
	default:
		return nil, fmt.Errorf("unknown index type %q", cfg.Type)
	}
}
