// Package simple provides a deterministic bag-of-words embedder over a
// shared, append-only vocabulary.
package simple

import (
	"vindex/internal/vocab"
)

// Embedder maps each text to a vector of raw token counts indexed by
// the vocabulary. No normalization, no IDF weighting. Ingesting text
// grows the vocabulary first, so vectors embedded earlier are shorter
// than later ones; the index pads them lazily before comparison.
type Embedder struct {
	vocab *vocab.Store
}

// New creates a bag-of-words embedder backed by the given vocabulary.
func New(store *vocab.Store) *Embedder {
	return &Embedder{vocab: store}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "simple" }

// Embed grows the vocabulary with every token in texts, then returns
// one count vector per input text.
func (e *Embedder) Embed(texts []string) ([][]float64, error) {
	for _, t := range texts {
		e.vocab.Grow(vocab.Tokenize(t))
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

// EmbedQuery embeds a search query. Whether the query's unseen tokens
// join the vocabulary is the vocabulary store's freeze policy.
func (e *Embedder) EmbedQuery(text string) ([]float64, error) {
	e.vocab.GrowForQuery(vocab.Tokenize(text))
	return e.vector(text), nil
}

// Dimension returns the current vocabulary size.
func (e *Embedder) Dimension() int { return e.vocab.Size() }

func (e *Embedder) vector(text string) []float64 {
	v := make([]float64, e.vocab.Size())
	for _, tok := range vocab.Tokenize(text) {
		if idx, ok := e.vocab.Index(tok); ok {
			v[idx]++
		}
	}
	return v
}
