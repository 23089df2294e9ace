// Package naive is a brute-force cosine-similarity index over an
// ordered list of embedded texts.
package naive

import (
	"math"
	"sort"
	"sync"

	"vindex/internal/domain"
)

type entry struct {
	id     int
	text   string
	vector []float64
}

// Index assigns auto-incrementing ids starting at 1 and keeps every
// stored vector right-padded with zeros to the running maximum
// dimension, so vectors embedded before the vocabulary grew stay
// comparable with later ones.
type Index struct {
	mu       sync.RWMutex
	embedder domain.Embedder
	entries  []entry
	dim      int
	nextID   int
}

// New creates an empty index over the given embedder.
func New(embedder domain.Embedder) *Index {
	return &Index{embedder: embedder, nextID: 1}
}

// Add embeds and appends texts, returning the assigned ids in input
// order. Ids continue from the last assigned id across calls.
func (x *Index) Add(texts []string) ([]int, error) {
	vectors, err := x.embedder.Embed(texts)
	if err != nil {
		return nil, err
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, v := range vectors {
		if len(v) > x.dim {
			x.dim = len(v)
		}
	}
	for i := range x.entries {
		x.entries[i].vector = pad(x.entries[i].vector, x.dim)
	}
	ids := make([]int, 0, len(texts))
	for i, t := range texts {
		x.entries = append(x.entries, entry{id: x.nextID, text: t, vector: pad(vectors[i], x.dim)})
		ids = append(ids, x.nextID)
		x.nextID++
	}
	return ids, nil
}

// Search returns the max(0, k) entries most similar to query, sorted by
// descending cosine score. Equal scores keep insertion order. An empty
// index or k <= 0 yields an empty result, never an error.
func (x *Index) Search(query string, k int) ([]domain.SearchResult, error) {
	qvec, err := x.embedder.EmbedQuery(query)
	if err != nil {
		return nil, err
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	q := fit(qvec, x.dim)
	results := make([]domain.SearchResult, 0, len(x.entries))
	for _, e := range x.entries {
		results = append(results, domain.SearchResult{ID: e.id, Score: cosine(q, e.vector), Text: e.text})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < 0 {
		k = 0
	}
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Reset clears all entries and restarts id assignment at 1. The
// embedder's vocabulary is untouched; clearing it is the owner's call.
func (x *Index) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = nil
	x.dim = 0
	x.nextID = 1
}

// Len returns the number of stored entries.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Snapshot copies the index contents for persistence.
func (x *Index) Snapshot() domain.IndexSnapshot {
	x.mu.RLock()
	defer x.mu.RUnlock()
	snap := domain.IndexSnapshot{NextID: x.nextID}
	snap.Entries = make([]domain.IndexEntry, 0, len(x.entries))
	for _, e := range x.entries {
		snap.Entries = append(snap.Entries, domain.IndexEntry{ID: e.id, Text: e.text})
	}
	return snap
}

// Restore replaces the index contents with a snapshot, re-embedding
// every text against the embedder's current vocabulary.
func (x *Index) Restore(snap domain.IndexSnapshot) error {
	texts := make([]string, len(snap.Entries))
	for i, e := range snap.Entries {
		texts[i] = e.Text
	}
	vectors, err := x.embedder.Embed(texts)
	if err != nil {
		return err
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = nil
	x.dim = 0
	for _, v := range vectors {
		if len(v) > x.dim {
			x.dim = len(v)
		}
	}
	for i, e := range snap.Entries {
		x.entries = append(x.entries, entry{id: e.ID, text: e.Text, vector: pad(vectors[i], x.dim)})
	}
	x.nextID = snap.NextID
	if x.nextID < 1 {
		x.nextID = 1
	}
	return nil
}

// pad right-pads v with zeros to length dim.
func pad(v []float64, dim int) []float64 {
	if len(v) >= dim {
		return v
	}
	out := make([]float64, dim)
	copy(out, v)
	return out
}

// fit pads or truncates v to length dim.
func fit(v []float64, dim int) []float64 {
	if len(v) > dim {
		return v[:dim]
	}
	return pad(v, dim)
}

// cosine is dot(a,b) / (|a|*|b|), defined as 0 when either norm is 0.
func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, v := range a {
		na += v * v
	}
	for _, v := range b {
		nb += v * v
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
