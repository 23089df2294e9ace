package vocab

import (
	"regexp"
	"strings"
	"sync"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9']+`)

// Tokenize lower-cases text and extracts maximal runs of ASCII letters,
// digits and apostrophes. Every other character is a separator. No
// stemming, no stopword removal.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// TokenSet returns the distinct tokens of text.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// Store is an append-only mapping from token to a stable vector index.
// Once assigned, an index never changes; the mapping only grows.
//
// Growth happens on ingestion. Whether it also happens when embedding a
// search query is a policy choice: with freezeOnQuery set, GrowForQuery
// is a no-op and unknown query tokens simply miss the vocabulary.
type Store struct {
	mu            sync.RWMutex
	index         map[string]int
	freezeOnQuery bool
}

// NewStore returns an empty vocabulary store.
func NewStore(freezeOnQuery bool) *Store {
	return &Store{index: make(map[string]int), freezeOnQuery: freezeOnQuery}
}

// Grow assigns the next free index to every previously unseen token.
func (s *Store) Grow(tokens []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tok := range tokens {
		if _, ok := s.index[tok]; !ok {
			s.index[tok] = len(s.index)
		}
	}
}

// GrowForQuery grows the vocabulary for a query's tokens unless the
// store is frozen at query time.
func (s *Store) GrowForQuery(tokens []string) {
	s.mu.RLock()
	frozen := s.freezeOnQuery
	s.mu.RUnlock()
	if !frozen {
		s.Grow(tokens)
	}
}

// Index returns the vector index assigned to token.
func (s *Store) Index(token string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.index[token]
	return idx, ok
}

// Size returns the number of known tokens, which is also the dimension
// of freshly embedded vectors.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.index)
}

// Clear drops every known token. Index assignment restarts at zero.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = make(map[string]int)
}

// Snapshot returns a copy of the token mapping for persistence.
func (s *Store) Snapshot() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.index))
	for tok, idx := range s.index {
		out[tok] = idx
	}
	return out
}

// Restore replaces the mapping with a previously snapshotted one.
func (s *Store) Restore(m map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = make(map[string]int, len(m))
	for tok, idx := range m {
		s.index[tok] = idx
	}
}
