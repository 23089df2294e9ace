// Package qa orchestrates the index and chunker into a document
// question-answering service with naive extractive answers.
package qa

import (
	"strings"
	"sync"

	"vindex/internal/chunker"
	"vindex/internal/domain"
	"vindex/internal/vocab"
)

// Ingestion defaults for structured documents.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
)

// Answer is the result of asking a question: the extracted answer text
// plus the retrieval hits it was taken from.
type Answer struct {
	Answer string
	Hits   []domain.SearchResult
}

// RichAnswer is Answer with chunk provenance attached to each hit.
type RichAnswer struct {
	Answer string
	Hits   []domain.RichHit
}

// Options tunes service behavior that is deliberately not hard-wired.
type Options struct {
	// ResetClearsVocabulary makes Reset drop the shared vocabulary as
	// well. Off by default: token indices survive reset-then-re-add
	// cycles, matching the index's id counter restarting while the
	// vocabulary keeps growing.
	ResetClearsVocabulary bool
}

// Service is a thin layer over an Index: plain texts go in unchunked,
// structured documents are chunked with provenance metadata recorded
// per assigned id.
type Service struct {
	mu    sync.RWMutex
	index domain.Index
	vocab *vocab.Store
	meta  map[int]*domain.ChunkMeta
	opts  Options
}

// NewService creates a QA service over the given index and vocabulary.
func NewService(idx domain.Index, v *vocab.Store, opts Options) *Service {
	return &Service{index: idx, vocab: v, meta: make(map[int]*domain.ChunkMeta), opts: opts}
}

// Add ingests raw texts directly, without chunking, and returns the
// assigned ids in input order.
func (s *Service) Add(texts []string) ([]int, error) {
	return s.index.Add(texts)
}

// AddDocuments chunks each document, records chunk provenance, and
// ingests all chunks. Documents producing zero chunks (empty text) are
// silently skipped. Non-positive sizes fall back to the defaults.
func (s *Service) AddDocuments(docs []domain.Document, chunkSize, chunkOverlap int) ([]int, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	ck := chunker.New(chunkSize, chunkOverlap)
	var texts []string
	var pending []*domain.ChunkMeta
	for _, doc := range docs {
		for i, ch := range ck.Split(doc.Text) {
			texts = append(texts, ch.Text)
			pending = append(pending, &domain.ChunkMeta{
				DocID:      doc.ID,
				ChunkIndex: i,
				Start:      ch.Start,
				End:        ch.End,
				Source:     doc.Metadata,
			})
		}
	}
	ids, err := s.index.Add(texts)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	for i, id := range ids {
		s.meta[id] = pending[i]
	}
	s.mu.Unlock()
	return ids, nil
}

// Search delegates to the index.
func (s *Service) Search(query string, k int) ([]domain.SearchResult, error) {
	return s.index.Search(query, k)
}

// SearchRich searches and attaches stored chunk metadata to each hit.
// Meta is nil for ids ingested via plain Add.
func (s *Service) SearchRich(query string, k int) ([]domain.RichHit, error) {
	hits, err := s.index.Search(query, k)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rich := make([]domain.RichHit, 0, len(hits))
	for _, h := range hits {
		rich = append(rich, domain.RichHit{ID: h.ID, Score: h.Score, Text: h.Text, Meta: s.meta[h.ID]})
	}
	return rich, nil
}

// Ask searches for the question and extracts a naive answer from the
// hit with the largest token overlap: the overlapping tokens joined by
// spaces, or the first 80 characters of that hit when nothing overlaps.
// Ties keep the first-seen hit.
func (s *Service) Ask(question string, k int) (Answer, error) {
	hits, err := s.Search(question, k)
	if err != nil {
		return Answer{}, err
	}
	return Answer{Answer: extractAnswer(question, hits), Hits: hits}, nil
}

// AskRich is Ask with chunk provenance on the hits.
func (s *Service) AskRich(question string, k int) (RichAnswer, error) {
	hits, err := s.SearchRich(question, k)
	if err != nil {
		return RichAnswer{}, err
	}
	plain := make([]domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		plain = append(plain, domain.SearchResult{ID: h.ID, Score: h.Score, Text: h.Text})
	}
	return RichAnswer{Answer: extractAnswer(question, plain), Hits: hits}, nil
}

// Reset clears indexed entries and metadata and restarts id assignment
// at 1. The vocabulary survives unless the service was configured with
// ResetClearsVocabulary.
func (s *Service) Reset() {
	s.index.Reset()
	s.mu.Lock()
	s.meta = make(map[int]*domain.ChunkMeta)
	s.mu.Unlock()
	if s.opts.ResetClearsVocabulary {
		s.vocab.Clear()
	}
}

// Len returns the number of indexed entries.
func (s *Service) Len() int {
	return s.index.Len()
}

func extractAnswer(question string, hits []domain.SearchResult) string {
	qset := vocab.TokenSet(question)
	best := ""
	bestScore := -1
	for _, h := range hits {
		var overlap []string
		for _, tok := range vocab.Tokenize(h.Text) {
			if _, ok := qset[tok]; ok {
				overlap = append(overlap, tok)
			}
		}
		if len(overlap) > bestScore {
			bestScore = len(overlap)
			if len(overlap) > 0 {
				best = strings.Join(overlap, " ")
			} else {
				best = prefixRunes(h.Text, 80)
			}
		}
	}
	return best
}

func prefixRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
