package qa

import (
	"vindex/internal/domain"
)

// Snapshot is a value copy of everything the service needs to come back
// in another process: the vocabulary, the indexed entries and the chunk
// metadata map. Vectors are rebuilt from text on restore.
type Snapshot struct {
	Vocab map[string]int
	Index domain.IndexSnapshot
	Meta  map[int]domain.ChunkMeta
}

// Snapshot captures the current service state.
func (s *Service) Snapshot() Snapshot {
	snap := Snapshot{
		Vocab: s.vocab.Snapshot(),
		Index: s.index.Snapshot(),
		Meta:  make(map[int]domain.ChunkMeta),
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, m := range s.meta {
		snap.Meta[id] = *m
	}
	return snap
}

// Restore replaces the service state with a snapshot. The vocabulary is
// restored before the index so re-embedding reproduces the original
// token positions.
func (s *Service) Restore(snap Snapshot) error {
	s.vocab.Restore(snap.Vocab)
	if err := s.index.Restore(snap.Index); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = make(map[int]*domain.ChunkMeta, len(snap.Meta))
	for id, m := range snap.Meta {
		mc := m
		s.meta[id] = &mc
	}
	return nil
}
