package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"words and punctuation", "Hello, World!", []string{"hello", "world"}},
		{"digits and apostrophes", "It's 42 degrees", []string{"it's", "42", "degrees"}},
		{"separators collapse", "a--b__c  d", []string{"a", "b", "c", "d"}},
		{"non-ascii splits", "café", []string{"caf"}},
		{"empty", "", nil},
		{"only separators", "!!! ---", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestStoreGrowIsAppendOnly(t *testing.T) {
	s := NewStore(false)
	s.Grow([]string{"fox", "dog", "fox"})
	assert.Equal(t, 2, s.Size())

	foxIdx, ok := s.Index("fox")
	require.True(t, ok)

	s.Grow([]string{"cat", "fox"})
	assert.Equal(t, 3, s.Size())

	// existing assignments never move
	again, ok := s.Index("fox")
	require.True(t, ok)
	assert.Equal(t, foxIdx, again)

	catIdx, ok := s.Index("cat")
	require.True(t, ok)
	assert.Equal(t, 2, catIdx)
}

func TestStoreGrowForQuery(t *testing.T) {
	growing := NewStore(false)
	growing.GrowForQuery([]string{"quick"})
	assert.Equal(t, 1, growing.Size())

	frozen := NewStore(true)
	frozen.Grow([]string{"fox"})
	frozen.GrowForQuery([]string{"quick"})
	assert.Equal(t, 1, frozen.Size())
	_, ok := frozen.Index("quick")
	assert.False(t, ok)
}

func TestStoreClear(t *testing.T) {
	s := NewStore(false)
	s.Grow([]string{"a", "b"})
	s.Clear()
	assert.Equal(t, 0, s.Size())
	s.Grow([]string{"c"})
	idx, ok := s.Index("c")
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestStoreSnapshotRestore(t *testing.T) {
	s := NewStore(false)
	s.Grow([]string{"one", "two", "three"})
	snap := s.Snapshot()

	// snapshot is a copy, not a view
	s.Grow([]string{"four"})
	assert.Len(t, snap, 3)

	restored := NewStore(false)
	restored.Restore(snap)
	assert.Equal(t, 3, restored.Size())
	idx, ok := restored.Index("two")
	require.True(t, ok)
	orig, _ := s.Index("two")
	assert.Equal(t, orig, idx)
}
