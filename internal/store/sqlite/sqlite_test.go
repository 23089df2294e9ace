package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vindex/internal/domain"
	"vindex/internal/embedding/simple"
	"vindex/internal/index/naive"
	"vindex/internal/qa"
	"vindex/internal/vocab"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func newService() *qa.Service {
	store := vocab.NewStore(false)
	return qa.NewService(naive.New(simple.New(store)), store, qa.Options{})
}

func TestLoadFreshStore(t *testing.T) {
	st := openTempStore(t)
	_, ok, err := st.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	st := openTempStore(t)

	svc := newService()
	_, err := svc.Add([]string{"The quick brown fox", "jumps over the lazy dog"})
	require.NoError(t, err)
	_, err = svc.AddDocuments([]domain.Document{
		{ID: "vin", Text: "VIN check digits follow ISO 3779.", Metadata: map[string]string{"topic": "vin"}},
	}, 0, -1)
	require.NoError(t, err)

	require.NoError(t, st.Save(svc.Snapshot()))

	snap, ok, err := st.Load()
	require.NoError(t, err)
	require.True(t, ok)

	restored := newService()
	require.NoError(t, restored.Restore(snap))

	want, err := svc.SearchRich("quick fox", 3)
	require.NoError(t, err)
	got, err := restored.SearchRich("quick fox", 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	hits, err := restored.SearchRich("VIN check digits", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.NotNil(t, hits[0].Meta)
	assert.Equal(t, "vin", hits[0].Meta.DocID)
	assert.Equal(t, "vin", hits[0].Meta.Source["topic"])
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	st := openTempStore(t)

	first := newService()
	_, err := first.Add([]string{"old content"})
	require.NoError(t, err)
	require.NoError(t, st.Save(first.Snapshot()))

	second := newService()
	_, err = second.Add([]string{"new content"})
	require.NoError(t, err)
	require.NoError(t, st.Save(second.Snapshot()))

	snap, ok, err := st.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, snap.Index.Entries, 1)
	assert.Equal(t, "new content", snap.Index.Entries[0].Text)
}

func TestSaveLoadEmptySnapshot(t *testing.T) {
	st := openTempStore(t)
	require.NoError(t, st.Save(newService().Snapshot()))

	snap, ok, err := st.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, snap.Index.Entries)
	assert.Equal(t, 1, snap.Index.NextID)
	assert.Empty(t, snap.Vocab)
	assert.Empty(t, snap.Meta)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	st, err := Open(path)
	require.NoError(t, err)

	svc := newService()
	_, err = svc.Add([]string{"persisted entry"})
	require.NoError(t, err)
	require.NoError(t, st.Save(svc.Snapshot()))
	require.NoError(t, st.Close())

	st2, err := Open(path)
	require.NoError(t, err)
	defer st2.Close()

	snap, ok, err := st2.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, snap.Index.Entries, 1)
	assert.Equal(t, "persisted entry", snap.Index.Entries[0].Text)
}
