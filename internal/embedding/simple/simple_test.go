package simple

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vindex/internal/vocab"
)

func TestEmbedCountsRawFrequency(t *testing.T) {
	e := New(vocab.NewStore(false))
	vecs, err := e.Embed([]string{"the quick brown fox", "the the the"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)

	// vocabulary grew with all texts before any vector was produced
	assert.Equal(t, 4, e.Dimension())
	assert.Len(t, vecs[0], 4)
	assert.Len(t, vecs[1], 4)

	theIdx, ok := e.vocab.Index("the")
	require.True(t, ok)
	assert.Equal(t, 1.0, vecs[0][theIdx])
	assert.Equal(t, 3.0, vecs[1][theIdx])
}

func TestEmbedGrowsAcrossCalls(t *testing.T) {
	e := New(vocab.NewStore(false))
	first, err := e.Embed([]string{"alpha beta"})
	require.NoError(t, err)
	assert.Len(t, first[0], 2)

	second, err := e.Embed([]string{"gamma"})
	require.NoError(t, err)
	// earlier vectors keep their length; only new ones see the grown vocabulary
	assert.Len(t, first[0], 2)
	assert.Len(t, second[0], 3)
}

func TestEmbedQueryGrowPolicy(t *testing.T) {
	growing := New(vocab.NewStore(false))
	_, err := growing.Embed([]string{"fox"})
	require.NoError(t, err)
	v, err := growing.EmbedQuery("quick fox")
	require.NoError(t, err)
	assert.Len(t, v, 2) // query token joined the vocabulary

	frozen := New(vocab.NewStore(true))
	_, err = frozen.Embed([]string{"fox"})
	require.NoError(t, err)
	v, err = frozen.EmbedQuery("quick fox")
	require.NoError(t, err)
	assert.Len(t, v, 1) // unknown query token stayed out
	assert.Equal(t, 1.0, v[0])
}

func TestEmbedEmptyText(t *testing.T) {
	e := New(vocab.NewStore(false))
	vecs, err := e.Embed([]string{""})
	require.NoError(t, err)
	assert.Empty(t, vecs[0])

	_, err = e.Embed([]string{"some words"})
	require.NoError(t, err)
	v, err := e.EmbedQuery("")
	require.NoError(t, err)
	for _, x := range v {
		assert.Zero(t, x)
	}
}
