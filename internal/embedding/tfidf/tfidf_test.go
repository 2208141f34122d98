package tfidf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biorag/internal/domain"
)

var corpus = []string{
	"gene editing with CRISPR enables precise genome modification",
	"protein folding determines enzyme function",
	"CRISPR systems derive from bacterial immunity",
}

func TestEmbedder_Determinism(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare(corpus))

	ctx := context.Background()
	first, err := e.Embed(ctx, "CRISPR genome editing")
	require.NoError(t, err)
	second, err := e.Embed(ctx, "CRISPR genome editing")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, e.Dimension())
}

func TestEmbedder_NotPrepared(t *testing.T) {
	e := NewEmbedder()
	_, err := e.Embed(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestEmbedder_EmptyCorpus(t *testing.T) {
	e := NewEmbedder()
	err := e.Prepare(nil)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestEmbedder_StateRoundTrip(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare(corpus))

	ctx := context.Background()
	want, err := e.Embed(ctx, "bacterial enzyme function")
	require.NoError(t, err)

	data, err := e.MarshalState()
	require.NoError(t, err)

	restored := NewEmbedder()
	require.NoError(t, restored.RestoreState(data))
	assert.Equal(t, e.Dimension(), restored.Dimension())

	got, err := restored.Embed(ctx, "bacterial enzyme function")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEmbedder_RestoreInvalidState(t *testing.T) {
	e := NewEmbedder()
	assert.Error(t, e.RestoreState([]byte("{not json")))
	assert.Error(t, e.RestoreState([]byte(`{"terms":["a"],"idf":[]}`)))
}

func TestEmbedder_BatchCancellation(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare(corpus))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.EmbedBatch(ctx, []string{"one", "two"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEmbedder_Batch(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare(corpus))

	vectors, err := e.EmbedBatch(context.Background(), corpus)
	require.NoError(t, err)
	require.Len(t, vectors, len(corpus))
	for _, v := range vectors {
		assert.Len(t, v, e.Dimension())
	}
}
