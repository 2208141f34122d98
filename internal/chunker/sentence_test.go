package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biorag/internal/domain"
)

func TestSentenceChunker_Overlap(t *testing.T) {
	c := NewSentenceChunker(2, 1)
	doc := domain.Document{ID: "d", Text: "One. Two. Three. Four."}
	chunks, err := c.Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "One. Two.", chunks[0].Content)
	assert.Equal(t, "Two. Three.", chunks[1].Content)
	assert.Equal(t, "Three. Four.", chunks[2].Content)
}

func TestSentenceChunker_NoTerminators(t *testing.T) {
	c := NewSentenceChunker(5, 1)
	chunks, err := c.Chunk(domain.Document{ID: "d", Text: "no punctuation at all"})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "no punctuation at all", chunks[0].Content)
}

func TestSentenceChunker_Empty(t *testing.T) {
	c := NewSentenceChunker(5, 1)
	chunks, err := c.Chunk(domain.Document{ID: "d", Text: "   "})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
