package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biorag/internal/domain"
)

func TestCharacterChunker_TwoDocuments(t *testing.T) {
	c := NewCharacterChunker(1000, 150)

	long := domain.Document{ID: "a", Title: "Long", Text: strings.Repeat("X", 1200)}
	short := domain.Document{ID: "b", Title: "Short", Text: "short"}

	longChunks, err := c.Chunk(long)
	require.NoError(t, err)
	require.Len(t, longChunks, 2)
	assert.Len(t, longChunks[0].Content, 1000)
	assert.Len(t, longChunks[1].Content, 350)
	// second window starts at 850, so the last 150 chars of chunk 0
	// reappear at the head of chunk 1
	assert.Equal(t, longChunks[0].Content[850:], longChunks[1].Content[:150])
	assert.Equal(t, "a", longChunks[0].DocumentID)
	assert.Equal(t, "Long", longChunks[0].Title)
	assert.Equal(t, 0, longChunks[0].Index)
	assert.Equal(t, 1, longChunks[1].Index)

	shortChunks, err := c.Chunk(short)
	require.NoError(t, err)
	require.Len(t, shortChunks, 1)
	assert.Equal(t, "short", shortChunks[0].Content)
}

func TestCharacterChunker_EmptyDocument(t *testing.T) {
	c := NewCharacterChunker(1000, 150)
	chunks, err := c.Chunk(domain.Document{ID: "empty"})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestCharacterChunker_Reconstruction(t *testing.T) {
	cases := []struct {
		name      string
		chunkSize int
		overlap   int
		textLen   int
	}{
		{"no overlap", 100, 0, 1050},
		{"small overlap", 100, 10, 1000},
		{"large overlap", 1000, 900, 5000},
		{"exact multiple", 200, 50, 200},
		{"shorter than window", 500, 100, 120},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text := buildText(tc.textLen)
			c := NewCharacterChunker(tc.chunkSize, tc.overlap)
			chunks, err := c.Chunk(domain.Document{ID: "d", Text: text})
			require.NoError(t, err)
			require.NotEmpty(t, chunks)

			// concatenating each chunk minus its overlapped tail, plus
			// the final chunk in full, must reproduce the input
			stride := tc.chunkSize - tc.overlap
			var b strings.Builder
			for i, ch := range chunks {
				if i == len(chunks)-1 {
					b.WriteString(ch.Content)
					break
				}
				b.WriteString(ch.Content[:stride])
			}
			assert.Equal(t, text, b.String())
		})
	}
}

func TestCharacterChunker_MultibyteText(t *testing.T) {
	c := NewCharacterChunker(4, 1)
	chunks, err := c.Chunk(domain.Document{ID: "d", Text: "αβγδεζη"})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "αβγδ", chunks[0].Content)
	assert.Equal(t, "δεζη", chunks[1].Content)
}

func TestNewCharacterChunker_InvalidArgs(t *testing.T) {
	// overlap >= size would never terminate; it is dropped instead
	c := NewCharacterChunker(10, 10)
	chunks, err := c.Chunk(domain.Document{ID: "d", Text: strings.Repeat("y", 25)})
	require.NoError(t, err)
	assert.Len(t, chunks, 3)
}

func buildText(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz "
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[i%len(alphabet)])
	}
	return b.String()
}
