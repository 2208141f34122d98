package chunker

import (
	"biorag/internal/domain"
)

// CharacterChunker splits document text into fixed-size character
// windows with a configured overlap between consecutive windows.
type CharacterChunker struct {
	chunkSize int
	overlap   int
}

// NewCharacterChunker creates a character-window chunker. A
// non-positive size falls back to 1000 characters; an overlap that is
// negative or at least the chunk size is dropped to zero.
func NewCharacterChunker(chunkSize, overlap int) *CharacterChunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	return &CharacterChunker{chunkSize: chunkSize, overlap: overlap}
}

// Chunk walks the document text producing successive windows of
// chunkSize characters, advancing by chunkSize-overlap each step. The
// final window may be shorter. An empty document yields no chunks.
func (c *CharacterChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	runes := []rune(document.Text)
	if len(runes) == 0 {
		return nil, nil
	}
	stride := c.chunkSize - c.overlap
	var chunks []domain.Chunk
	idx := 0
	for start := 0; start < len(runes); start += stride {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			Title:      document.Title,
			Content:    string(runes[start:end]),
			Index:      idx,
		})
		if end == len(runes) {
			break
		}
		idx++
	}
	return chunks, nil
}
