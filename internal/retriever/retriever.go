package retriever

import (
	"context"

	"biorag/internal/domain"
)

// DefaultTopK bounds the number of chunks fed into generation.
const DefaultTopK = 3

// Retriever answers "which chunks are relevant to this question" by
// embedding the question and querying the vector index.
type Retriever struct {
	embedder domain.Embedder
	store    domain.VectorStore
	topK     int
}

// New creates a retriever. topK <= 0 falls back to DefaultTopK.
func New(embedder domain.Embedder, store domain.VectorStore, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{embedder: embedder, store: store, topK: topK}
}

// Retrieve returns the k most relevant chunks for the question, most
// relevant first. k <= 0 uses the configured default. Embedder and
// index failures propagate unchanged.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]domain.Chunk, error) {
	if k <= 0 {
		k = r.topK
	}
	vec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}
	results, err := r.store.Query(vec, k)
	if err != nil {
		return nil, err
	}
	chunks := make([]domain.Chunk, len(results))
	for i, res := range results {
		chunks[i] = res.Chunk
	}
	return chunks, nil
}
