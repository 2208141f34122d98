// Package vectorstore provides the shared similarity ranking used by
// the index implementations. Corpora are small enough (tens to low
// thousands of chunks) that a brute-force scan beats any ANN structure.
package vectorstore

import (
	"sort"

	"biorag/internal/domain"
)

// Rank scores every stored vector against the query and returns the
// topK results, most similar first. Vectors are assumed L2-normalized,
// so the dot product is the cosine similarity. Ties keep insertion
// order; topK larger than the index returns everything.
func Rank(chunks []domain.Chunk, vectors [][]float64, query []float64, topK int) []domain.SearchResult {
	if topK <= 0 {
		topK = 5
	}
	idxs := make([]int, len(vectors))
	scores := make([]float64, len(vectors))
	for i := range vectors {
		idxs[i] = i
		scores[i] = dot(vectors[i], query)
	}
	// stable sort keeps insertion order on equal scores
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.SearchResult{Chunk: chunks[j], Score: scores[j]})
	}
	return results
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
