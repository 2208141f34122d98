package memory

import (
	"errors"
	"sync"

	"biorag/internal/domain"
	"biorag/internal/vectorstore"
)

// Store is an in-memory vector index using brute-force cosine
// similarity. It satisfies the same wholesale-rebuild contract as the
// persisted store but vanishes with the process; it exists for tests
// and for throwaway sessions.
type Store struct {
	mu      sync.RWMutex
	meta    domain.IndexMeta
	chunks  []domain.Chunk
	vectors [][]float64
	built   bool
}

func NewStore() *Store { return &Store{} }

// Exists reports whether an index has been built in this session.
func (s *Store) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.built
}

// Build replaces the index contents wholesale.
func (s *Store) Build(chunks []domain.Chunk, vectors [][]float64, meta domain.IndexMeta) error {
	if len(chunks) == 0 {
		return domain.ErrEmptyIndex
	}
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	for _, v := range vectors {
		if len(v) != meta.Dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append([]domain.Chunk(nil), chunks...)
	s.vectors = append([][]float64(nil), vectors...)
	s.meta = meta
	s.built = true
	return nil
}

// Open returns the metadata of the in-session index, if any.
func (s *Store) Open() (domain.IndexMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.built {
		return domain.IndexMeta{}, domain.ErrIndexNotFound
	}
	return s.meta, nil
}

// Query returns the topK most similar chunks.
func (s *Store) Query(vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.built {
		return nil, domain.ErrIndexNotFound
	}
	return vectorstore.Rank(s.chunks, s.vectors, vector, topK), nil
}
