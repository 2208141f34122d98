// Package sqlite persists the vector index in a single SQLite file.
// The file's presence at the configured path is the signal that a
// usable knowledge base exists without rebuilding.
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"biorag/internal/domain"
	"biorag/internal/vectorstore"
)

const schema = `
CREATE TABLE index_meta (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	dimension INTEGER NOT NULL,
	embedder TEXT NOT NULL,
	embedder_state BLOB
);
CREATE TABLE chunks (
	position INTEGER PRIMARY KEY,
	document_id TEXT NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	chunk_index INTEGER NOT NULL,
	embedding BLOB NOT NULL
);
`

// Store is a SQLite-backed vector index. Build replaces the file
// wholesale; queries run against an in-memory copy of the rows loaded
// at Build or Open time.
type Store struct {
	path string

	mu      sync.RWMutex
	meta    domain.IndexMeta
	chunks  []domain.Chunk
	vectors [][]float64
	loaded  bool
}

// NewStore creates a store persisting to the given file path. Nothing
// is touched on disk until Build or Open.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the index file path.
func (s *Store) Path() string { return s.path }

// Exists reports whether a persisted index file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Build writes a fresh index from the chunk/vector pairs, replacing any
// prior file. The new index is written to a temporary file and renamed
// into place, so a failed build leaves the previous index untouched.
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

	tmp := s.path + ".tmp"
	_ = os.Remove(tmp)
	if err := writeIndex(tmp, chunks, vectors, meta); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing index: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing index: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = meta
	s.chunks = append([]domain.Chunk(nil), chunks...)
	s.vectors = append([][]float64(nil), vectors...)
	s.loaded = true
	return nil
}

// Open loads a previously persisted index into memory and returns its
// metadata. A missing file yields ErrIndexNotFound; an unreadable one
// yields ErrCorruptIndex.
func (s *Store) Open() (domain.IndexMeta, error) {
	if !s.Exists() {
		return domain.IndexMeta{}, fmt.Errorf("%w at %s", domain.ErrIndexNotFound, s.path)
	}
	meta, chunks, vectors, err := readIndex(s.path)
	if err != nil {
		return domain.IndexMeta{}, fmt.Errorf("%w: %v", domain.ErrCorruptIndex, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = meta
	s.chunks = chunks
	s.vectors = vectors
	s.loaded = true
	return meta, nil
}

// Query returns the topK most similar chunks from the loaded index.
func (s *Store) Query(vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, domain.ErrIndexNotFound
	}
	return vectorstore.Rank(s.chunks, s.vectors, vector, topK), nil
}

func writeIndex(path string, chunks []domain.Chunk, vectors [][]float64, meta domain.IndexMeta) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(
		`INSERT INTO index_meta (id, dimension, embedder, embedder_state) VALUES (1, ?, ?, ?)`,
		meta.Dimension, meta.EmbedderName, meta.EmbedderState,
	); err != nil {
		return fmt.Errorf("saving index meta: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO chunks (position, document_id, title, content, chunk_index, embedding) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		blob := vectorToBytes(vectors[i])
		if _, err := stmt.Exec(i, chunk.DocumentID, chunk.Title, chunk.Content, chunk.Index, blob); err != nil {
			return fmt.Errorf("saving chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func readIndex(path string) (domain.IndexMeta, []domain.Chunk, [][]float64, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return domain.IndexMeta{}, nil, nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var meta domain.IndexMeta
	row := db.QueryRow(`SELECT dimension, embedder, embedder_state FROM index_meta WHERE id = 1`)
	if err := row.Scan(&meta.Dimension, &meta.EmbedderName, &meta.EmbedderState); err != nil {
		return domain.IndexMeta{}, nil, nil, fmt.Errorf("reading index meta: %w", err)
	}
	if meta.Dimension <= 0 {
		return domain.IndexMeta{}, nil, nil, fmt.Errorf("invalid dimension %d", meta.Dimension)
	}

	rows, err := db.Query(
		`SELECT document_id, title, content, chunk_index, embedding FROM chunks ORDER BY position`,
	)
	if err != nil {
		return domain.IndexMeta{}, nil, nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	var vectors [][]float64
	for rows.Next() {
		var chunk domain.Chunk
		var blob []byte
		if err := rows.Scan(&chunk.DocumentID, &chunk.Title, &chunk.Content, &chunk.Index, &blob); err != nil {
			return domain.IndexMeta{}, nil, nil, fmt.Errorf("scanning chunk: %w", err)
		}
		vec, err := bytesToVector(blob)
		if err != nil {
			return domain.IndexMeta{}, nil, nil, err
		}
		if len(vec) != meta.Dimension {
			return domain.IndexMeta{}, nil, nil, fmt.Errorf("embedding dimension %d does not match index dimension %d", len(vec), meta.Dimension)
		}
		chunks = append(chunks, chunk)
		vectors = append(vectors, vec)
	}
	if err := rows.Err(); err != nil {
		return domain.IndexMeta{}, nil, nil, fmt.Errorf("iterating chunks: %w", err)
	}
	if len(chunks) == 0 {
		return domain.IndexMeta{}, nil, nil, errors.New("index contains no chunks")
	}
	return meta, chunks, vectors, nil
}

// vectorToBytes encodes a vector as little-endian float64 values.
func vectorToBytes(vec []float64) []byte {
	buf := make([]byte, len(vec)*8)
	for i, f := range vec {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func bytesToVector(blob []byte) ([]float64, error) {
	if len(blob) == 0 || len(blob)%8 != 0 {
		return nil, fmt.Errorf("embedding blob has invalid length %d", len(blob))
	}
	vec := make([]float64, len(blob)/8)
	for i := range vec {
		vec[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return vec, nil
}
