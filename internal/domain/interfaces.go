package domain

import "context"

// Document represents a single piece of source literature (a fetched
// article or an uploaded file) before it is split for indexing.
type Document struct {
	ID    string
	Title string
	Text  string
}

// Chunk is a bounded slice of a document's text used as the unit of
// embedding and retrieval. It carries the owning document's identity.
type Chunk struct {
	DocumentID string
	Title      string
	Content    string
	Index      int
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the dialogue, either a question or an answer.
type Turn struct {
	Role    Role
	Content string
}

// IndexMeta describes a persisted index: the vector dimension and the
// serialized state of the embedder that produced the vectors, so that
// loading an index restores a queryable embedder without a corpus.
type IndexMeta struct {
	Dimension     int
	EmbedderName  string
	EmbedderState []byte
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus, and
// must be deterministic: the same text yields the same vector.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
	MarshalState() ([]byte, error)
	RestoreState(data []byte) error
}

// VectorStore persists chunk vectors and answers similarity queries.
// Build replaces the entire index; there is no incremental update.
type VectorStore interface {
	Exists() bool
	Build(chunks []Chunk, vectors [][]float64, meta IndexMeta) error
	Open() (IndexMeta, error)
	Query(vector []float64, topK int) ([]SearchResult, error)
}

// Generator produces an answer conditioned on the dialogue so far and
// the retrieved context.
type Generator interface {
	Generate(ctx context.Context, history []Turn, contextChunks []string, question string) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
