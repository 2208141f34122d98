// Package service wires the retrieval pipeline together: documents in,
// a persisted knowledge base and a conversation out.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"biorag/internal/conversation"
	"biorag/internal/domain"
	"biorag/internal/retriever"
)

// BuildResult reports what a knowledge-base build produced.
type BuildResult struct {
	Documents int
	Chunks    int
	Summary   string
}

// Assistant is the application core: it owns the build/load/ask
// operations and the conversation they feed. Not safe for concurrent
// use; the session processes one operation at a time.
type Assistant struct {
	chunker             domain.Chunker
	embedder            domain.Embedder
	store               domain.VectorStore
	summarizer          domain.Summarizer
	conv                *conversation.Orchestrator
	summaryMaxSentences int
	building            bool
}

// New assembles an assistant from its collaborators.
func New(chunker domain.Chunker, embedder domain.Embedder, store domain.VectorStore, generator domain.Generator, summarizer domain.Summarizer, topK, summaryMaxSentences int) *Assistant {
	if summaryMaxSentences <= 0 {
		summaryMaxSentences = 5
	}
	r := retriever.New(embedder, store, topK)
	return &Assistant{
		chunker:             chunker,
		embedder:            embedder,
		store:               store,
		summarizer:          summarizer,
		conv:                conversation.New(r, generator),
		summaryMaxSentences: summaryMaxSentences,
	}
}

// Ready reports whether questions can be answered.
func (a *Assistant) Ready() bool { return a.conv.Ready() }

// IndexOnDisk reports whether a persisted index exists that could be
// loaded instead of rebuilding.
func (a *Assistant) IndexOnDisk() bool { return a.store.Exists() }

// History returns a copy of the conversation so far.
func (a *Assistant) History() []domain.Turn { return a.conv.History() }

// BuildKnowledgeBase chunks, embeds and indexes the documents,
// replacing any existing index, then starts a fresh conversation. A
// failed build leaves the previous index and conversation untouched.
func (a *Assistant) BuildKnowledgeBase(ctx context.Context, docs []domain.Document) (BuildResult, error) {
	if a.building {
		return BuildResult{}, errors.New("a build is already in progress")
	}
	a.building = true
	defer func() { a.building = false }()

	var chunks []domain.Chunk
	var texts []string
	var corpus strings.Builder
	for _, doc := range docs {
		docChunks, err := a.chunker.Chunk(doc)
		if err != nil {
			return BuildResult{}, fmt.Errorf("chunking document %s: %w", doc.ID, err)
		}
		for _, ch := range docChunks {
			chunks = append(chunks, ch)
			texts = append(texts, ch.Content)
		}
		corpus.WriteString(doc.Text)
		corpus.WriteString("\n")
	}
	if len(chunks) == 0 {
		return BuildResult{}, domain.ErrEmptyIndex
	}

	if err := a.embedder.Prepare(texts); err != nil {
		return BuildResult{}, err
	}
	vectors, err := a.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return BuildResult{}, err
	}
	state, err := a.embedder.MarshalState()
	if err != nil {
		return BuildResult{}, err
	}
	meta := domain.IndexMeta{
		Dimension:     a.embedder.Dimension(),
		EmbedderName:  a.embedder.Name(),
		EmbedderState: state,
	}
	if err := a.store.Build(chunks, vectors, meta); err != nil {
		return BuildResult{}, err
	}

	summary, err := a.summarizer.Summarize(corpus.String(), a.summaryMaxSentences)
	if err != nil {
		summary = ""
	}

	a.conv.Activate()
	return BuildResult{Documents: len(docs), Chunks: len(chunks), Summary: summary}, nil
}

// LoadKnowledgeBase opens the persisted index, restores the embedder
// that produced it and starts a fresh conversation.
func (a *Assistant) LoadKnowledgeBase() error {
	meta, err := a.store.Open()
	if err != nil {
		return err
	}
	if meta.EmbedderName != a.embedder.Name() {
		return fmt.Errorf("index was built with embedder %q but %q is configured; rebuild or change config", meta.EmbedderName, a.embedder.Name())
	}
	if err := a.embedder.RestoreState(meta.EmbedderState); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCorruptIndex, err)
	}
	a.conv.Activate()
	return nil
}

// Ask answers one question against the active knowledge base.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	if a.building {
		return "", errors.New("a build is in progress")
	}
	return a.conv.Ask(ctx, question)
}
