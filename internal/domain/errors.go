package domain

import "errors"

// Failure kinds surfaced by the retrieval pipeline. Callers distinguish
// them with errors.Is; wrapped errors carry the operation detail.
var (
	// ErrSourceUnavailable indicates a document source could not be
	// reached at all. Failures of individual documents are not errors;
	// they are skipped and reported by the connector.
	ErrSourceUnavailable = errors.New("document source unavailable")

	// ErrModelUnavailable indicates the embedding model cannot be used,
	// either because it failed to initialize or was never prepared.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrEmptyIndex indicates a build was attempted with no chunks.
	ErrEmptyIndex = errors.New("no chunks to index")

	// ErrIndexNotFound indicates no persisted index exists at the
	// configured location.
	ErrIndexNotFound = errors.New("no persisted index found")

	// ErrCorruptIndex indicates the persisted index exists but cannot
	// be read back; the user must rebuild.
	ErrCorruptIndex = errors.New("persisted index is unreadable")

	// ErrGenerationFailed indicates the language model call failed for
	// one question. Conversation state is unaffected.
	ErrGenerationFailed = errors.New("answer generation failed")

	// ErrNotReady indicates a question was asked before any knowledge
	// base was built or loaded.
	ErrNotReady = errors.New("knowledge base not ready")
)
