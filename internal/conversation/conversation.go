// Package conversation holds the dialogue state machine: Idle until a
// knowledge base is built or loaded, then Ready, answering questions by
// retrieving context and calling the generator.
package conversation

import (
	"context"
	"fmt"

	"biorag/internal/domain"
)

// Retriever is the orchestrator-facing retrieval contract.
type Retriever interface {
	Retrieve(ctx context.Context, question string, k int) ([]domain.Chunk, error)
}

// Orchestrator owns the conversation history exclusively. It is not
// safe for concurrent use; one question is processed to completion
// before the next is accepted.
type Orchestrator struct {
	retriever Retriever
	generator domain.Generator
	history   []domain.Turn
	ready     bool
}

func New(retriever Retriever, generator domain.Generator) *Orchestrator {
	return &Orchestrator{retriever: retriever, generator: generator}
}

// Activate transitions to Ready after a successful index build or load
// and resets the history. It is the only way to enter Ready.
func (o *Orchestrator) Activate() {
	o.ready = true
	o.history = nil
}

// Ready reports whether a knowledge base is available for questions.
func (o *Orchestrator) Ready() bool { return o.ready }

// History returns a copy of the dialogue so far.
func (o *Orchestrator) History() []domain.Turn {
	return append([]domain.Turn(nil), o.history...)
}

// Ask answers one question: retrieve relevant chunks, generate an
// answer conditioned on history and context, then append the user and
// assistant turns. On any failure the history is left unchanged, so a
// user turn never appears without its matching answer.
func (o *Orchestrator) Ask(ctx context.Context, question string) (string, error) {
	if !o.ready {
		return "", domain.ErrNotReady
	}
	chunks, err := o.retriever.Retrieve(ctx, question, 0)
	if err != nil {
		return "", err
	}
	contextChunks := make([]string, len(chunks))
	for i, ch := range chunks {
		contextChunks[i] = ch.Content
	}
	answer, err := o.generator.Generate(ctx, o.History(), contextChunks, question)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	o.history = append(o.history,
		domain.Turn{Role: domain.RoleUser, Content: question},
		domain.Turn{Role: domain.RoleAssistant, Content: answer},
	)
	return answer, nil
}
