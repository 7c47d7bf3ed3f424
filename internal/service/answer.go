package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gitchat-ai/gitchat/internal/domain"
	"github.com/gitchat-ai/gitchat/internal/port"
)

// AnswerService runs the retrieval-augmented answer pipeline: embed the
// question, rank candidate files, assemble a context block, and stream the
// generated answer while it is still being produced.
type AnswerService struct {
	ai    port.AIProvider
	index port.VectorIndex
}

// NewAnswerService creates a new answer service.
func NewAnswerService(ai port.AIProvider, index port.VectorIndex) *AnswerService {
	return &AnswerService{ai: ai, index: index}
}

// AnswerStream is a live, ordered stream of answer fragments plus the
// retrieval hits that grounded the prompt. The producer accumulates the full
// text on the side; consumers that only need the final answer can skip
// Chunks and call Wait directly.
type AnswerStream struct {
	chunks chan string
	refs   []domain.RetrievalHit
	done   chan struct{}

	// written by the producer goroutine before done is closed
	full string
	err  error
}

// Chunks returns the live stream. Fragments arrive in generation order and
// the channel closes on completion or terminal failure; use Wait to tell the
// two apart.
func (s *AnswerStream) Chunks() <-chan string {
	return s.chunks
}

// References returns the retrieval hits used to build the prompt, in rank
// order. Available immediately, before the stream completes.
func (s *AnswerStream) References() []domain.RetrievalHit {
	return s.refs
}

// Wait blocks until generation finishes and returns the complete answer text.
// A mid-stream generation failure is returned here as a terminal error; the
// fragments already delivered must not be mistaken for a full answer.
func (s *AnswerStream) Wait(ctx context.Context) (string, error) {
	select {
	case <-s.done:
		return s.full, s.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Ask answers a question about a project. Validation and retrieval failures
// are returned immediately; once generation starts the returned stream
// carries the answer. An empty retrieval set is not an error: generation
// still runs and the prompt's fidelity instruction produces the fallback.
func (s *AnswerService) Ask(ctx context.Context, projectID, question string) (*AnswerStream, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: empty question", port.ErrInvalidInput)
	}

	embedding, err := s.ai.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrEmbedding, err)
	}

	hits, err := s.index.SearchSimilar(ctx, projectID, embedding, SimilarityFloor, MaxContextFiles)
	if err != nil {
		return nil, fmt.Errorf("search similar: %w", err)
	}
	slog.Info("retrieved context", "project_id", projectID, "hits", len(hits))

	prompt := buildPrompt(assembleContext(hits), question)

	gen, err := s.ai.GenerateStream(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrGeneration, err)
	}

	stream := &AnswerStream{
		chunks: make(chan string, 64),
		refs:   hits,
		done:   make(chan struct{}),
	}
	go stream.pump(ctx, gen)
	return stream, nil
}

// pump forwards generation fragments to the consumer in arrival order while
// accumulating the full answer. It never blocks past consumer teardown: every
// send also selects on ctx.
func (s *AnswerStream) pump(ctx context.Context, gen <-chan port.StreamChunk) {
	var full strings.Builder
	defer func() {
		s.full = full.String()
		close(s.done)
		close(s.chunks)
	}()

	for chunk := range gen {
		if chunk.Err != nil {
			s.err = fmt.Errorf("%w: %v", port.ErrGeneration, chunk.Err)
			return
		}
		full.WriteString(chunk.Content)
		select {
		case s.chunks <- chunk.Content:
		case <-ctx.Done():
			s.err = ctx.Err()
			return
		}
	}
}
