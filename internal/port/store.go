package port

import (
	"context"

	"github.com/gitchat-ai/gitchat/internal/domain"
)

// VectorIndex performs similarity-ranked retrieval over stored per-file
// embeddings. Rows with similarity at or below floor are excluded entirely;
// results are ordered by descending similarity and capped at limit. An empty
// result is a valid "no relevant context" outcome, not an error.
type VectorIndex interface {
	SearchSimilar(ctx context.Context, projectID string, embedding []float32, floor float64, limit int) ([]domain.RetrievalHit, error)
}

// QuestionStore persists answered questions. Insert must be backed by a
// uniqueness constraint on (project_id, answer) and return ErrDuplicateAnswer
// on violation, so concurrent identical saves cannot create duplicates.
type QuestionStore interface {
	FindByProjectAndAnswer(ctx context.Context, projectID, answer string) (*domain.Question, error)
	Insert(ctx context.Context, q *domain.Question) (*domain.Question, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Question, error)
}
