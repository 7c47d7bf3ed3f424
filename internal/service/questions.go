package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gitchat-ai/gitchat/internal/domain"
	"github.com/gitchat-ai/gitchat/internal/port"
)

// QuestionService persists finalized question/answer pairs.
type QuestionService struct {
	questions port.QuestionStore
}

// NewQuestionService creates a new question service.
func NewQuestionService(questions port.QuestionStore) *QuestionService {
	return &QuestionService{questions: questions}
}

// Save persists an answered question at most once per (projectID, answer).
// The dedup key is the answer text, not the question text — observed contract
// of the save endpoint, kept as-is. An existing match wins: stored file
// references and timestamps are never overwritten.
func (s *QuestionService) Save(ctx context.Context, userID string, q *domain.Question) (*domain.Question, error) {
	if userID == "" {
		return nil, port.ErrUnauthorized
	}
	if strings.TrimSpace(q.Question) == "" || q.Answer == "" || q.ProjectID == "" {
		return nil, fmt.Errorf("%w: question, answer and project are required", port.ErrInvalidInput)
	}

	existing, err := s.questions.FindByProjectAndAnswer(ctx, q.ProjectID, q.Answer)
	if err != nil {
		return nil, fmt.Errorf("lookup existing answer: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: project %s", port.ErrDuplicateAnswer, q.ProjectID)
	}

	q.UserID = userID
	saved, err := s.questions.Insert(ctx, q)
	if err != nil {
		// The unique constraint catches the race between lookup and insert;
		// the store already maps it to ErrDuplicateAnswer.
		return nil, err
	}

	slog.Info("question saved", "project_id", saved.ProjectID, "question_id", saved.ID)
	return saved, nil
}

// ListByProject returns the saved questions for a project, newest first.
func (s *QuestionService) ListByProject(ctx context.Context, projectID string) ([]domain.Question, error) {
	return s.questions.ListByProject(ctx, projectID)
}
