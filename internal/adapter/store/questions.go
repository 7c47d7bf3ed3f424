package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/gitchat-ai/gitchat/internal/domain"
	"github.com/gitchat-ai/gitchat/internal/port"
)

var _ port.QuestionStore = (*PostgresStore)(nil)

// FindByProjectAndAnswer looks up a saved question by its dedup key. Returns
// (nil, nil) when no row matches.
func (s *PostgresStore) FindByProjectAndAnswer(ctx context.Context, projectID, answer string) (*domain.Question, error) {
	query := `SELECT id, project_id, user_id, question, answer, file_references, created_at
	          FROM questions WHERE project_id = $1 AND answer = $2`

	q, err := scanQuestion(s.db.QueryRowContext(ctx, query, projectID, answer))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find question: %w", err)
	}
	return q, nil
}

// Insert persists a new answered question. The unique constraint on
// (project_id, answer) backs the idempotency contract: a concurrent identical
// save surfaces as ErrDuplicateAnswer instead of a second row.
func (s *PostgresStore) Insert(ctx context.Context, q *domain.Question) (*domain.Question, error) {
	refs, err := json.Marshal(q.FileReferences)
	if err != nil {
		return nil, fmt.Errorf("marshal file references: %w", err)
	}

	query := `INSERT INTO questions (project_id, user_id, question, answer, file_references)
	          VALUES ($1, $2, $3, $4, $5::jsonb)
	          RETURNING id, project_id, user_id, question, answer, file_references, created_at`

	saved, err := scanQuestion(s.db.QueryRowContext(ctx, query,
		q.ProjectID, q.UserID, q.Question, q.Answer, string(refs),
	))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: project %s", port.ErrDuplicateAnswer, q.ProjectID)
	}
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	return saved, nil
}

// ListByProject returns saved questions for a project, newest first.
func (s *PostgresStore) ListByProject(ctx context.Context, projectID string) ([]domain.Question, error) {
	query := `SELECT id, project_id, user_id, question, answer, file_references, created_at
	          FROM questions WHERE project_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuestion(row rowScanner) (*domain.Question, error) {
	var q domain.Question
	var refs []byte
	if err := row.Scan(&q.ID, &q.ProjectID, &q.UserID, &q.Question, &q.Answer, &refs, &q.CreatedAt); err != nil {
		return nil, err
	}
	if len(refs) > 0 {
		if err := json.Unmarshal(refs, &q.FileReferences); err != nil {
			return nil, fmt.Errorf("decode file references: %w", err)
		}
	}
	return &q, nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
