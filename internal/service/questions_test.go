package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitchat-ai/gitchat/internal/domain"
	"github.com/gitchat-ai/gitchat/internal/port"
)

type fakeQuestionStore struct {
	existing *domain.Question
	findErr  error

	inserted  *domain.Question
	insertErr error

	listed []domain.Question
}

func (f *fakeQuestionStore) FindByProjectAndAnswer(_ context.Context, _, _ string) (*domain.Question, error) {
	return f.existing, f.findErr
}

func (f *fakeQuestionStore) Insert(_ context.Context, q *domain.Question) (*domain.Question, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted = q
	saved := *q
	saved.ID = "q-1"
	return &saved, nil
}

func (f *fakeQuestionStore) ListByProject(_ context.Context, _ string) ([]domain.Question, error) {
	return f.listed, nil
}

func TestSave_PersistsNewAnswer(t *testing.T) {
	store := &fakeQuestionStore{}
	svc := NewQuestionService(store)

	saved, err := svc.Save(context.Background(), "user-1", &domain.Question{
		ProjectID: "proj-1",
		Question:  "how does auth work?",
		Answer:    "it uses JWT",
	})
	require.NoError(t, err)
	require.Equal(t, "q-1", saved.ID)
	require.Equal(t, "user-1", store.inserted.UserID)
}

func TestSave_DuplicateAnswerKeepsExistingRow(t *testing.T) {
	store := &fakeQuestionStore{
		existing: &domain.Question{ID: "q-old", ProjectID: "proj-1", Answer: "it uses JWT"},
	}
	svc := NewQuestionService(store)

	_, err := svc.Save(context.Background(), "user-1", &domain.Question{
		ProjectID: "proj-1",
		Question:  "a different question, same answer",
		Answer:    "it uses JWT",
	})
	require.ErrorIs(t, err, port.ErrDuplicateAnswer)
	// Existing row wins: nothing was inserted.
	require.Nil(t, store.inserted)
}

func TestSave_InsertRaceSurfacesDuplicate(t *testing.T) {
	// The store maps the unique-constraint violation itself.
	store := &fakeQuestionStore{insertErr: port.ErrDuplicateAnswer}
	svc := NewQuestionService(store)

	_, err := svc.Save(context.Background(), "user-1", &domain.Question{
		ProjectID: "proj-1",
		Question:  "q",
		Answer:    "a",
	})
	require.ErrorIs(t, err, port.ErrDuplicateAnswer)
}

func TestSave_MissingUser(t *testing.T) {
	store := &fakeQuestionStore{findErr: errors.New("store should not be called")}
	svc := NewQuestionService(store)

	_, err := svc.Save(context.Background(), "", &domain.Question{
		ProjectID: "proj-1",
		Question:  "q",
		Answer:    "a",
	})
	require.ErrorIs(t, err, port.ErrUnauthorized)
}

func TestSave_InvalidInput(t *testing.T) {
	svc := NewQuestionService(&fakeQuestionStore{})

	cases := []domain.Question{
		{ProjectID: "proj-1", Question: "  ", Answer: "a"},
		{ProjectID: "proj-1", Question: "q", Answer: ""},
		{ProjectID: "", Question: "q", Answer: "a"},
	}
	for _, q := range cases {
		_, err := svc.Save(context.Background(), "user-1", &q)
		require.ErrorIs(t, err, port.ErrInvalidInput)
	}
}
