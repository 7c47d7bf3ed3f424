package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/gitchat-ai/gitchat/internal/adapter/store"
	"github.com/gitchat-ai/gitchat/internal/domain"
	"github.com/gitchat-ai/gitchat/internal/middleware"
	"github.com/gitchat-ai/gitchat/internal/service"
)

// QuestionHandler handles saving and listing answered questions.
type QuestionHandler struct {
	questions *service.QuestionService
	store     *store.PostgresStore
}

// NewQuestionHandler creates a new question handler.
func NewQuestionHandler(questions *service.QuestionService, pgStore *store.PostgresStore) *QuestionHandler {
	return &QuestionHandler{questions: questions, store: pgStore}
}

// Register sets up question routes.
func (h *QuestionHandler) Register(router fiber.Router) {
	router.Post("/questions", h.Save)
	router.Get("/projects/:id/questions", h.ListByProject)
}

// Save persists a finalized question/answer pair. Duplicate answer text for
// the same project returns 409 and leaves the stored row untouched.
func (h *QuestionHandler) Save(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var body struct {
		ProjectID      string                `json:"project_id"`
		Question       string                `json:"question"`
		Answer         string                `json:"answer"`
		FileReferences []domain.RetrievalHit `json:"file_references"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	saved, err := h.questions.Save(c.Context(), uc.UserID, &domain.Question{
		ProjectID:      body.ProjectID,
		Question:       body.Question,
		Answer:         body.Answer,
		FileReferences: body.FileReferences,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(saved)
}

// ListByProject returns the saved questions for a project, newest first.
func (h *QuestionHandler) ListByProject(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	projectID := c.Params("id")
	if _, err := h.store.GetProjectByID(c.Context(), projectID); err != nil {
		return fail(c, err)
	}

	questions, err := h.questions.ListByProject(c.Context(), projectID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"questions": questions})
}
