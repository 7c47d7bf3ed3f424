package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/gitchat-ai/gitchat/internal/adapter/store"
	"github.com/gitchat-ai/gitchat/internal/middleware"
	"github.com/gitchat-ai/gitchat/internal/port"
	"github.com/gitchat-ai/gitchat/internal/service"
)

// AnswerHandler streams retrieval-augmented answers over SSE.
type AnswerHandler struct {
	answers *service.AnswerService
	store   *store.PostgresStore
}

// NewAnswerHandler creates a new answer handler.
func NewAnswerHandler(answers *service.AnswerService, pgStore *store.PostgresStore) *AnswerHandler {
	return &AnswerHandler{answers: answers, store: pgStore}
}

// Register sets up answer routes.
func (h *AnswerHandler) Register(router fiber.Router) {
	router.Post("/projects/:id/ask", h.Ask)
}

// Ask answers a question about a project as a Server-Sent Event stream:
// one "sources" event with the file references, "chunk" events in generation
// order, then a terminal "done" or "error" event.
func (h *AnswerHandler) Ask(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	projectID := c.Params("id")

	var body struct {
		Question string `json:"question"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Question) == "" {
		return fail(c, fmt.Errorf("%w: empty question", port.ErrInvalidInput))
	}

	if _, err := h.store.GetProjectByID(c.Context(), projectID); err != nil {
		return fail(c, err)
	}

	ctx := c.Context()
	stream, err := h.answers.Ask(ctx, projectID, body.Question)
	if err != nil {
		return fail(c, err)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	return c.SendStreamWriter(func(w *bufio.Writer) {
		sources, _ := json.Marshal(stream.References())
		fmt.Fprintf(w, "event: sources\ndata: %s\n\n", sources)
		w.Flush()

		for chunk := range stream.Chunks() {
			data, _ := json.Marshal(chunk)
			fmt.Fprintf(w, "event: chunk\ndata: %s\n\n", data)
			w.Flush()
		}

		if _, err := stream.Wait(ctx); err != nil {
			if !errors.Is(err, context.Canceled) {
				slog.Error("answer stream failed", "project_id", projectID, "error", err)
			}
			data, _ := json.Marshal(fiber.Map{"error": err.Error()})
			fmt.Fprintf(w, "event: error\ndata: %s\n\n", data)
		} else {
			fmt.Fprintf(w, "event: done\ndata: {}\n\n")
		}
		w.Flush()
	})
}
