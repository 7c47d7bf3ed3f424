package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/gitchat-ai/gitchat/internal/port"
)

// fail maps port sentinel errors to HTTP statuses. Unrecognized errors are
// internal; collaborator failures map to 502 so callers can tell a broken
// upstream from a broken request.
func fail(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, port.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, port.ErrInvalidInput), errors.Is(err, port.ErrInvalidRepository):
		status = fiber.StatusBadRequest
	case errors.Is(err, port.ErrProjectNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, port.ErrDuplicateAnswer), errors.Is(err, port.ErrDuplicateProject):
		status = fiber.StatusConflict
	case errors.Is(err, port.ErrEmbedding), errors.Is(err, port.ErrGeneration), errors.Is(err, port.ErrRepositoryAccess):
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
