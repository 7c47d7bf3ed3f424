package handler

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/gitchat-ai/gitchat/internal/adapter/store"
	"github.com/gitchat-ai/gitchat/internal/domain"
	"github.com/gitchat-ai/gitchat/internal/middleware"
	"github.com/gitchat-ai/gitchat/internal/port"
	"github.com/gitchat-ai/gitchat/internal/service"
)

var (
	githubRepoURLRe = regexp.MustCompile(`^https://github\.com/[\w.-]+/[\w.-]+$`)
	githubTokenRe   = regexp.MustCompile(`^[a-zA-Z0-9_-]{40}$`)
)

// ProjectHandler handles project lifecycle, commit listing and cost quotes.
type ProjectHandler struct {
	store     *store.PostgresStore
	estimator *service.Estimator
	poller    port.CommitPoller
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(pgStore *store.PostgresStore, estimator *service.Estimator, poller port.CommitPoller) *ProjectHandler {
	return &ProjectHandler{store: pgStore, estimator: estimator, poller: poller}
}

// Register sets up project routes.
func (h *ProjectHandler) Register(router fiber.Router) {
	projects := router.Group("/projects")
	projects.Post("/", h.Create)
	projects.Get("/", h.List)
	projects.Post("/check-credits", h.CheckCredits)
	projects.Patch("/:id/archive", h.Archive)
	projects.Get("/:id/commits", h.ListCommits)
}

// Create registers a new project for the authenticated user and kicks off
// indexing through the external indexer.
func (h *ProjectHandler) Create(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var body struct {
		Name        string `json:"name"`
		RepoURL     string `json:"repo_url"`
		GithubToken string `json:"github_token"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	body.Name = strings.TrimSpace(body.Name)
	body.RepoURL = strings.TrimSpace(body.RepoURL)
	if body.Name == "" || len(body.Name) > 25 {
		return fail(c, fmt.Errorf("%w: project name must be 1-25 characters", port.ErrInvalidInput))
	}
	if !githubRepoURLRe.MatchString(body.RepoURL) {
		return fail(c, fmt.Errorf("%w: provide a valid repo URL", port.ErrInvalidInput))
	}
	if body.GithubToken != "" && !githubTokenRe.MatchString(body.GithubToken) {
		return fail(c, fmt.Errorf("%w: provide a valid access token", port.ErrInvalidInput))
	}

	existing, err := h.store.FindProjectByUserAndRepo(c.Context(), uc.UserID, body.RepoURL)
	if err != nil {
		return fail(c, err)
	}
	if existing != nil {
		return fail(c, fmt.Errorf("%w: %s", port.ErrDuplicateProject, body.RepoURL))
	}

	project, err := h.store.CreateProject(c.Context(), &domain.Project{
		UserID:      uc.UserID,
		Name:        body.Name,
		RepoURL:     body.RepoURL,
		GithubToken: body.GithubToken,
	})
	if err != nil {
		return fail(c, err)
	}

	h.triggerPoll(project.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"project": project})
}

// List returns the authenticated user's projects, newest first.
func (h *ProjectHandler) List(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	projects, err := h.store.ListProjectsByUser(c.Context(), uc.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"projects": projects})
}

// Archive soft-deletes a project owned by the caller.
func (h *ProjectHandler) Archive(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	project, err := h.store.GetProjectByID(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if project.UserID != uc.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your project"})
	}

	if err := h.store.ArchiveProject(c.Context(), project.ID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// CheckCredits quotes the indexing cost of a repository: its file count,
// alongside the caller's current credit balance (read-only).
func (h *ProjectHandler) CheckCredits(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var body struct {
		RepoURL string `json:"repo_url"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	owner, repo, err := service.ParseRepoURL(body.RepoURL)
	if err != nil {
		return fail(c, err)
	}

	fileCount, err := h.estimator.Estimate(c.Context(), owner, repo)
	if err != nil {
		return fail(c, err)
	}

	credits, err := h.store.GetUserCredits(c.Context(), uc.UserID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(domain.CreditQuote{FileCount: fileCount, UserCredits: credits})
}

// ListCommits returns stored commits for a project and asynchronously asks
// the indexer to poll for new ones.
func (h *ProjectHandler) ListCommits(c fiber.Ctx) error {
	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	project, err := h.store.GetProjectByID(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	commits, err := h.store.ListCommitsByProject(c.Context(), project.ID)
	if err != nil {
		return fail(c, err)
	}

	h.triggerPoll(project.ID)

	return c.JSON(fiber.Map{"commits": commits})
}

// triggerPoll fires the external commit poller without blocking the request.
func (h *ProjectHandler) triggerPoll(projectID string) {
	if h.poller == nil {
		return
	}
	go func() {
		if err := h.poller.PollCommits(context.Background(), projectID); err != nil {
			slog.Warn("commit poll trigger failed", "project_id", projectID, "error", err)
		}
	}()
}
