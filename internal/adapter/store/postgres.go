package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gitchat-ai/gitchat/internal/domain"
	"github.com/gitchat-ai/gitchat/internal/port"
)

// PostgresStore handles all relational database operations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// --- Users ---

// GetUserByID retrieves a user by ID.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, username, email, credits, created_at, updated_at
	          FROM users WHERE id = $1`

	var u domain.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.Credits, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// GetUserCredits returns the credit balance for a user. The balance is read
// for cost quotes only; this service never mutates it.
func (s *PostgresStore) GetUserCredits(ctx context.Context, userID string) (int, error) {
	var credits int
	err := s.db.QueryRowContext(ctx, `SELECT credits FROM users WHERE id = $1`, userID).Scan(&credits)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get user credits: %w", err)
	}
	return credits, nil
}

// --- Projects ---

// CreateProject inserts a new project record.
func (s *PostgresStore) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	query := `INSERT INTO projects (user_id, name, repo_url, github_token)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, user_id, name, repo_url, github_token, deleted_at, created_at, updated_at`

	var created domain.Project
	err := s.db.QueryRowContext(ctx, query,
		p.UserID, p.Name, p.RepoURL, p.GithubToken,
	).Scan(
		&created.ID, &created.UserID, &created.Name, &created.RepoURL,
		&created.GithubToken, &created.DeletedAt, &created.CreatedAt, &created.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: %s", port.ErrDuplicateProject, p.RepoURL)
	}
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &created, nil
}

// GetProjectByID returns a project by its ID.
func (s *PostgresStore) GetProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT id, user_id, name, repo_url, github_token, deleted_at, created_at, updated_at
	          FROM projects WHERE id = $1`

	var p domain.Project
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Name, &p.RepoURL, &p.GithubToken,
		&p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", port.ErrProjectNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// FindProjectByUserAndRepo returns the user's project for a repo URL, or nil.
func (s *PostgresStore) FindProjectByUserAndRepo(ctx context.Context, userID, repoURL string) (*domain.Project, error) {
	query := `SELECT id, user_id, name, repo_url, github_token, deleted_at, created_at, updated_at
	          FROM projects WHERE user_id = $1 AND repo_url = $2`

	var p domain.Project
	err := s.db.QueryRowContext(ctx, query, userID, repoURL).Scan(
		&p.ID, &p.UserID, &p.Name, &p.RepoURL, &p.GithubToken,
		&p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	return &p, nil
}

// ListProjectsByUser returns the user's non-archived projects, newest first.
func (s *PostgresStore) ListProjectsByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	query := `SELECT id, user_id, name, repo_url, github_token, deleted_at, created_at, updated_at
	          FROM projects WHERE user_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.RepoURL, &p.GithubToken,
			&p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ArchiveProject soft-deletes a project by setting deleted_at.
func (s *PostgresStore) ArchiveProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE projects SET deleted_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("archive project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", port.ErrProjectNotFound, id)
	}
	return nil
}

// --- Commits ---

// ListCommitsByProject returns stored commits for a project, newest first.
// Rows are written by the external commit-polling subsystem.
func (s *PostgresStore) ListCommitsByProject(ctx context.Context, projectID string) ([]domain.Commit, error) {
	query := `SELECT id, project_id, hash, message, author_name, author_avatar, summary, date, created_at
	          FROM commits WHERE project_id = $1 ORDER BY date DESC`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}
	defer rows.Close()

	var commits []domain.Commit
	for rows.Next() {
		var c domain.Commit
		if err := rows.Scan(
			&c.ID, &c.ProjectID, &c.Hash, &c.Message, &c.AuthorName,
			&c.AuthorAvatar, &c.Summary, &c.Date, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan commit: %w", err)
		}
		commits = append(commits, c)
	}
	return commits, rows.Err()
}

// --- Audit Logs ---

// WriteAudit implements middleware.AuditWriter.
func (s *PostgresStore) WriteAudit(requestID, userID, action, resource, details, ip, userAgent string) error {
	query := `INSERT INTO audit_logs (request_id, user_id, action, resource, details, ip, user_agent)
	          VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)`
	_, err := s.db.ExecContext(context.Background(), query,
		requestID, userID, action, resource, details, ip, userAgent,
	)
	return err
}
