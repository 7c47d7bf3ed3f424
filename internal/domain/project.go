package domain

import "time"

// Project represents an indexed GitHub repository belonging to a user.
type Project struct {
	ID          string     `json:"id"         db:"id"`
	UserID      string     `json:"user_id"    db:"user_id"`
	Name        string     `json:"name"       db:"name"`
	RepoURL     string     `json:"repo_url"   db:"repo_url"`
	GithubToken string     `json:"-"          db:"github_token"` // never serialized to JSON
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// CreditQuote is the cost estimate returned before indexing a repository.
type CreditQuote struct {
	FileCount   int `json:"file_count"`
	UserCredits int `json:"user_credits"`
}
