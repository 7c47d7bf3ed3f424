package domain

import "time"

// SourceEmbedding is a per-file embedding row written by the indexing
// subsystem and read-only to this service. One row per (project_id, filename).
type SourceEmbedding struct {
	ID               string    `json:"id"          db:"id"`
	ProjectID        string    `json:"project_id"  db:"project_id"`
	Filename         string    `json:"filename"    db:"filename"`
	SourceCode       string    `json:"source_code" db:"source_code"`
	Summary          string    `json:"summary"     db:"summary"`
	SummaryEmbedding []float32 `json:"-"           db:"summary_embedding"`
	CreatedAt        time.Time `json:"created_at"  db:"created_at"`
}

// RetrievalHit is returned by semantic search, ranked by cosine similarity.
// It lives for the duration of one answer request (or as a snapshot inside a
// saved question) and is never stored on its own.
type RetrievalHit struct {
	Filename   string  `json:"filename"`
	SourceCode string  `json:"source_code"`
	Summary    string  `json:"summary"`
	Similarity float64 `json:"similarity"`
}

// RepoEntryType distinguishes files from directories in a contents listing.
type RepoEntryType string

const (
	RepoEntryFile RepoEntryType = "file"
	RepoEntryDir  RepoEntryType = "dir"
)

// RepoEntry is a single item in a remote repository contents listing.
type RepoEntry struct {
	Path string        `json:"path"`
	Type RepoEntryType `json:"type"`
}
