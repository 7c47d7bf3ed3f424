package domain

import "time"

// Commit is a summarized repository commit produced by the external
// commit-polling subsystem. This service only reads them.
type Commit struct {
	ID           string    `json:"id"            db:"id"`
	ProjectID    string    `json:"project_id"    db:"project_id"`
	Hash         string    `json:"hash"          db:"hash"`
	Message      string    `json:"message"       db:"message"`
	AuthorName   string    `json:"author_name"   db:"author_name"`
	AuthorAvatar string    `json:"author_avatar" db:"author_avatar"`
	Summary      string    `json:"summary"       db:"summary"`
	Date         time.Time `json:"date"          db:"date"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
}
