package domain

import "time"

// Question is a saved question/answer pair with the retrieval hits that
// grounded the answer. At most one row exists per (project_id, answer).
type Question struct {
	ID             string         `json:"id"              db:"id"`
	ProjectID      string         `json:"project_id"      db:"project_id"`
	UserID         string         `json:"user_id"         db:"user_id"`
	Question       string         `json:"question"        db:"question"`
	Answer         string         `json:"answer"          db:"answer"`
	FileReferences []RetrievalHit `json:"file_references" db:"file_references"`
	CreatedAt      time.Time      `json:"created_at"      db:"created_at"`
}
