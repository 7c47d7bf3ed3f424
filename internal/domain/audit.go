package domain

import "time"

// AuditLog is a single request audit record.
type AuditLog struct {
	ID        string    `json:"id"         db:"id"`
	RequestID string    `json:"request_id" db:"request_id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	Action    string    `json:"action"     db:"action"`
	Resource  string    `json:"resource"   db:"resource"`
	Details   string    `json:"details"    db:"details"`
	IP        string    `json:"ip"         db:"ip"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
