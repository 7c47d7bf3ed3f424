package domain

import "time"

// User represents an account in the system. Accounts are created by the
// external auth subsystem; this service reads them for credits and ownership.
type User struct {
	ID        string    `json:"id"         db:"id"`
	Username  string    `json:"username"   db:"username"`
	Email     string    `json:"email"      db:"email"`
	Credits   int       `json:"credits"    db:"credits"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserContext is the authenticated user context injected into request handlers.
type UserContext struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
