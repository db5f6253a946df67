package domain

import "time"

// User represents a registered account. Accounts are immutable after
// registration; there are no profile edits.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
