package domain

import "time"

// User is a registered account. Accounts are immutable after registration;
// the credential hash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
