package models

import "time"

// RefreshToken is a persisted session record. A token is usable iff
// Revoked is false and ExpiresAt is in the future. Rows are revoked at
// logout, never deleted.
type RefreshToken struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}
