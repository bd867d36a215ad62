package models

import "time"

// User is the durable identity record. Username and email are each unique
// across all users.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
