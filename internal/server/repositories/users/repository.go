// Package users declares the repository contract for user identity rows.
package users

import (
	"context"

	"github.com/avasiliev/authkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts a new user row. Timestamps are assigned by the store.
	Create(ctx context.Context, user *models.User) error

	// GetByLogin matches the single identifier against username or email.
	GetByLogin(ctx context.Context, login string) (*models.User, error)

	GetByUsername(ctx context.Context, username string) (*models.User, error)

	GetByID(ctx context.Context, id string) (*models.User, error)

	// FindConflict returns an existing user whose username or email collides
	// with the given pair, preferring a username match when both collide.
	// Returns a not-found error when neither field is taken.
	FindConflict(ctx context.Context, username, email string) (*models.User, error)
}
