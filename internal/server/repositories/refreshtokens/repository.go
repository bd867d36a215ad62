// Package refreshtokens declares the session-store contract for persisted
// refresh tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/avasiliev/authkeeper/internal/server/models"
)

// Repository is the source of truth for whether a refresh token is still
// usable. Tokens are revoked, never deleted, so the audit trail survives.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// FindActive returns the owning user's identity iff the token exists,
	// is not revoked and has not expired. Absent, revoked and expired rows
	// are indistinguishable: all yield a not-found error.
	FindActive(ctx context.Context, token string) (*models.User, error)

	// Revoke marks the token row unusable. Revoking an unknown or already
	// revoked token is a silent no-op.
	Revoke(ctx context.Context, token string) error
}
