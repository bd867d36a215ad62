// Package password wraps the one-way password hashing primitive behind a
// small interface, so the primitive can be swapped without touching the
// services that use it.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher produces and checks one-way password hashes.
type Hasher interface {
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. A mismatch returns
	// false, never an error.
	Verify(password, hash string) bool
}

// BcryptHasher hashes with bcrypt at a fixed cost. Every call salts
// independently, so hashing the same input twice yields different hashes.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
