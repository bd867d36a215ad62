// Package services contains server-side business logic. This file implements
// AuthService, which coordinates the credential verifier, token issuer and
// session store to handle registration, login, token refresh, logout and
// user lookup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avasiliev/authkeeper/internal/common"
	"github.com/avasiliev/authkeeper/internal/dbx"
	"github.com/avasiliev/authkeeper/internal/server/auth"
	"github.com/avasiliev/authkeeper/internal/server/config"
	"github.com/avasiliev/authkeeper/internal/server/metrics"
	"github.com/avasiliev/authkeeper/internal/server/models"
	"github.com/avasiliev/authkeeper/internal/server/password"
	"github.com/avasiliev/authkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 128
	minPasswordLength = 8
)

// LoginResult bundles the authenticated user with a fresh token pair.
type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// RefreshResult carries a new access token and the identity it was minted for.
// The refresh token is not re-issued: the one presented stays valid until its
// expiry or an explicit logout. Rotation-on-use would harden this.
type RefreshResult struct {
	User        *models.User
	AccessToken string
}

// AuthService provides the authentication operations:
//   - Register: create users
//   - Login: verify credentials and mint token pairs
//   - Refresh: mint new access tokens against a stored refresh token
//   - Logout: revoke a session
//   - GetUserByID: fetch current identity
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	hasher                       password.Hasher
	issuer                       auth.Issuer
	refreshTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService from its collaborators and server
// config. The store handle is injected here; there is no lazy global pool.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, h password.Hasher, i auth.Issuer, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		hasher:                       h,
		issuer:                       i,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new user. The duplicate check, insert and re-fetch run
// in one transaction; the UNIQUE constraints on username and email back the
// check up, so a registration that loses the check-then-insert race still
// reports which field collided instead of a bare constraint fault.
func (s *AuthService) Register(ctx context.Context, username, email, pw string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateRegistration(username, email, pw); err != nil {
		metrics.RegisterTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	var created *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		existing, err := repo.FindConflict(ctx, username, email)
		if err == nil {
			if existing.UserName == username {
				return common.ErrDuplicateUsername
			}
			return common.ErrDuplicateEmail
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking existing user: %w", err)
		}

		hash, err := s.hasher.Hash(pw)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}

		user := &models.User{
			ID:           uuid.NewString(),
			UserName:     username,
			Email:        email,
			PasswordHash: hash,
		}
		if err := repo.Create(ctx, user); err != nil {
			return translateUniqueViolation(err)
		}

		// Re-fetch so the caller gets the canonical row with
		// store-assigned timestamps.
		created, err = repo.GetByUsername(ctx, username)
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrCreationFailed
		}
		return err
	})
	if err != nil {
		metrics.RegisterTotal.WithLabelValues("fail").Inc()
		return nil, err
	}

	metrics.RegisterTotal.WithLabelValues("ok").Inc()
	return created, nil
}

// Login verifies the supplied credentials and, on success, mints an access
// token and a refresh token and persists the latter. The identifier matches
// either username or email. Unknown identifier and wrong password yield the
// same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, login, pw string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByLogin(ctx, strings.ToLower(strings.TrimSpace(login)))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			metrics.LoginTotal.WithLabelValues("invalid").Inc()
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(pw, user.PasswordHash) {
		metrics.LoginTotal.WithLabelValues("invalid").Inc()
		return nil, common.ErrInvalidCredentials
	}

	accessToken, err := s.issuer.IssueAccess(user.ID, user.UserName, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}

	refreshToken, err := s.issuer.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing refresh token: %w", err)
	}

	refreshRepo := s.repomanager.RefreshTokens(s.db)
	if err := refreshRepo.Create(ctx, user.ID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	metrics.LoginTotal.WithLabelValues("ok").Inc()
	metrics.IssuedTokens.WithLabelValues("access").Inc()
	metrics.IssuedTokens.WithLabelValues("refresh").Inc()

	return &LoginResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh mints a new access token against a previously issued refresh token.
// The signature/expiry check on the token itself precedes the store lookup;
// a signature-valid but revoked token still fails the store check.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, common.ErrMissingToken
	}

	if _, err := s.issuer.VerifyRefresh(refreshToken); err != nil {
		metrics.RefreshTotal.WithLabelValues("invalid").Inc()
		return nil, common.ErrInvalidOrExpiredToken
	}

	repo := s.repomanager.RefreshTokens(s.db)
	user, err := repo.FindActive(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			metrics.RefreshTotal.WithLabelValues("invalid").Inc()
			return nil, common.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	// Identity claims come from the store record; the refresh token itself
	// carries only the subject.
	accessToken, err := s.issuer.IssueAccess(user.ID, user.UserName, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}

	metrics.RefreshTotal.WithLabelValues("ok").Inc()
	metrics.IssuedTokens.WithLabelValues("access").Inc()

	return &RefreshResult{User: user, AccessToken: accessToken}, nil
}

// Logout revokes the session for the given refresh token. An absent token,
// an unknown token and a repeated logout are all silent no-ops.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}

	metrics.LogoutTotal.WithLabelValues("ok").Inc()
	return nil
}

// GetUserByID fetches the current identity record by id.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

func validateRegistration(username, email, pw string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be between %d and %d characters",
			common.ErrorValidation, minUsernameLength, maxUsernameLength)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(pw) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters",
			common.ErrorValidation, minPasswordLength)
	}
	return nil
}

// translateUniqueViolation maps PostgreSQL unique-violation faults onto the
// duplicate errors by constraint name. Anything else stays an infrastructure
// error.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "username"):
			return common.ErrDuplicateUsername
		case strings.Contains(pgErr.ConstraintName, "email"):
			return common.ErrDuplicateEmail
		}
	}
	return fmt.Errorf("error creating user: %w", err)
}
