// Package auth implements the token issuer: HS256-signed access tokens
// carrying identity claims and refresh tokens carrying only a subject.
package auth

import (
	"time"

	"github.com/avasiliev/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are embedded in access tokens. They carry the full identity
// so requests can be authorized without a database lookup.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Issuer mints and verifies signed tokens. The expiry lives inside the
// token itself; no storage is consulted here.
type Issuer interface {
	IssueAccess(userID, username, email string) (string, error)
	IssueRefresh(userID string) (string, error)

	// VerifyRefresh checks signature and embedded expiry only and returns
	// the subject user id. A signature-valid but revoked token passes this
	// check; revocation is the session store's concern.
	VerifyRefresh(token string) (string, error)
}

// JWTIssuer signs tokens with HMAC-SHA256 over a shared secret.
type JWTIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (i *JWTIssuer) IssueAccess(userID, username, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:   userID,
		Username: username,
		Email:    email,
	})
	return token.SignedString(i.secret)
}

func (i *JWTIssuer) IssueRefresh(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.refreshTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	return token.SignedString(i.secret)
}

func (i *JWTIssuer) VerifyRefresh(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return "", common.ErrInvalidOrExpiredToken
	}

	return claims.Subject, nil
}

// ParseAccess validates an access token and returns its identity claims.
// Intended for embedding callers that authorize requests with the tokens
// this issuer mints.
func (i *JWTIssuer) ParseAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidOrExpiredToken
	}

	return claims, nil
}
