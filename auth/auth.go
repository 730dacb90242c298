// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danielhkuo/taste-champion/errs"
	"github.com/danielhkuo/taste-champion/models"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

func (i Identity) IsAdmin() bool  { return i.Role == models.RoleAdmin }
func (i Identity) IsExpert() bool { return i.Role == models.RoleExpert }

// Claims carried by access tokens. The subject is the user's email.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 access tokens.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Subject verifies token and returns its subject.
func (v *Verifier) Subject(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// IssueToken signs a token for email. Production tokens come from the
// identity service; this exists for development and tests.
func IssueToken(secret, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// IssueTokenForUser signs a token for a registered user, carrying the role
// stored for them. Unknown emails return errs.ErrNotFound.
func IssueTokenForUser(ctx context.Context, users UserLookup, secret, email string, ttl time.Duration) (string, error) {
	user, err := users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return IssueToken(secret, user.Email, user.Role, ttl)
}

// UserLookup finds a user by email.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// Resolver turns a bearer token into an Identity.
type Resolver struct {
	verifier *Verifier
	users    UserLookup
}

func NewResolver(verifier *Verifier, users UserLookup) *Resolver {
	return &Resolver{verifier: verifier, users: users}
}

// Resolve returns errs.ErrUnauthorized for any token or lookup failure
// other than a store error.
func (r *Resolver) Resolve(ctx context.Context, token string) (Identity, error) {
	email, err := r.verifier.Subject(token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", errs.ErrUnauthorized, err)
	}

	user, err := r.users.GetUserByEmail(ctx, email)
	if errors.Is(err, errs.ErrNotFound) {
		return Identity{}, fmt.Errorf("%w: unknown user", errs.ErrUnauthorized)
	}
	if err != nil {
		return Identity{}, err
	}

	return Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom returns the caller stored in ctx, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok && id.UserID != ""
}
