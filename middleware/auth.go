// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"slices"

	"github.com/danielhkuo/taste-champion/auth"
	"github.com/danielhkuo/taste-champion/errs"
)

// IdentityResolver turns a bearer token into a caller. *auth.Resolver satisfies it.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (auth.Identity, error)
}

// Authenticate rejects requests without a resolvable bearer token and
// stores the caller in the request context.
func Authenticate(resolver IdentityResolver, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerToken(r.Header.Get("Authorization"))
		if token == "" {
			WriteError(w, errs.ErrUnauthorized)
			return
		}
		id, err := resolver.Resolve(r.Context(), token)
		if err != nil {
			WriteError(w, err)
			return
		}
		next(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	}
}

// RequireRole lets the request through only when the caller holds one of
// roles. It must run after Authenticate.
func RequireRole(roles []string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFrom(r.Context())
		if !ok {
			WriteError(w, errs.ErrUnauthorized)
			return
		}
		if !slices.Contains(roles, id.Role) {
			WriteError(w, errs.ErrForbidden)
			return
		}
		next(w, r)
	}
}
