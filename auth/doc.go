// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth resolves bearer tokens into caller identities.

# Tokens

Access tokens are HS256 JWTs whose subject is the user's email:

	verifier := auth.NewVerifier(cfg.JWTSecret)
	email, err := verifier.Subject(token)

Tokens must carry an expiry. IssueToken signs tokens for development and
tests; in production they come from the identity service.

# Identities

Resolver looks the subject up and returns an Identity with the user's id and
current role. Any failure to resolve the caller is errs.ErrUnauthorized.

	id, err := resolver.Resolve(ctx, auth.BearerToken(r.Header.Get("Authorization")))
	ctx = auth.WithIdentity(ctx, id)

Handlers read the caller back with IdentityFrom.
*/
package auth
