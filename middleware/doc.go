// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging and latency metrics:

	mux.HandleFunc("GET /health", middleware.WithLogging(collector, handler))

Logs request start (method, path, remote) and completion (status,
duration_ms). The collector may be nil.

# Authentication and Roles

	mux.HandleFunc("POST /scores", middleware.WithLogging(m,
		middleware.Authenticate(resolver,
			middleware.RequireRole([]string{models.RoleConsumer, models.RoleExpert}, h.SubmitScore))))

Authenticate resolves the Authorization bearer token into an auth.Identity
stored on the request context. RequireRole answers 403 for callers outside
the listed roles.

# Errors

WriteError maps domain errors from the errs package to statuses:

	validation           400 validation_error (details lists every violation)
	unauthorized         401
	forbidden            403
	not found            404
	duplicate vote       409 duplicate_vote
	duplicate rating     409 duplicate_rating
	unique conflict      409 conflict
	voting closed        409 voting_closed
	anything else        500, logged, message hidden

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Handles X-Forwarded-For and X-Real-IP before RemoteAddr.
*/
package middleware
