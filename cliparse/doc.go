// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse reads the server configuration.

Values come from, in increasing precedence: built-in defaults, a .env file
(-env-file, default ".env", optional), environment variables, and flags.

	-p                PORT                   (default 3318)
	-d                DATABASE_URL           (required)
	-t                DATABASE_TYPE          sqlite or postgres (default sqlite)
	-jwt-secret       JWT_SECRET             (required)
	                  TOKEN_TTL              lifetime of issued tokens (default 72h)
	-rating-min       RATING_MIN             (default 1)
	-rating-max       RATING_MAX             (default 10)
	-log-level        LOG_LEVEL              (default info)
	-bootstrap-admin  BOOTSTRAP_ADMIN_EMAIL  (optional)
*/
package cliparse
