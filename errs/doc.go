// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package errs holds the error kinds shared by the scoring services.

Every service returns one of the sentinels below, possibly wrapped with
fmt.Errorf("...: %w", err), so callers match with errors.Is:

  - ErrValidation: a field violates a rule or references a missing record.
    Returned as *ValidationError, which lists every violation.
  - ErrDuplicateVote: the user already holds a Score for the product.
  - ErrDuplicateRating: the user already rated that parameter of the product.
  - ErrConflict: another record already holds the unique key.
  - ErrNotFound: the id does not exist.
  - ErrUnauthorized: no identity or an invalid token.
  - ErrForbidden: the identity lacks the required role.
  - ErrVotingClosed: the product's nomination is not ACTIVE.
*/
package errs
