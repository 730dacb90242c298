// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger records scores and per-parameter ratings.

# Uniqueness

A user holds at most one Score per product and at most one ParameterScore
per (product, parameter). Submissions are checked inside a transaction and
the store's unique indexes settle races: when two writers insert the same key
concurrently, the loser's constraint error is translated into
errs.ErrDuplicateVote or errs.ErrDuplicateRating.

# Batches

	ids, err := l.SubmitParameterScoreBatch(ctx, sheet)

Every item is validated (rating range, referenced records, voting window,
existing rows, repeated keys within the batch) before anything is inserted.
Items are checked in order and the first violation aborts the whole batch;
nothing is written.

# Voting window

With Options.Window set, a product whose nomination the window reports
closed is rejected with errs.ErrVotingClosed after the item's own validation
passes. lifecycle.Machine is the window in production. Products without a
nomination always accept votes.

# Updates

Updates change the value only. Product, parameter, user and the role
snapshot stay as stored.
*/
package ledger
