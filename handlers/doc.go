// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Taste Champion API.

# Handler Types

Each handler is a struct built over the shared connection pool and config:

  - VotingHandler: score and parameter score submission and maintenance
  - ResultsHandler: gated score views, voter counts, rollups
  - NominationHandler: groups, nominations, parameters, disadvantages, lifecycle
  - CatalogHandler: producers and products
  - UserHandler: accounts and /me
  - CommentHandler: comments

	votingHandler := handlers.NewVotingHandler(conn, db.SQLite, cfg, collector)

Handlers read the caller from the request context (see middleware.Authenticate)
and never from the request body.

# Voting

	POST /scores                  → SubmitScore (consumer, expert)
	POST /scores/batch            → SubmitScoreBatch
	POST /parameter-scores        → SubmitParameterScore (expert)
	POST /parameter-scores/batch  → SubmitParameterScoreBatch

A voter holds at most one score per product and one rating per product and
parameter; repeats answer 409 duplicate_vote / duplicate_rating. Batches are
all-or-nothing. Products in a nomination that is not ACTIVE answer 409
voting_closed. The expert flag of a score is taken from the caller's role at
submission time.

# Visibility

	GET /products/{id}/scores          → vote count, scores only when OPEN
	GET /products/{id}/scores/average  → average only when OPEN
	GET /nominations/{id}/products     → product list with a visibility marker

A caller who has not scored a product (the nomination's first product for
listings) sees LOCKED once anyone else has. Admins always see OPEN.

Nominations that are not ACTIVE, and everything under them, answer 404 for
consumers and experts.

# Lifecycle

	PUT /nominations/{id}/{activate|deactivate|finish|start}
	PUT /groups/{id}/{activate|deactivate|finish|start}

Transitions are idempotent and return the resulting state. Groups and
nominations are independent.
*/
package handlers
