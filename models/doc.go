// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - NominationGroup, Nomination: competition categories with lifecycle flags
  - Producer, Product: the entries being tasted
  - Parameter, Disadvantage: per-nomination criteria and flaws
  - Score: a user's overall rating of a product (one per user and product)
  - ParameterScore: a user's rating of one criterion of a product
  - Comment: free text left on a product
  - User: a participant with a role

# Request Types

Request structs carry `validate` tags consumed by the validation package.
Scores never carry a user id: the voter is the authenticated caller.

  - GroupRequest, NominationRequest, ProducerRequest, ProductRequest
  - ParameterRequest, DisadvantageRequest, CommentRequest, UserRequest
  - ScoreRequest, ParameterScoreRequest and their batch forms

# Response Types

  - CreatedResponse / BatchCreatedResponse: new ids
  - NominationProductsResponse: product listing plus visibility marker
  - ProductScoresResponse, AverageResponse: gated score views
  - NominationResultsResponse: per-product rollups
  - ErrorResponse: error code, message, optional violation details

# Constants

Roles:

	RoleConsumer = "CONSUMER"
	RoleExpert   = "EXPERT"
	RoleAdmin    = "ADMIN"

Lifecycle states (derived from the active and finished flags by StateOf):

	StateDraft    = "DRAFT"
	StateActive   = "ACTIVE"
	StateFinished = "FINISHED"

Visibility:

	VisibilityOpen   = "OPEN"
	VisibilityLocked = "LOCKED"
*/
package models
