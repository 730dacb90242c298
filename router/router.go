// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/taste-champion/auth"
	"github.com/danielhkuo/taste-champion/cliparse"
	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/handlers"
	"github.com/danielhkuo/taste-champion/metrics"
	"github.com/danielhkuo/taste-champion/middleware"
	"github.com/danielhkuo/taste-champion/models"
	"github.com/danielhkuo/taste-champion/registry"
	"github.com/danielhkuo/taste-champion/validation"
)

var (
	anyRole         = []string{models.RoleConsumer, models.RoleExpert, models.RoleAdmin}
	adminOnly       = []string{models.RoleAdmin}
	voters          = []string{models.RoleConsumer, models.RoleExpert}
	expertOnly      = []string{models.RoleExpert}
	consumerOnly    = []string{models.RoleConsumer}
	expertOrAdmin   = []string{models.RoleExpert, models.RoleAdmin}
	consumerOrAdmin = []string{models.RoleConsumer, models.RoleAdmin}
)

// NewRouter wires every endpoint. m may be nil, in which case /metrics is
// not served.
func NewRouter(conn *sql.DB, dialect db.Dialect, cfg cliparse.Config, m *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(conn, dialect, cfg, m)
	resultsHandler := handlers.NewResultsHandler(conn, dialect, cfg, m)
	nominationHandler := handlers.NewNominationHandler(conn, dialect, cfg, m)
	catalogHandler := handlers.NewCatalogHandler(conn, dialect, cfg, m)
	userHandler := handlers.NewUserHandler(conn, dialect, cfg, m)
	commentHandler := handlers.NewCommentHandler(conn, dialect, cfg, m)

	resolver := auth.NewResolver(
		auth.NewVerifier(cfg.JWTSecret),
		registry.New(conn, dialect, validation.New(), slog.Default()),
	)

	// route registers an authenticated endpoint restricted to roles.
	route := func(pattern string, roles []string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(m,
			middleware.Authenticate(resolver, middleware.RequireRole(roles, h))))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	// Caller
	route("GET /me", anyRole, userHandler.GetMe)

	// Users
	route("POST /users", adminOnly, userHandler.CreateUser)
	route("GET /users", adminOnly, userHandler.ListUsers)
	route("GET /users/{id}", adminOnly, userHandler.GetUser)
	route("PUT /users/{id}", adminOnly, userHandler.UpdateUser)
	route("DELETE /users/{id}", adminOnly, userHandler.DeleteUser)
	route("GET /users/{id}/comments", adminOnly, commentHandler.ListUserComments)
	route("GET /users/{id}/scores", adminOnly, votingHandler.ListUserScores)
	route("GET /users/{id}/parameter-scores", adminOnly, votingHandler.ListUserParameterScores)

	// Producers
	route("POST /producers", adminOnly, catalogHandler.CreateProducer)
	route("GET /producers", adminOnly, catalogHandler.ListProducers)
	route("GET /producers/{id}", adminOnly, catalogHandler.GetProducer)
	route("PUT /producers/{id}", adminOnly, catalogHandler.UpdateProducer)
	route("DELETE /producers/{id}", adminOnly, catalogHandler.DeleteProducer)
	route("GET /producers/{id}/products", adminOnly, catalogHandler.ListProducerProducts)

	// Products
	route("POST /products", adminOnly, catalogHandler.CreateProduct)
	route("GET /products", adminOnly, catalogHandler.ListProducts)
	route("GET /products/{id}", adminOnly, catalogHandler.GetProduct)
	route("PUT /products/{id}", adminOnly, catalogHandler.UpdateProduct)
	route("DELETE /products/{id}", adminOnly, catalogHandler.DeleteProduct)
	route("GET /products/{id}/comments", adminOnly, commentHandler.ListProductComments)
	route("GET /products/{id}/parameter-scores", adminOnly, votingHandler.ListProductParameterScores)
	route("GET /products/{id}/rollup", adminOnly, resultsHandler.GetProductRollup)

	// Gated score views
	route("GET /products/{id}/scores", anyRole, resultsHandler.GetProductScores)
	route("GET /products/{id}/scores/average", anyRole, resultsHandler.GetProductAverage)
	route("GET /products/{id}/visibility", anyRole, resultsHandler.GetProductVisibility)

	// Nomination groups
	route("POST /groups", adminOnly, nominationHandler.CreateGroup)
	route("GET /groups", anyRole, nominationHandler.ListGroups)
	route("GET /groups/{id}", anyRole, nominationHandler.GetGroup)
	route("PUT /groups/{id}", adminOnly, nominationHandler.UpdateGroup)
	route("DELETE /groups/{id}", adminOnly, nominationHandler.DeleteGroup)
	route("GET /groups/{id}/nominations", anyRole, nominationHandler.ListGroupNominations)
	route("PUT /groups/{id}/{transition}", adminOnly, nominationHandler.TransitionGroup)

	// Nominations
	route("POST /nominations", adminOnly, nominationHandler.CreateNomination)
	route("GET /nominations", anyRole, nominationHandler.ListNominations)
	route("GET /nominations/{id}", anyRole, nominationHandler.GetNomination)
	route("PUT /nominations/{id}", adminOnly, nominationHandler.UpdateNomination)
	route("DELETE /nominations/{id}", adminOnly, nominationHandler.DeleteNomination)
	route("PUT /nominations/{id}/{transition}", adminOnly, nominationHandler.TransitionNomination)
	route("GET /nominations/{id}/products", anyRole, resultsHandler.GetNominationProducts)
	route("GET /nominations/{id}/number-of-voters", adminOnly, resultsHandler.GetVoterCount)
	route("GET /nominations/{id}/results", adminOnly, resultsHandler.GetNominationResults)
	route("GET /nominations/{id}/parameters", expertOrAdmin, nominationHandler.ListNominationParameters)
	route("GET /nominations/{id}/disadvantages", consumerOrAdmin, nominationHandler.ListNominationDisadvantages)

	// Parameters
	route("POST /parameters", adminOnly, nominationHandler.CreateParameter)
	route("GET /parameters", adminOnly, nominationHandler.ListParameters)
	route("GET /parameters/{id}", adminOnly, nominationHandler.GetParameter)
	route("PUT /parameters/{id}", adminOnly, nominationHandler.UpdateParameter)
	route("DELETE /parameters/{id}", adminOnly, nominationHandler.DeleteParameter)

	// Disadvantages
	route("POST /disadvantages", adminOnly, nominationHandler.CreateDisadvantage)
	route("GET /disadvantages", adminOnly, nominationHandler.ListDisadvantages)
	route("GET /disadvantages/{id}", adminOnly, nominationHandler.GetDisadvantage)
	route("PUT /disadvantages/{id}", adminOnly, nominationHandler.UpdateDisadvantage)
	route("DELETE /disadvantages/{id}", adminOnly, nominationHandler.DeleteDisadvantage)

	// Scores
	route("POST /scores", voters, votingHandler.SubmitScore)
	route("POST /scores/batch", voters, votingHandler.SubmitScoreBatch)
	route("GET /scores", adminOnly, votingHandler.ListScores)
	route("GET /scores/{id}", adminOnly, votingHandler.GetScore)
	route("PUT /scores/{id}", adminOnly, votingHandler.UpdateScore)
	route("DELETE /scores/{id}", adminOnly, votingHandler.DeleteScore)

	// Parameter scores
	route("POST /parameter-scores", expertOnly, votingHandler.SubmitParameterScore)
	route("POST /parameter-scores/batch", expertOnly, votingHandler.SubmitParameterScoreBatch)
	route("GET /parameter-scores", adminOnly, votingHandler.ListParameterScores)
	route("GET /parameter-scores/{id}", adminOnly, votingHandler.GetParameterScore)
	route("PUT /parameter-scores/{id}", adminOnly, votingHandler.UpdateParameterScore)
	route("DELETE /parameter-scores/{id}", adminOnly, votingHandler.DeleteParameterScore)

	// Comments
	route("POST /comments", consumerOnly, commentHandler.CreateComment)
	route("POST /comments/batch", consumerOnly, commentHandler.CreateComments)
	route("GET /comments", adminOnly, commentHandler.ListComments)
	route("GET /comments/{id}", adminOnly, commentHandler.GetComment)
	route("PUT /comments/{id}", adminOnly, commentHandler.UpdateComment)
	route("DELETE /comments/{id}", adminOnly, commentHandler.DeleteComment)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("taste-champion API v1"))
	})

	return mux
}
