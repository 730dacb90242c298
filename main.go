package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/taste-champion/auth"
	"github.com/danielhkuo/taste-champion/cliparse"
	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/metrics"
	"github.com/danielhkuo/taste-champion/middleware"
	"github.com/danielhkuo/taste-champion/registry"
	"github.com/danielhkuo/taste-champion/router"
	"github.com/danielhkuo/taste-champion/validation"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		slog.Error("unsupported database", "error", err)
		os.Exit(1)
	}

	// Connect and verify
	ctx := context.Background()
	dbConn, err := db.Open(ctx, dialect, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(ctx, dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "dialect", dialect)

	if cfg.BootstrapAdminEmail != "" {
		reg := registry.New(dbConn, dialect, validation.New(), slog.Default())
		if err := reg.EnsureAdmin(ctx, cfg.BootstrapAdminEmail); err != nil {
			slog.Error("bootstrap admin failed", "error", err)
			os.Exit(1)
		}
	}

	if cfg.IssueTokenFor != "" {
		reg := registry.New(dbConn, dialect, validation.New(), slog.Default())
		token, err := auth.IssueTokenForUser(ctx, reg, cfg.JWTSecret, cfg.IssueTokenFor, cfg.TokenTTL)
		if err != nil {
			slog.Error("issue token failed", "email", cfg.IssueTokenFor, "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	// Create router
	collector := metrics.New()
	mux := router.NewRouter(dbConn, dialect, cfg, collector)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "rating_min", cfg.RatingMin, "rating_max", cfg.RatingMax)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}
