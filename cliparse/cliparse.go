// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         int    `env:"PORT" envDefault:"3318"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"72h"`

	RatingMin int `env:"RATING_MIN" envDefault:"1"`
	RatingMax int `env:"RATING_MAX" envDefault:"10"`

	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`
	BootstrapAdminEmail string `env:"BOOTSTRAP_ADMIN_EMAIL"`

	// IssueTokenFor is flag-only: print a token for this email and exit.
	IssueTokenFor string
}

// ParseFlags builds the configuration. Precedence, lowest first: defaults,
// the .env file, the process environment, command-line flags.
func ParseFlags(args []string) (Config, error) {
	envFile := ".env"
	for i, a := range args {
		if (a == "-env-file" || a == "--env-file") && i+1 < len(args) {
			envFile = args[i+1]
		}
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	flags := flag.NewFlagSet("taste-champion", flag.ContinueOnError)
	flags.String("env-file", envFile, "Path to a .env file")

	// Network config (can be CLI args or env)
	flags.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	flags.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Token signing secret (prefer env)")
	flags.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "Lifetime of tokens printed by -issue-token")
	flags.StringVar(&cfg.IssueTokenFor, "issue-token", "", "Print an access token for this user's email and exit")

	flags.IntVar(&cfg.RatingMin, "rating-min", cfg.RatingMin, "Lowest accepted score")
	flags.IntVar(&cfg.RatingMax, "rating-max", cfg.RatingMax, "Highest accepted score")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.BootstrapAdminEmail, "bootstrap-admin", cfg.BootstrapAdminEmail, "Create an admin with this email on startup")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.DatabaseType != "sqlite" && c.DatabaseType != "postgres" {
		return fmt.Errorf("unsupported database type %q", c.DatabaseType)
	}
	// Secrets - MUST be provided
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive, got %v", c.TokenTTL)
	}
	if c.RatingMin >= c.RatingMax {
		return fmt.Errorf("rating range %d..%d is empty", c.RatingMin, c.RatingMax)
	}
	if c.RatingMin < -32768 || c.RatingMax > 32767 {
		return errors.New("rating range must fit in a 16-bit integer")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}
