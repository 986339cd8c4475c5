// Package main is the entry point for the portfolio server.
//
// MAIN PACKAGE IN GO:
// Every Go program starts execution in the main() function of the "main"
// package. The main package is kept minimal — its job is to:
//  1. Read configuration (env vars, optionally a .env file)
//  2. Create dependencies (logger)
//  3. Start the application
//
// All actual logic lives in imported packages (internal/server and below).
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/adupont/portfolio/internal/email"
	"github.com/adupont/portfolio/internal/server"
)

// envOr returns the environment variable's value, or the fallback when it
// is unset or empty.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// === 1. LOGGING ===
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// === 2. CONFIGURATION ===
	// A local .env file is a convenience for development; in production the
	// variables come from the real environment. Missing file is not an error.
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded configuration from .env")
	}

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	sessionDuration := time.Duration(0) // zero = server default (24h)
	if durStr := os.Getenv("SESSION_DURATION"); durStr != "" {
		var err error
		sessionDuration, err = time.ParseDuration(durStr)
		if err != nil {
			logger.Error("invalid SESSION_DURATION value, expected e.g. 24h or 90m",
				slog.String("value", durStr))
			os.Exit(1)
		}
	}

	// === 3. DATABASE PATH ===
	// DB_PATH overrides for deployments, e.g. DB_PATH=/var/lib/portfolio/prod.db.
	dbPath := envOr("DB_PATH", "data/portfolio.db")
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 4. ASSEMBLE AND START ===
	cfg := server.Config{
		Port:            port,
		DBPath:          dbPath,
		StaticDir:       os.Getenv("STATIC_DIR"),
		SessionDuration: sessionDuration,
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		Email: email.Config{
			ServiceID:  os.Getenv("EMAILJS_SERVICE_ID"),
			TemplateID: os.Getenv("EMAILJS_TEMPLATE_ID"),
			PublicKey:  os.Getenv("EMAILJS_PUBLIC_KEY"),
		},
		SaveSinkURL: os.Getenv("SAVE_SINK_URL"),
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
