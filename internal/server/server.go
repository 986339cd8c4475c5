// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and
// routes. It is the composition root: every dependency chain in the app is
// assembled here, in one place, rather than scattered across the codebase.
//
// DEPENDENCY CHAIN:
//
//	sqlite.DB ──► store.Store ──► handlers (portfolio, contact, admin)
//	    │             ▲
//	    │             └── savesink.Client (optional snapshot mirror)
//	    └──────► auth.SessionManager ──► auth handlers + RequireAdmin
//	imaging.Service ──► image handler
//	email.Client ──► service.ContactService ──► contact handler
//
// Each layer only receives what it needs: handlers never touch the database,
// the store never touches HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/adupont/portfolio/internal/auth"
	"github.com/adupont/portfolio/internal/email"
	"github.com/adupont/portfolio/internal/handler"
	"github.com/adupont/portfolio/internal/imaging"
	"github.com/adupont/portfolio/internal/middleware"
	sqliteRepo "github.com/adupont/portfolio/internal/repository/sqlite"
	"github.com/adupont/portfolio/internal/savesink"
	"github.com/adupont/portfolio/internal/service"
	"github.com/adupont/portfolio/internal/store"
)

// Config holds server configuration. Zero values mean "use the default":
// an empty StaticDir disables static serving, an empty SaveSinkURL disables
// snapshot mirroring, a zero SessionDuration falls back to 24 hours.
type Config struct {
	Port      int
	DBPath    string
	StaticDir string

	// Admin session settings.
	SessionDuration time.Duration
	AdminPassword   string // initial password; a warning is logged if unset

	// Outbound bridges.
	Email       email.Config
	SaveSinkURL string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain and registers all routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes wires dependencies and registers every route.
//
// MIDDLEWARE ORDER MATTERS — it executes in registration order:
//  1. RequestID — assigns a unique ID to each request (for tracing)
//  2. RealIP — extracts the real client IP from proxy headers
//  3. Recoverer — catches panics and returns 500 instead of crashing
//  4. Logger — logs each request with timing info
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Data layer ===
	var sink store.Sink
	if s.config.SaveSinkURL != "" {
		sink = savesink.NewClient(s.config.SaveSinkURL)
		s.logger.Info("save sink enabled", slog.String("url", s.config.SaveSinkURL))
	}
	contentStore := store.New(s.db, sink, s.logger)

	// === Auth ===
	sessions := auth.NewSessionManager(s.db, auth.NewPasswordService(), s.logger, auth.SessionConfig{
		SessionDuration: s.config.SessionDuration,
		DefaultPassword: s.config.AdminPassword,
	})
	// Seed the password hash up front so the first login doesn't pay the
	// bcrypt cost twice. Initialize is idempotent.
	if err := sessions.Initialize(context.Background()); err != nil {
		return fmt.Errorf("initializing admin credentials: %w", err)
	}

	// === Domain services ===
	mailer := email.NewClient(s.config.Email, s.logger)
	if !mailer.Configured() {
		s.logger.Warn("email relay not configured, contact messages will be stored locally only")
	}
	contacts := service.NewContactService(contentStore, mailer, s.logger)
	images := imaging.NewService(s.logger)

	// === Handlers ===
	portfolioHandler := handler.NewPortfolioHandler(contentStore, sessions, s.logger)
	contactHandler := handler.NewContactHandler(contacts, contentStore, s.logger)
	authHandler := handler.NewAuthHandler(sessions, s.logger)
	imageHandler := handler.NewImageHandler(images, s.logger)
	adminHandler := handler.NewAdminHandler(contentStore, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Public routes.
		r.Get("/portfolio", portfolioHandler.HandlePortfolio)
		r.Get("/profile", portfolioHandler.HandleProfile)
		r.Get("/skills", portfolioHandler.HandleListSkills)
		r.Get("/projects", portfolioHandler.HandleListProjects)
		r.Get("/articles", portfolioHandler.HandleListArticles)
		r.Post("/contact", contactHandler.HandleSubmit)

		// Session lifecycle. Login/logout/status are reachable without a
		// cookie: login obviously, logout is idempotent, and status is how
		// the frontend discovers it is signed out.
		r.Post("/admin/login", authHandler.HandleLogin)
		r.Post("/admin/logout", authHandler.HandleLogout)
		r.Get("/admin/session", authHandler.HandleSessionStatus)

		// Everything else under /admin requires a live session cookie.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin(sessions))

			r.Post("/admin/session/extend", authHandler.HandleExtendSession)
			r.Post("/admin/password", authHandler.HandleChangePassword)

			r.Put("/admin/profile", portfolioHandler.HandleUpdateProfile)

			r.Post("/admin/skills", portfolioHandler.HandleCreateSkill)
			r.Put("/admin/skills/{id}", portfolioHandler.HandleUpdateSkill)
			r.Delete("/admin/skills/{id}", portfolioHandler.HandleDeleteSkill)

			r.Post("/admin/projects", portfolioHandler.HandleCreateProject)
			r.Put("/admin/projects/{id}", portfolioHandler.HandleUpdateProject)
			r.Delete("/admin/projects/{id}", portfolioHandler.HandleDeleteProject)

			r.Post("/admin/articles", portfolioHandler.HandleCreateArticle)
			r.Put("/admin/articles/{id}", portfolioHandler.HandleUpdateArticle)
			r.Delete("/admin/articles/{id}", portfolioHandler.HandleDeleteArticle)

			r.Get("/admin/messages", contactHandler.HandleListMessages)
			r.Post("/admin/messages/{id}/read", contactHandler.HandleMarkRead)
			r.Delete("/admin/messages/{id}", contactHandler.HandleDeleteMessage)

			r.Post("/admin/images", imageHandler.HandleUpload)

			r.Get("/admin/export", adminHandler.HandleExport)
			r.Post("/admin/import", adminHandler.HandleImport)
			r.Post("/admin/reset", adminHandler.HandleReset)
		})
	})

	// === Static files ===
	// When a built frontend is available, serve it from the root. API routes
	// were registered first, so they take precedence over the catch-all.
	if s.config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(s.config.StaticDir))
		s.router.Handle("/*", fileServer)
	}

	return nil
}

// Start runs the HTTP server until a shutdown signal arrives.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the database connection (flushes WAL, releases the file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
