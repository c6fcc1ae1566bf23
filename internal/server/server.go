// Package server wires the router, middleware, handlers, and their
// dependencies together, and owns the HTTP listener lifecycle.
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
	"github.com/go-chi/cors"

	"github.com/nic96/minipress/internal/auth"
	"github.com/nic96/minipress/internal/config"
	"github.com/nic96/minipress/internal/handler"
	"github.com/nic96/minipress/internal/middleware"
	sqliteRepo "github.com/nic96/minipress/internal/repository/sqlite"
	"github.com/nic96/minipress/internal/service"
)

// Server holds the router and the resources it must release on shutdown.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and assembles the full dependency chain:
// repositories, services, handlers, routes.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	identity, err := auth.NewIdentity(s.cfg.SecretKey, s.cfg.AppDomain, s.cfg.TLS.Enabled())
	if err != nil {
		return err
	}

	provider := auth.NewGitHubProvider(
		s.cfg.GitHub.ClientID,
		s.cfg.GitHub.ClientSecret,
		s.cfg.GitHub.AuthURL,
		s.cfg.GitHub.TokenURL,
		s.cfg.GitHub.APIURL,
		s.cfg.RedirectURL(),
	)

	userService := service.NewUserService(s.db.Users(), auth.NewPasswordService())
	postService := service.NewPostService(s.db.Posts())
	authService := service.NewAuthService(s.db.Users())

	userHandler := handler.NewUserHandler(userService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)
	authHandler := handler.NewAuthHandler(provider, identity, authService, s.logger, s.cfg.TLS.Enabled())

	indexHandler, err := handler.NewIndexHandler(s.cfg.TemplateDir, s.cfg.AppName, s.logger)
	if err != nil {
		return fmt.Errorf("creating index handler: %w", err)
	}

	// Static assets, plus the icon files browsers expect at the site root.
	fileServer := http.FileServer(http.Dir(s.cfg.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	for _, name := range handler.FaviconFiles {
		s.router.Get("/"+name, handler.FaviconHandler(s.cfg.StaticDir, name))
	}

	s.router.Group(func(r chi.Router) {
		r.Use(identity.OptionalIdentity)
		r.Get("/", indexHandler.HandleIndex)
	})

	s.router.Get("/login", authHandler.HandleLogin)
	s.router.Get(s.cfg.GitHub.CallbackPath, authHandler.HandleCallback)
	s.router.Get("/logout", authHandler.HandleLogout)

	s.router.Get("/users", userHandler.HandleList)
	s.router.Route("/user", func(r chi.Router) {
		r.Get("/{id}", userHandler.HandleGet)
		r.Post("/", userHandler.HandleCreate)
		r.Put("/{id}", userHandler.HandleUpdate)
		r.Delete("/{id}", userHandler.HandleDelete)
	})

	s.router.Get("/posts", postHandler.HandleList)
	s.router.Route("/post", func(r chi.Router) {
		r.Get("/{id}", postHandler.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(identity.RequireIdentity)
			r.Post("/", postHandler.HandleCreate)
			r.Put("/{id}", postHandler.HandleUpdate)
			r.Delete("/{id}", postHandler.HandleDelete)
		})
	})

	return nil
}

// Start runs the listener until SIGINT or SIGTERM, then drains in-flight
// requests and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.cfg.AppURL,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		scheme := "http"
		if s.cfg.TLS.Enabled() {
			scheme = "https"
		}
		s.logger.Info("server starting",
			slog.String("addr", s.cfg.AppURL),
			slog.String("url", fmt.Sprintf("%s://%s", scheme, s.cfg.AppURL)),
			slog.String("database", s.cfg.DatabaseURL),
		)
		if s.cfg.TLS.Enabled() {
			serverErrors <- srv.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			serverErrors <- srv.ListenAndServe()
		}
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
