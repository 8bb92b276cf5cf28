package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rekrut-id/apiserver/config"
	"github.com/rekrut-id/apiserver/internal/db"
	"github.com/rekrut-id/apiserver/internal/handlers"
	"github.com/rekrut-id/apiserver/internal/logging"
	"github.com/rekrut-id/apiserver/internal/mq"
	"github.com/rekrut-id/apiserver/internal/services"
	"github.com/rekrut-id/apiserver/internal/storage"
	"github.com/rekrut-id/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	mq         *mq.MQ
	logger     *slog.Logger
}

// Dependencies are the services the API router is built from.
type Dependencies struct {
	Auth       *services.AuthService
	Jobs       *services.JobService
	JobDetails *services.JobDetailService
	Logger     *slog.Logger
}

// New connects to Postgres and the optional storage and broker backends,
// then wires the services and routes.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.New(cfg)
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logos, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	broker, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("open mq: %w", err)
	}

	userRepo := store.NewUserRepository(dbConn)
	jobRepo := store.NewJobRepository(dbConn)
	jobDetailRepo := store.NewJobDetailRepository(dbConn)

	var publisher services.EventPublisher
	if broker != nil {
		publisher = broker
	}
	events := services.NewEvents(publisher, logger)

	var logoStorage services.LogoStorage
	if logos != nil {
		logoStorage = logos
	}

	userService := services.NewUserService(userRepo, services.NewPasswordHasher(0))
	deps := Dependencies{
		Auth:       services.NewAuthService(userService, services.NewTokenIssuer(), events),
		Jobs:       services.NewJobService(jobRepo, logoStorage, events),
		JobDetails: services.NewJobDetailService(jobDetailRepo, jobRepo, events),
		Logger:     logger,
	}
	router := NewRouter(cfg, deps)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server configured",
		"port", port,
		"storage", cfg.Storage.Backend,
		"mq", cfg.MQ.Backend,
		"strict_bearer", cfg.Auth.StrictBearer,
		"jobs_require_auth", cfg.Auth.JobsRequireAuth,
	)

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		mq:         broker,
		logger:     logger,
	}, nil
}

// NewRouter builds the HTTP routes. Every /api request passes through the
// authenticator before reaching a handler.
func NewRouter(cfg config.Config, deps Dependencies) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reporter := handlers.NewReporter(logger, cfg.Debug)

	guard := func(next http.Handler) http.Handler { return next }
	if cfg.Auth.JobsRequireAuth {
		guard = handlers.RequireIdentity
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		logging.AccessLog(logger, "/healthz"),
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(r chi.Router) {
		r.Use(handlers.Authenticate(deps.Auth, cfg.Auth.StrictBearer, reporter))

		handlers.AuthRouter(r, deps.Auth, reporter)
		r.Route("/jobs", func(r chi.Router) {
			handlers.JobRouter(r, deps.Jobs, deps.JobDetails, guard, reporter)
		})
		r.Route("/job-details", func(r chi.Router) {
			handlers.JobDetailRouter(r, deps.JobDetails, guard, reporter)
		})
	})

	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and releases the database and broker.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.mq != nil {
		if closeErr := s.mq.Close(); closeErr != nil {
			s.logger.Warn("close mq", "error", closeErr)
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
