package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	database "github.com/sebuszqo/ExpenseManager/db"
	"github.com/sebuszqo/ExpenseManager/internal/auth"
	"github.com/sebuszqo/ExpenseManager/internal/config"
	"github.com/sebuszqo/ExpenseManager/internal/finance/application"
	"github.com/sebuszqo/ExpenseManager/internal/finance/infrastructure"
	"github.com/sebuszqo/ExpenseManager/internal/finance/interfaces"
	"github.com/sebuszqo/ExpenseManager/internal/logging"
	"github.com/sebuszqo/ExpenseManager/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Info(r.Context(), "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, auth.ErrorResponse{ErrorMessage: message})
}

type healthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	router          *http.ServeMux
	authHandler     *auth.Handler
	authService     auth.Service
	categoryHandler *interfaces.CategoryHandler
	db              healthChecker
}

func NewServer(authHandler *auth.Handler, authService auth.Service, categoryHandler *interfaces.CategoryHandler, db healthChecker) *Server {
	return &Server{
		authHandler:     authHandler,
		authService:     authService,
		categoryHandler: categoryHandler,
		db:              db,
		router:          http.NewServeMux(),
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusNotFound, Response{Message: "Path not found"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health(r.Context())
	status := http.StatusOK
	state := "ready"
	if health["status"] != "up" {
		status = http.StatusServiceUnavailable
		state = "unavailable"
	}
	respondJSON(w, status, map[string]interface{}{
		"status":   state,
		"database": health,
	})
}

func (s *Server) RegisterRoutes() {
	protected := s.authService.JWTAccessTokenMiddleware()

	router := http.NewServeMux()
	router.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	router.Handle("POST /api/auth/register", http.HandlerFunc(s.authHandler.HandleRegister))
	router.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	router.Handle("GET /api/categories", protected(http.HandlerFunc(s.categoryHandler.GetCategories)))
	router.Handle("POST /api/categories", protected(http.HandlerFunc(s.categoryHandler.CreateCategory)))
	router.Handle("POST /api/categories/batch", protected(http.HandlerFunc(s.categoryHandler.CreateCategories)))
	router.Handle("PUT /api/categories/{id}",
		protected(s.categoryHandler.ValidatePathParamsMiddleware(http.HandlerFunc(s.categoryHandler.UpdateCategory), "id")))
	router.Handle("DELETE /api/categories/{id}",
		protected(s.categoryHandler.ValidatePathParamsMiddleware(http.HandlerFunc(s.categoryHandler.DeleteCategory), "id")))

	router.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = router
}

func main() {
	logger := logging.NewJSONLogger(os.Stdout)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Error(ctx, "missing configuration, update to start server", "error", err)
		os.Exit(1)
	}

	dbService, err := database.NewDBService(ctx, cfg.DB, logger)
	if err != nil {
		logger.Error(ctx, "could not initialize database", "error", err)
		os.Exit(1)
	}
	defer dbService.Close()

	if err := dbService.Migrate(ctx); err != nil {
		logger.Error(ctx, "could not migrate database", "error", err)
		os.Exit(1)
	}

	userRepo := user.NewUserRepository(dbService.DB)
	userService := user.NewUserService(userRepo)

	jwtManager := auth.NewJWTManager(cfg.Token)
	authService := auth.NewAuthService(userService, jwtManager, logger)
	authHandler := auth.NewHandler(authService, logger)

	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB)
	categoryService := application.NewCategoryService(categoryRepo, logger)
	categoryHandler := interfaces.NewCategoryHandler(categoryService, logger, respondJSON, respondError)

	server := NewServer(authHandler, authService, categoryHandler, dbService)
	server.RegisterRoutes()

	scheduler, err := StartHealthCheckScheduler(cfg.HealthCheckSchedule, dbService, logger)
	if err != nil {
		logger.Error(ctx, "scheduler didn't start, stopping the app", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      loggingMiddleware(logger, server.router),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info(ctx, "server starting", "address", cfg.HTTP.Address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "graceful shutdown failed", "error", err)
	}
}

// StartHealthCheckScheduler probes the database on schedule and logs its state.
func StartHealthCheckScheduler(schedule string, db healthChecker, logger logging.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		health := db.Health(context.Background())
		if health["status"] != "up" {
			logger.Warn(context.Background(), "database health check failed", "error", health["error"])
			return
		}
		logger.Info(context.Background(), "database health check passed", "open_connections", health["open_connections"])
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
