package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/pfm-dashboard/backend/internal/auth/http"
	budgetHTTP "github.com/pfm-dashboard/backend/internal/budget/http"
	"github.com/pfm-dashboard/backend/internal/config"
	"github.com/pfm-dashboard/backend/internal/metrics"
	transactionHTTP "github.com/pfm-dashboard/backend/internal/transaction/http"
	userHTTP "github.com/pfm-dashboard/backend/internal/user/http"
)

// Handlers groups the route handlers mounted on the API server.
type Handlers struct {
	Auth        *authHTTP.AuthHandler
	User        *userHTTP.UserHandler
	Transaction *transactionHTTP.TransactionHandler
	Dashboard   *transactionHTTP.DashboardHandler
	Budget      *budgetHTTP.BudgetHandler
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates the API server and wires all routes and middleware.
// The session middleware guards every route except health checks and the
// auth endpoints themselves.
func NewServer(
	cfg *config.Config,
	db *sql.DB,
	logger *slog.Logger,
	handlers Handlers,
	sessionMiddleware gin.HandlerFunc,
	metricsProvider *metrics.Provider,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	s := &Server{
		router: router,
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	if cfg.RateLimitEnabled {
		auth.Use(authHTTP.IPRateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}
	auth.POST("/register", handlers.Auth.Register)
	auth.POST("/login", handlers.Auth.Login)
	auth.POST("/logout", handlers.Auth.Logout)

	protected := v1.Group("")
	protected.Use(sessionMiddleware)

	protected.GET("/users/profile", handlers.User.GetProfile)
	protected.PUT("/users/profile", handlers.User.UpdateProfile)

	protected.GET("/transactions", handlers.Transaction.List)
	protected.POST("/transactions", handlers.Transaction.Create)
	protected.PUT("/transactions/:id", handlers.Transaction.Update)
	protected.DELETE("/transactions/:id", handlers.Transaction.Delete)

	protected.GET("/dashboard/spending-by-category", handlers.Dashboard.SpendingByCategory)
	protected.GET("/dashboard/income-vs-expense", handlers.Dashboard.IncomeVsExpense)
	protected.GET("/dashboard/monthly-summary", handlers.Dashboard.MonthlySummary)

	protected.GET("/budgets", handlers.Budget.List)
	protected.POST("/budgets", handlers.Budget.Upsert)
	protected.DELETE("/budgets/:id", handlers.Budget.Delete)

	return s
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can reach its database.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}
	status := http.StatusOK

	if s.db == nil {
		components["database"] = "error"
		status = http.StatusServiceUnavailable
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			components["database"] = "error"
			status = http.StatusServiceUnavailable
		}
	}

	body := gin.H{"status": "ready", "components": components}
	if status != http.StatusOK {
		body["status"] = "not_ready"
	}
	c.JSON(status, body)
}
