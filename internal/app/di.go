// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	authHTTP "github.com/pfm-dashboard/backend/internal/auth/http"
	authRepository "github.com/pfm-dashboard/backend/internal/auth/repository"
	authService "github.com/pfm-dashboard/backend/internal/auth/service"
	authUsecase "github.com/pfm-dashboard/backend/internal/auth/usecase"
	budgetHTTP "github.com/pfm-dashboard/backend/internal/budget/http"
	budgetRepository "github.com/pfm-dashboard/backend/internal/budget/repository"
	budgetUsecase "github.com/pfm-dashboard/backend/internal/budget/usecase"
	"github.com/pfm-dashboard/backend/internal/config"
	"github.com/pfm-dashboard/backend/internal/database"
	"github.com/pfm-dashboard/backend/internal/http"
	"github.com/pfm-dashboard/backend/internal/metrics"
	"github.com/pfm-dashboard/backend/internal/redisclient"
	transactionHTTP "github.com/pfm-dashboard/backend/internal/transaction/http"
	transactionRepository "github.com/pfm-dashboard/backend/internal/transaction/repository"
	transactionUsecase "github.com/pfm-dashboard/backend/internal/transaction/usecase"
	userHTTP "github.com/pfm-dashboard/backend/internal/user/http"
	userRepository "github.com/pfm-dashboard/backend/internal/user/repository"
	userUsecase "github.com/pfm-dashboard/backend/internal/user/usecase"
)

// UserRepository is the full persistence surface a user row needs. The auth
// and profile use cases each depend on their own subset of it.
type UserRepository interface {
	authUsecase.UserRepository
	userUsecase.UserRepository
}

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	redisClient     *goredis.Client
	metricsProvider *metrics.Provider

	// Managers
	txManager database.TxManager

	// Repositories
	userRepo        UserRepository
	revocationStore authUsecase.RevocationStore
	transactionRepo transactionUsecase.TransactionRepository
	budgetRepo      budgetUsecase.BudgetRepository

	// Services
	tokenCodec authUsecase.TokenCodec

	// Use Cases
	authUseCase        authUsecase.AuthUseCase
	userUseCase        userUsecase.UseCase
	transactionUseCase *transactionUsecase.TransactionUseCase
	budgetUseCase      budgetUsecase.UseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                     sync.Mutex
	loggerInit             sync.Once
	dbInit                 sync.Once
	redisClientInit        sync.Once
	metricsProviderInit    sync.Once
	txManagerInit          sync.Once
	userRepoInit           sync.Once
	revocationStoreInit    sync.Once
	transactionRepoInit    sync.Once
	budgetRepoInit         sync.Once
	tokenCodecInit         sync.Once
	authUseCaseInit        sync.Once
	userUseCaseInit        sync.Once
	transactionUseCaseInit sync.Once
	budgetUseCaseInit      sync.Once
	httpServerInit         sync.Once
	metricsServerInit      sync.Once
	initErrors             map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if err, exists := c.initErrors["db"]; exists {
		return nil, err
	}
	return c.db, nil
}

// RedisClient returns the Redis connection backing the revocation store.
func (c *Container) RedisClient() (*goredis.Client, error) {
	c.redisClientInit.Do(func() {
		client, err := c.initRedisClient()
		if err != nil {
			c.initErrors["redisClient"] = err
			return
		}
		c.redisClient = client
	})
	if err, exists := c.initErrors["redisClient"]; exists {
		return nil, err
	}
	return c.redisClient, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if err, exists := c.initErrors["metricsProvider"]; exists {
		return nil, err
	}
	return c.metricsProvider, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if err, exists := c.initErrors["txManager"]; exists {
		return nil, err
	}
	return c.txManager, nil
}

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (UserRepository, error) {
	c.userRepoInit.Do(func() {
		repo, err := c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
			return
		}
		c.userRepo = repo
	})
	if err, exists := c.initErrors["userRepo"]; exists {
		return nil, err
	}
	return c.userRepo, nil
}

// RevocationStore returns the revoked-token store.
func (c *Container) RevocationStore() (authUsecase.RevocationStore, error) {
	c.revocationStoreInit.Do(func() {
		client, err := c.RedisClient()
		if err != nil {
			c.initErrors["revocationStore"] = fmt.Errorf("failed to get redis client for revocation store: %w", err)
			return
		}
		c.revocationStore = authRepository.NewRedisRevocationStore(client)
	})
	if err, exists := c.initErrors["revocationStore"]; exists {
		return nil, err
	}
	return c.revocationStore, nil
}

// TransactionRepository returns the transaction repository instance.
func (c *Container) TransactionRepository() (transactionUsecase.TransactionRepository, error) {
	c.transactionRepoInit.Do(func() {
		repo, err := c.initTransactionRepository()
		if err != nil {
			c.initErrors["transactionRepo"] = err
			return
		}
		c.transactionRepo = repo
	})
	if err, exists := c.initErrors["transactionRepo"]; exists {
		return nil, err
	}
	return c.transactionRepo, nil
}

// BudgetRepository returns the budget repository instance.
func (c *Container) BudgetRepository() (budgetUsecase.BudgetRepository, error) {
	c.budgetRepoInit.Do(func() {
		repo, err := c.initBudgetRepository()
		if err != nil {
			c.initErrors["budgetRepo"] = err
			return
		}
		c.budgetRepo = repo
	})
	if err, exists := c.initErrors["budgetRepo"]; exists {
		return nil, err
	}
	return c.budgetRepo, nil
}

// TokenCodec returns the session token codec, resolving the signing secret
// through the configured KMS keeper when needed.
func (c *Container) TokenCodec() (authUsecase.TokenCodec, error) {
	c.tokenCodecInit.Do(func() {
		codec, err := c.initTokenCodec()
		if err != nil {
			c.initErrors["tokenCodec"] = err
			return
		}
		c.tokenCodec = codec
	})
	if err, exists := c.initErrors["tokenCodec"]; exists {
		return nil, err
	}
	return c.tokenCodec, nil
}

// AuthUseCase returns the session authentication use case instance.
func (c *Container) AuthUseCase() (authUsecase.AuthUseCase, error) {
	c.authUseCaseInit.Do(func() {
		useCase, err := c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
			return
		}
		c.authUseCase = useCase
	})
	if err, exists := c.initErrors["authUseCase"]; exists {
		return nil, err
	}
	return c.authUseCase, nil
}

// UserUseCase returns the user profile use case instance.
func (c *Container) UserUseCase() (userUsecase.UseCase, error) {
	c.userUseCaseInit.Do(func() {
		useCase, err := c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
			return
		}
		c.userUseCase = useCase
	})
	if err, exists := c.initErrors["userUseCase"]; exists {
		return nil, err
	}
	return c.userUseCase, nil
}

// TransactionUseCase returns the transaction use case instance. It also serves
// the dashboard aggregates.
func (c *Container) TransactionUseCase() (*transactionUsecase.TransactionUseCase, error) {
	c.transactionUseCaseInit.Do(func() {
		repo, err := c.TransactionRepository()
		if err != nil {
			c.initErrors["transactionUseCase"] = fmt.Errorf("failed to get transaction repository for transaction use case: %w", err)
			return
		}
		c.transactionUseCase = transactionUsecase.NewTransactionUseCase(repo)
	})
	if err, exists := c.initErrors["transactionUseCase"]; exists {
		return nil, err
	}
	return c.transactionUseCase, nil
}

// BudgetUseCase returns the budget use case instance.
func (c *Container) BudgetUseCase() (budgetUsecase.UseCase, error) {
	c.budgetUseCaseInit.Do(func() {
		repo, err := c.BudgetRepository()
		if err != nil {
			c.initErrors["budgetUseCase"] = fmt.Errorf("failed to get budget repository for budget use case: %w", err)
			return
		}
		c.budgetUseCase = budgetUsecase.NewBudgetUseCase(repo)
	})
	if err, exists := c.initErrors["budgetUseCase"]; exists {
		return nil, err
	}
	return c.budgetUseCase, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if err, exists := c.initErrors["httpServer"]; exists {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, provider, c.Logger())
	})
	if err, exists := c.initErrors["metricsServer"]; exists {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initRedisClient creates the Redis connection for the revocation store.
func (c *Container) initRedisClient() (*goredis.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.RedisDialTimeout)
	defer cancel()

	client, err := redisclient.Connect(ctx, redisclient.Config{
		URL:         c.config.RedisURL,
		DialTimeout: c.config.RedisDialTimeout,
		ReadTimeout: c.config.RedisReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// initUserRepository creates the user repository instance.
func (c *Container) initUserRepository() (UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTransactionRepository creates the transaction repository instance.
func (c *Container) initTransactionRepository() (transactionUsecase.TransactionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for transaction repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return transactionRepository.NewMySQLTransactionRepository(db), nil
	case "postgres":
		return transactionRepository.NewPostgreSQLTransactionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initBudgetRepository creates the budget repository instance.
func (c *Container) initBudgetRepository() (budgetUsecase.BudgetRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for budget repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return budgetRepository.NewMySQLBudgetRepository(db), nil
	case "postgres":
		return budgetRepository.NewPostgreSQLBudgetRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenCodec resolves the signing secret and creates the token codec.
func (c *Container) initTokenCodec() (authUsecase.TokenCodec, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.RedisDialTimeout)
	defer cancel()

	secret, err := authService.ResolveSigningSecret(ctx, authService.SecretSourceConfig{
		PlainSecret:     c.config.TokenSecret,
		EncryptedSecret: c.config.TokenSecretEncrypted,
		KeyURI:          c.config.KMSKeyURI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token signing secret: %w", err)
	}

	return authService.NewTokenCodec(
		secret,
		c.config.TokenIssuer,
		c.config.TokenAudience,
		c.config.TokenExpiration,
	), nil
}

// initAuthUseCase creates the auth use case with all its dependencies.
func (c *Container) initAuthUseCase() (authUsecase.AuthUseCase, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for auth use case: %w", err)
	}

	codec, err := c.TokenCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get token codec for auth use case: %w", err)
	}

	revocationStore, err := c.RevocationStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get revocation store for auth use case: %w", err)
	}

	useCase, err := authUsecase.NewAuthUseCase(
		userRepo,
		codec,
		revocationStore,
		c.config.RevocationFailClosed,
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth use case: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for auth use case: %w", err)
	}
	if provider == nil {
		return useCase, nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	return authUsecase.NewAuthUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initUserUseCase creates the user profile use case with all its dependencies.
func (c *Container) initUserUseCase() (userUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	return userUsecase.NewUserUseCase(txManager, userRepo), nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	authUseCase, err := c.AuthUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth use case for http server: %w", err)
	}

	userUseCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for http server: %w", err)
	}

	transactionUseCase, err := c.TransactionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction use case for http server: %w", err)
	}

	budgetUseCase, err := c.BudgetUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get budget use case for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	cookie := authHTTP.CookieSettings{
		MaxAge: int(c.config.TokenExpiration.Seconds()),
		Secure: c.config.IsProduction(),
	}

	handlers := http.Handlers{
		Auth:        authHTTP.NewAuthHandler(authUseCase, cookie, logger),
		User:        userHTTP.NewUserHandler(userUseCase, logger),
		Transaction: transactionHTTP.NewTransactionHandler(transactionUseCase, logger),
		Dashboard:   transactionHTTP.NewDashboardHandler(transactionUseCase, logger),
		Budget:      budgetHTTP.NewBudgetHandler(budgetUseCase, logger),
	}

	sessionMiddleware := authHTTP.SessionMiddleware(authUseCase, logger)

	return http.NewServer(c.config, db, logger, handlers, sessionMiddleware, metricsProvider), nil
}
