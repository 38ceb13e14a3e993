// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"

	carthttp "github.com/allisson/cartkeeper/internal/cart/http"
	"github.com/allisson/cartkeeper/internal/cart/repository"
	"github.com/allisson/cartkeeper/internal/cart/usecase"
	"github.com/allisson/cartkeeper/internal/config"
	"github.com/allisson/cartkeeper/internal/database"
	"github.com/allisson/cartkeeper/internal/http"
	"github.com/allisson/cartkeeper/internal/metrics"
	"github.com/allisson/cartkeeper/internal/reminder"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Lifecycle context for background goroutines (rate limiter cleanup),
	// cancelled on Shutdown.
	baseCtx    context.Context
	baseCancel context.CancelFunc

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	redisClient     *redis.Client
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Store and dispatch
	store          usecase.Store
	reminderSender usecase.ReminderSender

	// Use Cases
	activityUseCase    usecase.ActivityUseCase
	sweepUseCase       usecase.SweepUseCase
	maintenanceUseCase usecase.MaintenanceUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                     sync.Mutex
	loggerInit             sync.Once
	dbInit                 sync.Once
	redisClientInit        sync.Once
	metricsProviderInit    sync.Once
	businessMetricsInit    sync.Once
	storeInit              sync.Once
	reminderSenderInit     sync.Once
	activityUseCaseInit    sync.Once
	sweepUseCaseInit       sync.Once
	maintenanceUseCaseInit sync.Once
	httpServerInit         sync.Once
	metricsServerInit      sync.Once
	initErrors             map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	baseCtx, baseCancel := context.WithCancel(context.Background())
	return &Container{
		config:     cfg,
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
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

// DB returns the SQL database connection for the postgres and mysql store drivers.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// RedisClient returns the Redis client for the redis store driver.
func (c *Container) RedisClient() (*redis.Client, error) {
	c.redisClientInit.Do(func() {
		opts, err := redis.ParseURL(c.config.RedisURL)
		if err != nil {
			c.initErrors["redisClient"] = fmt.Errorf("failed to parse redis url: %w", err)
			return
		}
		c.redisClient = redis.NewClient(opts)
	})
	if storedErr, exists := c.initErrors["redisClient"]; exists {
		return nil, storedErr
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
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = businessMetrics
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// Store returns the cart activity store selected by the store driver.
func (c *Container) Store() (usecase.Store, error) {
	c.storeInit.Do(func() {
		store, err := c.initStore()
		if err != nil {
			c.initErrors["store"] = err
			return
		}
		c.store = store
	})
	if storedErr, exists := c.initErrors["store"]; exists {
		return nil, storedErr
	}
	return c.store, nil
}

// ReminderSender returns the reminder dispatcher selected by configuration.
func (c *Container) ReminderSender() (usecase.ReminderSender, error) {
	c.reminderSenderInit.Do(func() {
		sender, err := c.initReminderSender()
		if err != nil {
			c.initErrors["reminderSender"] = err
			return
		}
		c.reminderSender = sender
	})
	if storedErr, exists := c.initErrors["reminderSender"]; exists {
		return nil, storedErr
	}
	return c.reminderSender, nil
}

// ActivityUseCase returns the activity lifecycle use case instance.
func (c *Container) ActivityUseCase() (usecase.ActivityUseCase, error) {
	c.activityUseCaseInit.Do(func() {
		useCase, err := c.initActivityUseCase()
		if err != nil {
			c.initErrors["activityUseCase"] = err
			return
		}
		c.activityUseCase = useCase
	})
	if storedErr, exists := c.initErrors["activityUseCase"]; exists {
		return nil, storedErr
	}
	return c.activityUseCase, nil
}

// SweepUseCase returns the reminder sweep use case instance.
func (c *Container) SweepUseCase() (usecase.SweepUseCase, error) {
	c.sweepUseCaseInit.Do(func() {
		useCase, err := c.initSweepUseCase()
		if err != nil {
			c.initErrors["sweepUseCase"] = err
			return
		}
		c.sweepUseCase = useCase
	})
	if storedErr, exists := c.initErrors["sweepUseCase"]; exists {
		return nil, storedErr
	}
	return c.sweepUseCase, nil
}

// MaintenanceUseCase returns the record maintenance use case instance.
func (c *Container) MaintenanceUseCase() (usecase.MaintenanceUseCase, error) {
	c.maintenanceUseCaseInit.Do(func() {
		store, err := c.Store()
		if err != nil {
			c.initErrors["maintenanceUseCase"] = err
			return
		}
		c.maintenanceUseCase = usecase.NewMaintenanceUseCase(store, c.Logger())
	})
	if storedErr, exists := c.initErrors["maintenanceUseCase"]; exists {
		return nil, storedErr
	}
	return c.maintenanceUseCase, nil
}

// HTTPServer returns the API HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.baseCancel()

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
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis client close: %w", err))
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

// initDB creates and configures the SQL database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.StoreDriver,
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

// initStore creates the cart activity store selected by the store driver.
func (c *Container) initStore() (usecase.Store, error) {
	switch c.config.StoreDriver {
	case "redis":
		client, err := c.RedisClient()
		if err != nil {
			return nil, err
		}
		return repository.NewRedisStore(client, repository.RedisStoreConfig{
			KeyPrefix:        c.config.StoreKeyPrefix,
			OperationTimeout: c.config.StoreOperationTimeout,
			ScanBatchSize:    c.config.StoreScanBatchSize,
			Logger:           c.Logger(),
		})
	case "postgres":
		db, err := c.DB()
		if err != nil {
			return nil, err
		}
		return repository.NewPostgreSQLStore(db, c.config.StoreOperationTimeout), nil
	case "mysql":
		db, err := c.DB()
		if err != nil {
			return nil, err
		}
		return repository.NewMySQLStore(db, c.config.StoreOperationTimeout), nil
	case "memory":
		return repository.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", c.config.StoreDriver)
	}
}

// initReminderSender creates the reminder dispatcher selected by configuration.
func (c *Container) initReminderSender() (usecase.ReminderSender, error) {
	switch c.config.ReminderDispatcher {
	case "log":
		return reminder.NewLogSender(c.Logger()), nil
	case "webhook":
		return reminder.NewWebhookSender(c.config.ReminderWebhookURL, c.config.ReminderWebhookTimeout)
	default:
		return nil, fmt.Errorf("unsupported reminder dispatcher: %s", c.config.ReminderDispatcher)
	}
}

// initActivityUseCase creates the activity use case with metrics instrumentation.
func (c *Container) initActivityUseCase() (usecase.ActivityUseCase, error) {
	store, err := c.Store()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := usecase.NewActivityUseCase(store, usecase.LifecyclePolicy{
		ActivityWindow:     c.config.ActivityWindow,
		SequenceContinuity: c.config.SequenceContinuityEnabled,
	})

	return usecase.NewActivityUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initSweepUseCase creates the sweep use case with metrics instrumentation.
func (c *Container) initSweepUseCase() (usecase.SweepUseCase, error) {
	store, err := c.Store()
	if err != nil {
		return nil, err
	}

	sender, err := c.ReminderSender()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := usecase.NewSweepUseCase(
		usecase.SweepConfig{StepDelays: c.config.ReminderStepDelays},
		store,
		sender,
		c.Logger(),
	)

	return usecase.NewSweepUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initHTTPServer creates the API HTTP server with the full router.
func (c *Container) initHTTPServer() (*http.Server, error) {
	activityUseCase, err := c.ActivityUseCase()
	if err != nil {
		return nil, err
	}

	sweepUseCase, err := c.SweepUseCase()
	if err != nil {
		return nil, err
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}

	handler := carthttp.NewCartHandler(activityUseCase, sweepUseCase, c.Logger())

	var meterProvider metric.MeterProvider
	if provider != nil {
		meterProvider = provider.MeterProvider()
	}
	router := http.NewRouter(c.baseCtx, c.config, handler, meterProvider, c.Logger())

	return http.NewServer(c.config.ServerHost, c.config.ServerPort, router, c.Logger()), nil
}
