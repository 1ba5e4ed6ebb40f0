package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cacheadapter "github.com/SscSPs/loan_desk_app/internal/adapters/cache"
	"github.com/SscSPs/loan_desk_app/internal/adapters/database/memory"
	messagingadapter "github.com/SscSPs/loan_desk_app/internal/adapters/messaging"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/core/services"
	"github.com/SscSPs/loan_desk_app/internal/handlers"
	"github.com/SscSPs/loan_desk_app/internal/middleware"
	"github.com/SscSPs/loan_desk_app/internal/platform/config"
	"github.com/SscSPs/loan_desk_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/loan_desk_app/internal/utils"
	"github.com/SscSPs/loan_desk_app/pkg/cache"
	"github.com/SscSPs/loan_desk_app/pkg/database"
	"github.com/SscSPs/loan_desk_app/pkg/messaging"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	localSessionCacheSize = 4096
	shutdownTimeout       = 10 * time.Second
)

// @title Loan Desk API
// @version 1.0
// @description Multi-tenant employee loan requests: companies, employees, loans and the admin console.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", slog.String("driver", cfg.StoreDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cache.CloseRedisClient(redisClient)
	}
	sessions, err := sessionCache(redisClient)
	if err != nil {
		logger.Error("Failed to create session cache", slog.String("error", err.Error()))
		os.Exit(1)
	}

	events, closeEvents, err := statusEvents(cfg, logger)
	if err != nil {
		logger.Error("Failed to set up status event publisher", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeEvents()

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	loginLimiter, err := middleware.NewLoginLimiter(cfg.LoginRateLimit, redisClient)
	if err != nil {
		logger.Error("Failed to create login rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, sessions, events)
	if cfg.AdminBootstrapEmail != "" {
		admin, err := serviceContainer.Admin.EnsureBootstrapAdmin(ctx, cfg.AdminBootstrapName, cfg.AdminBootstrapEmail, cfg.AdminBootstrapPassword)
		if err != nil {
			logger.Error("Failed to bootstrap admin", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Bootstrap admin ready", slog.String("admin_id", admin.AdminID))
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, handlers.RouteDeps{
		LoginLimiter: loginLimiter,
		Posthog:      posthogClient,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

// openStore returns the repositories for the configured driver. Postgres is
// migrated to the latest schema before use.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("Using the in-memory store, data is lost on restart")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		database.ClosePgxPool(dbPool)
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

func sessionCache(client *redis.Client) (portsrepo.SessionCache, error) {
	if client != nil {
		return cacheadapter.NewRedisSessionCache(client), nil
	}
	return cacheadapter.NewMemorySessionCache(localSessionCacheSize)
}

// statusEvents publishes to RabbitMQ when configured and to the log otherwise.
func statusEvents(cfg *config.Config, logger *slog.Logger) (portssvc.StatusEventPublisher, func(), error) {
	if cfg.RabbitMQURL == "" {
		return messagingadapter.NewLogPublisher(logger), func() {}, nil
	}
	conn, err := messaging.DialRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		return nil, nil, err
	}
	publisher, err := messagingadapter.NewRabbitMQPublisher(conn, cfg.StatusEventsQueue)
	if err != nil {
		messaging.CloseRabbitMQ(conn)
		return nil, nil, err
	}
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close status event channel", slog.String("error", err.Error()))
		}
		messaging.CloseRabbitMQ(conn)
	}, nil
}
