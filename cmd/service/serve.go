package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/giannis84/favorites-admin/internal"
	"github.com/giannis84/favorites-admin/internal/config"
	"github.com/giannis84/favorites-admin/internal/database"
	"github.com/giannis84/favorites-admin/internal/logging"
	"github.com/giannis84/favorites-admin/internal/messages"
	"github.com/giannis84/favorites-admin/internal/routes"
	"github.com/giannis84/favorites-admin/internal/session"
	"github.com/giannis84/favorites-admin/internal/templates"
)

// setup loads the configuration, builds the logger and opens the store.
func setup() (*config.Config, *slog.Logger, *sql.DB, error) {
	logger := logging.NewLogger("json", "info")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String(logging.ErrorKey, err.Error()))
		return nil, nil, nil, err
	}
	logger = logging.NewLogger(cfg.LogFormat, cfg.LogLevel)
	logger.Info("configuration loaded",
		slog.String("api_addr", cfg.APIAddr()),
		slog.String("health_addr", cfg.HealthAddr()),
		slog.String("store_driver", cfg.StoreDriver),
		slog.String("session_store", cfg.SessionStore),
	)

	// Connect to the store and initialise schema
	db, err := database.Connect(database.Dialect(cfg.StoreDriver), cfg.StoreDSN())
	if err != nil {
		logger.Error("failed to initialise database", slog.String(logging.ErrorKey, err.Error()))
		return nil, nil, nil, err
	}
	logger.Info("database ready")
	return cfg, logger, db, nil
}

func migrate() error {
	_, logger, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("favorites schema is up to date")
	return nil
}

func newSessionStore(cfg *config.Config) (session.Store, func() error, error) {
	if cfg.SessionStore != config.SessionRedis {
		return session.NewMemoryStore(cfg.SessionTTL), func() error { return nil }, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return session.NewRedisStore(rdb, cfg.SessionTTL), rdb.Close, nil
}

func serve() error {
	cfg, logger, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.JWTSecret == "" && !cfg.AllowUnsignedTokens {
		logger.Warn("no JWT_SECRET configured and unsigned tokens disabled: every admin request will be rejected")
	}

	store, closeStore, err := newSessionStore(cfg)
	if err != nil {
		logger.Error("failed to initialise session store", slog.String(logging.ErrorKey, err.Error()))
		return err
	}
	defer closeStore()

	catalog, err := messages.Load()
	if err != nil {
		logger.Error("failed to load message catalogs", slog.String(logging.ErrorKey, err.Error()))
		return err
	}
	renderer, err := templates.NewRenderer()
	if err != nil {
		logger.Error("failed to parse templates", slog.String(logging.ErrorKey, err.Error()))
		return err
	}

	repo := database.NewSQLRepository(db, database.Dialect(cfg.StoreDriver))
	sessions := session.NewManager(store, cfg.SessionTTL, "/admin", cfg.SecureCookies)
	controller := routes.NewFavoritesController(repo, sessions, catalog, renderer, cfg.ItemsPerPage)

	// Create health check and favorites http services
	healthService := internal.NewService(internal.ServiceConfig{
		Addr:   cfg.HealthAddr(),
		Logger: logger,
		Routes: routes.RegisterHealthRoutes(repo),
	})
	apiService := internal.NewService(internal.ServiceConfig{
		Addr:         cfg.APIAddr(),
		Logger:       logger,
		Routes:       routes.RegisterFavoritesRoutes(controller, cfg.AuthConfig(), cfg.RateLimitConfig()),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})

	// Start http service threads
	errs := make(chan error, 2)
	go func() {
		if err := healthService.ListenAndServeWrapper("health check api"); err != nil && err != http.ErrServerClosed {
			logger.Error("health check service failed", slog.String(logging.ErrorKey, err.Error()))
			errs <- err
		}
	}()
	go func() {
		if err := apiService.ListenAndServeWrapper("favorites admin"); err != nil && err != http.ErrServerClosed {
			logger.Error("favorites service failed", slog.String(logging.ErrorKey, err.Error()))
			errs <- err
		}
	}()

	// Wait for interrupt signal or a failed service
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	var runErr error
	select {
	case receivedSignal := <-quit:
		logger.Info("shutting down service", slog.String("signal", receivedSignal.String()))
	case runErr = <-errs:
	}

	// Shutdown http service threads gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiService.Shutdown(ctx); err != nil {
		logger.Error("API service shutdown error", slog.String(logging.ErrorKey, err.Error()))
	}
	if err := healthService.Shutdown(ctx); err != nil {
		logger.Error("health service shutdown error", slog.String(logging.ErrorKey, err.Error()))
	}
	logger.Info("exiting...")
	return runErr
}
