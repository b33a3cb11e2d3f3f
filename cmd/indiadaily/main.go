// Package main is the entry point for the news backend server. It loads
// configuration, opens the selected storage backend, wires the handlers, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"indiadaily/internal/config"
	"indiadaily/internal/database"
	"indiadaily/internal/handlers"
	"indiadaily/internal/router"
	"indiadaily/internal/seed"
	"indiadaily/internal/storage"
	"indiadaily/internal/store"
	"indiadaily/internal/store/memory"
	"indiadaily/internal/store/mongo"
	"indiadaily/internal/store/postgres"
	"indiadaily/internal/views"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Local development convenience; absent .env files are fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.Backend,
	)

	ctx := context.Background()

	// Open the configured storage backend. The choice is made once here;
	// everything downstream sees only the store contract.
	st, err := openStore(ctx, cfg)
	if err != nil {
		if !cfg.IsDev() {
			slog.Error("failed to open storage backend", "backend", cfg.Backend, "error", err)
			os.Exit(1)
		}
		// In development a missing database should not block work.
		slog.Warn("storage backend unavailable, falling back to memory",
			"backend", cfg.Backend,
			"error", err,
		)
		st = memory.New()
	}
	defer st.Close(ctx)

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := seed.Apply(ctx, st); err != nil {
			slog.Error("failed to seed store", "error", err)
			os.Exit(1)
		}
	}

	// View counter over Redis (optional — stats report zero views without it).
	var counter views.Counter = views.Noop{}
	if addr := cfg.RedisAddr(); addr != "" {
		redisCounter, err := views.Connect(addr, cfg.RedisPassword)
		if err != nil {
			slog.Error("failed to connect view counter", "error", err)
			os.Exit(1)
		}
		defer redisCounter.Close()
		counter = redisCounter
	} else {
		slog.Warn("redis not configured — view counts disabled")
	}

	// S3-compatible object storage (optional — uploads answer 503 without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("object storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("object storage not configured — image uploads disabled")
	}

	r := router.New(
		handlers.NewArticles(st, counter),
		handlers.NewCategories(st),
		handlers.NewUpload(storageClient),
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// openStore connects the backend named in the configuration.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		return postgres.New(db), nil

	case config.BackendMongo:
		return mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDB)

	default:
		return memory.New(), nil
	}
}
