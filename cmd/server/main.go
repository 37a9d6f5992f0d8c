package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-archive/internal/adapter/handler"
	"github.com/johnquangdev/meeting-archive/internal/adapter/repository"
	"github.com/johnquangdev/meeting-archive/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-archive/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-archive/internal/infrastructure/external/granola"
	"github.com/johnquangdev/meeting-archive/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-archive/internal/usecase/archive"
	"github.com/johnquangdev/meeting-archive/internal/usecase/attribution"
	"github.com/johnquangdev/meeting-archive/internal/usecase/directory"
	"github.com/johnquangdev/meeting-archive/internal/usecase/retrieval"
	"github.com/johnquangdev/meeting-archive/pkg/config"
	"github.com/johnquangdev/meeting-archive/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const cacheSweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("server stopped with error", zap.Error(err))
	}
	lg.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	db, err := database.NewPostgresDB(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.CloseDB(db); err != nil {
			lg.Warn("failed to close database", zap.Error(err))
		}
	}()

	// Production deployments should manage schema with archivectl migrate
	if cfg.Database.AutoMigrate {
		if _, err := database.Migrate(db, lg); err != nil {
			return err
		}
	}

	checks := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}

	var store cache.Store
	if cfg.CacheEnabled() {
		redisStore, err := cache.NewRedisStore(ctx, cfg.Redis, lg)
		if err != nil {
			return err
		}
		store = redisStore
		checks["cache"] = redisStore.Ping
	} else {
		store = cache.NewMemoryStore(cacheSweepInterval)
	}
	defer func() { _ = store.Close() }()

	var raw archive.RawStore
	if cfg.StorageEnabled() {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		raw = minioClient
		checks["storage"] = minioClient.Ping
		lg.Info("raw document snapshots enabled", zap.String("bucket", cfg.Storage.BucketName))
	}

	clients := repository.NewClientRepository(db)
	meetings := repository.NewMeetingRepository(db)
	contexts := repository.NewContextRepository(db)

	directorySvc := directory.NewDirectoryService(directory.Repositories{
		Clients:      clients,
		Aliases:      repository.NewAliasRepository(db),
		Integrations: repository.NewIntegrationRepository(db),
		Series:       repository.NewSeriesRepository(db),
		Contexts:     contexts,
	}, store, cfg.DirectoryCacheTTL, lg.Named("directory"))

	engine := attribution.NewEngine(attribution.Config{InternalDomain: cfg.InternalDomain})
	source := granola.NewClient(cfg.Source, lg.Named("source"))
	archiver := archive.NewArchiver(source, meetings, directorySvc, engine, raw, lg.Named("archive"))
	facade := retrieval.NewFacade(meetings, contexts, directorySvc, lg.Named("retrieval"))

	server, err := handler.NewServer(version, archiver, facade, directorySvc, lg.Named("mcp"))
	if err != nil {
		return err
	}

	if cfg.Transport == config.TransportHTTP {
		return serveHTTP(ctx, cfg, server, checks, lg)
	}
	return server.Run(ctx)
}

func serveHTTP(ctx context.Context, cfg *config.Config, server *handler.Server, checks map[string]handler.HealthCheck, lg *zap.Logger) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
		Output: os.Stderr,
	}))
	e.Use(middleware.Recover())

	handler.NewRouter(server, version, checks).Setup(e)

	errCh := make(chan error, 1)
	go func() {
		addr := cfg.GetHTTPAddr()
		lg.Info("starting MCP server on streamable HTTP transport",
			zap.String("addr", addr),
			zap.String("environment", cfg.Environment),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
