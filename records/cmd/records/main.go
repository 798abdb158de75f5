package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/dialdesk-systems/dialdesk-stack/common/logging"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/audit"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/cache"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/config"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/handlers"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/middleware"
	natspub "github.com/dialdesk-systems/dialdesk-stack/records/internal/nats"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/repository"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/server"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/service"
	"github.com/dialdesk-systems/dialdesk-stack/records/pkg/tokens"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("records"))
	logging.SetDefault(logger)

	slog.Info("Starting Records service",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("database", cfg.Database.Type),
	)

	// Repository
	var repo repository.Repository
	if cfg.Database.Type == "postgres" {
		connString := cfg.Database.Postgres.ConnString()

		slog.Info("Connecting to PostgreSQL",
			slog.String("host", cfg.Database.Postgres.Host),
			slog.Int("port", cfg.Database.Postgres.Port),
			slog.String("database", cfg.Database.Postgres.Database),
		)

		pgRepo, err := repository.NewPostgresRepository(context.Background(), connString)
		if err != nil {
			slog.Error("Failed to connect to PostgreSQL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pgRepo.Close()
		repo = pgRepo

		slog.Info("Running database migrations")
		m, err := migrate.New("file://migrations", connString)
		if err != nil {
			slog.Error("Failed to initialize migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			slog.Error("Failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		slog.Warn("Using in-memory repository (development only)")
		repo = repository.NewMemoryRepository()
	}

	// Token cache (optional)
	var tokenCache *cache.TokenCache
	if cfg.Redis.Enabled {
		tokenCache, err = cache.New(context.Background(), cfg.Redis.URL, cfg.Redis.TTL)
		if err != nil {
			slog.Error("Failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer tokenCache.Close()
		slog.Info("Token cache enabled", slog.String("url", cfg.Redis.URL))
	}

	// Audit log, optionally fanned out over NATS
	auditLog := audit.NewLogger(cfg.Auth.AuditSecret, repo, logger)
	if cfg.NATS.Enabled {
		publisher, err := natspub.Connect(cfg.NATS.URL)
		if err != nil {
			slog.Error("Failed to connect to NATS", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer publisher.Close()
		auditLog = auditLog.WithPublisher(publisher)
		slog.Info("Audit event publishing enabled", slog.String("url", cfg.NATS.URL))
	}

	tokenGen := tokens.NewTokenGenerator(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	svc := service.New(repo, tokenGen, auditLog, logger)

	handler := handlers.New(svc, logger)
	authmw := middleware.NewAuthMiddleware(svc, tokenCache)
	router := server.NewRouter(handler, authmw)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Records service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Server stopped gracefully")
}
