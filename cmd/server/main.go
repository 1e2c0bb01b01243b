package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/garrettladley/titohook/internal/config"
	"github.com/garrettladley/titohook/internal/migrations"
	"github.com/garrettladley/titohook/internal/migrations/postgres"
	xredis "github.com/garrettladley/titohook/internal/redis"
	"github.com/garrettladley/titohook/internal/server/handler"
	servermw "github.com/garrettladley/titohook/internal/server/middleware"
	"github.com/garrettladley/titohook/internal/service/agenda"
	"github.com/garrettladley/titohook/internal/service/notification"
	"github.com/garrettladley/titohook/internal/service/webhook"
	"github.com/garrettladley/titohook/internal/storage"
	"github.com/garrettladley/titohook/internal/xhttp/middleware"
	"github.com/garrettladley/titohook/internal/xslog"
)

const (
	keyPort = "port"

	shutdownTimeout = 30 * time.Second
	hstsMaxAge      = 365 * 24 * time.Hour
)

func main() {
	_ = godotenv.Load()

	logger := xslog.NewLoggerFromEnv(os.Stdout)
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", xslog.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Read()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	ctx = xslog.WithLogger(ctx, logger)

	if cfg.Tito.WebhookSecret == "" {
		logger.WarnContext(ctx, "TITO_WEBHOOK_SECRET is not set; webhook endpoint will answer 404")
	}

	pingers := make(map[string]storage.Pinger)
	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.ErrorContext(ctx, "failed to close resource", xslog.Error(err))
			}
		}
	}()

	var pool *pgxpool.Pool
	if cfg.Database.URL != "" {
		pool, err = initPostgres(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize postgres: %w", err)
		}
		defer pool.Close()
		pingers["postgres"] = pool
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = xredis.New(ctx, xredis.Config{URL: cfg.Redis.URL})
		if err != nil {
			return fmt.Errorf("failed to initialize redis client: %w", err)
		}
		closers = append(closers, redisClient)
		pingers["redis"] = storage.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	dedupe, err := initDedupeStore(ctx, cfg, pool, redisClient, logger, &closers)
	if err != nil {
		return fmt.Errorf("failed to initialize dedupe store: %w", err)
	}
	if p, ok := dedupe.(*storage.SQLiteDedupeStore); ok {
		pingers["sqlite"] = p
	}

	orders, tickets := initQueues(ctx, cfg, redisClient, logger)
	limiter := initRateLimiter(ctx, cfg, redisClient, logger, &closers)

	// Services
	publisher := notification.NewPublisher(orders, tickets)
	webhookService := webhook.NewProcessor(cfg.Tito.WebhookSecret, dedupe, publisher)

	// Handlers
	webhookHandler := handler.NewWebhook(webhookService)
	healthHandler := handler.NewHealth(pingers)

	mux := http.NewServeMux()
	mux.Handle("POST /webhooks/tito", middleware.Chain(
		http.HandlerFunc(webhookHandler.HandleTito),
		servermw.RateLimit(limiter, servermw.WithTrustedProxyHops(cfg.RateLimit.TrustedProxyHops)),
	))
	mux.HandleFunc("GET /health", healthHandler.HandleHealth)

	if pool != nil {
		agendaService := agenda.New(
			storage.NewPostgresAgendaStore(pool),
			agenda.WithAvailableFrom(cfg.Agenda.AvailableFrom),
		)
		agendaHandler := handler.NewAgenda(agendaService)
		mux.Handle("GET /agenda", middleware.Gzip(http.HandlerFunc(agendaHandler.HandleGet)))
	} else {
		logger.InfoContext(ctx, "DATABASE_URL not set; agenda endpoint disabled")
	}

	var securityOpts []middleware.SecurityHeadersOption
	if cfg.Env.IsProduction() {
		securityOpts = append(securityOpts, middleware.WithHSTS(hstsMaxAge))
	}

	wrapped := middleware.Chain(mux,
		middleware.Recovery,
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Logging,
		middleware.SecurityHeaders(securityOpts...),
	)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           wrapped,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting server",
			xslog.Version(),
			slog.String(keyPort, cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-done:
		logger.InfoContext(ctx, "shutdown signal received, initiating graceful shutdown")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.InfoContext(ctx, "server stopped")
	return nil
}

func initPostgres(ctx context.Context, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger.InfoContext(ctx, "initializing PostgreSQL")

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if _, err := postgres.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return pool, nil
}

func initDedupeStore(
	ctx context.Context,
	cfg config.Config,
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	logger *slog.Logger,
	closers *[]io.Closer,
) (storage.DedupeStore, error) {
	logger.InfoContext(ctx, "initializing dedupe store", xslog.Backend(string(cfg.Dedupe.Backend)))

	switch cfg.Dedupe.Backend {
	case config.DedupeBackendPostgres:
		return storage.NewPostgresDedupeStore(pool), nil
	case config.DedupeBackendRedis:
		return storage.NewRedisDedupeStore(storage.RedisConfig{Client: redisClient}, cfg.Dedupe.TTL), nil
	case config.DedupeBackendSQLite:
		db, err := migrations.Open(ctx, cfg.Dedupe.SQLitePath)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, db)
		if _, err := migrations.Apply(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to apply sqlite migrations: %w", err)
		}
		return storage.NewSQLiteDedupeStore(db), nil
	case config.DedupeBackendMemory:
		logger.WarnContext(ctx, "memory dedupe store does not survive restarts")
		return storage.NewMemoryDedupeStore(), nil
	default:
		return nil, fmt.Errorf("unknown dedupe backend %q", cfg.Dedupe.Backend)
	}
}

func initQueues(ctx context.Context, cfg config.Config, redisClient *redis.Client, logger *slog.Logger) (storage.Queue, storage.Queue) {
	if redisClient == nil {
		logger.WarnContext(ctx, "REDIS_URL not set; notifications go to in-memory queues")
		return storage.NewMemoryQueue(cfg.Queue.Order), storage.NewMemoryQueue(cfg.Queue.Ticket)
	}

	logger.InfoContext(ctx, "initializing Redis queues",
		slog.Group("queues",
			slog.String("order", cfg.Queue.Order),
			slog.String("ticket", cfg.Queue.Ticket)))
	rc := storage.RedisConfig{Client: redisClient}
	return storage.NewRedisQueue(rc, cfg.Queue.Order), storage.NewRedisQueue(rc, cfg.Queue.Ticket)
}

func initRateLimiter(ctx context.Context, cfg config.Config, redisClient *redis.Client, logger *slog.Logger, closers *[]io.Closer) storage.RateLimiter {
	if redisClient != nil {
		logger.InfoContext(ctx, "initializing Redis rate limiter")
		return storage.NewRedisRateLimiter(storage.RedisConfig{Client: redisClient}, cfg.RateLimit.Limit, cfg.RateLimit.Burst)
	}

	logger.InfoContext(ctx, "initializing in-memory rate limiter")
	limiter := storage.NewMemoryRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Burst)
	*closers = append(*closers, limiter)
	return limiter
}
