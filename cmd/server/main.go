package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/kioko/tappay/internal/adapter/http"
	"github.com/kioko/tappay/internal/adapter/http/handler"
	"github.com/kioko/tappay/internal/adapter/http/middleware"
	postgresRepo "github.com/kioko/tappay/internal/adapter/repository/postgres"
	redisRepo "github.com/kioko/tappay/internal/adapter/repository/redis"
	"github.com/kioko/tappay/internal/infrastructure/config"
	"github.com/kioko/tappay/internal/infrastructure/eventpublisher"
	"github.com/kioko/tappay/internal/infrastructure/logger"
	"github.com/kioko/tappay/internal/infrastructure/metrics"
	"github.com/kioko/tappay/internal/infrastructure/postgres"
	"github.com/kioko/tappay/internal/infrastructure/redis"
	"github.com/kioko/tappay/internal/risk"
	"github.com/kioko/tappay/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	alertRepo := postgresRepo.NewAlertRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Risk scoring reads the same transaction history the transfers write.
	assessor := risk.NewAggregator(transactionRepo)

	// Events are fire and forget; without Redis-backed delivery they are
	// logged and dropped.
	var publisher usecase.EventPublisher
	if cfg.EventsEnabled {
		publisher = eventpublisher.NewRedisPublisher(redisClient, m)
	} else {
		publisher = eventpublisher.NewLogPublisher(log)
	}

	// Use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen).WithMetrics(m)
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, transactionRepo, alertRepo, assessor, publisher, retrier, idGen, log).WithMetrics(m)
	alertUC := usecase.NewAlertUseCase(alertRepo)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo)

	// Handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	transferHandler := handler.NewTransferHandler(transferUC)
	alertHandler := handler.NewAlertHandler(alertUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC, cfg.ExpectedTotalBalance)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   accountHandler,
		TransferHandler:  transferHandler,
		AlertHandler:     alertHandler,
		LedgerHandler:    ledgerHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		Logger:           log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
