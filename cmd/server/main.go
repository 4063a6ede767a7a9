package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/partytreasury/internal/adapter/http"
	"github.com/iho/partytreasury/internal/adapter/http/handler"
	"github.com/iho/partytreasury/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/partytreasury/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/partytreasury/internal/adapter/repository/redis"
	"github.com/iho/partytreasury/internal/infrastructure/auth"
	"github.com/iho/partytreasury/internal/infrastructure/config"
	"github.com/iho/partytreasury/internal/infrastructure/eventpublisher"
	"github.com/iho/partytreasury/internal/infrastructure/logger"
	"github.com/iho/partytreasury/internal/infrastructure/logging"
	"github.com/iho/partytreasury/internal/infrastructure/metrics"
	"github.com/iho/partytreasury/internal/infrastructure/postgres"
	"github.com/iho/partytreasury/internal/infrastructure/redis"
	"github.com/iho/partytreasury/internal/usecase"
)

// limiterIdleTimeout is how long a client IP may stay quiet before its
// limiter is dropped.
const limiterIdleTimeout = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		stop()
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	appLogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	policy, err := cfg.RemainderPolicy()
	if err != nil {
		return err
	}
	isolation, err := postgresRepo.ParseIsolation(cfg.TxIsolation)
	if err != nil {
		return err
	}

	// Run migrations before the pool starts handing out connections
	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		log.Info().Str("path", cfg.MigrationsPath).Msg("migrations applied")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, redis.Options{
		PoolSize:    cfg.RedisPoolSize,
		DialTimeout: cfg.RedisDialTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics
	registry := newRegistry()
	m := metrics.New(registry)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool, isolation)
	retrier := postgresRepo.NewRetrier(
		postgresRepo.WithMaxRetries(cfg.TxRetries),
		postgresRepo.WithRetryLogger(appLogger.Logger),
	)
	vaultRepo := postgresRepo.NewVaultRepository(pool)
	currencyRepo := postgresRepo.NewCurrencyRepository(pool)
	coinRepo := postgresRepo.NewCoinRepository(pool)
	memberRepo := postgresRepo.NewMemberRepository(pool)
	permissionRepo := postgresRepo.NewPermissionRepository(pool)
	inviteRepo := postgresRepo.NewInviteRepository(pool)
	itemRepo := postgresRepo.NewItemRepository(pool)
	transferRepo := postgresRepo.NewVaultTransferRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Tokens
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	inviteSigner, err := auth.NewInviteSigner(cfg.InviteSecret)
	if err != nil {
		return err
	}

	// Initialize use cases
	userUC := usecase.NewUserUseCase(userRepo, idGen, usecase.WithPasswordCost(cfg.BcryptCost))
	vaultUC := usecase.NewVaultUseCase(txManager, vaultRepo, currencyRepo, memberRepo, permissionRepo, outboxRepo, idGen)
	currencyUC := usecase.NewCurrencyUseCase(txManager, vaultRepo, currencyRepo, outboxRepo, idGen)
	coinUC := usecase.NewCoinUseCase(usecase.CoinUseCaseConfig{
		TxManager:       txManager,
		Retrier:         retrier,
		VaultRepo:       vaultRepo,
		CurrencyRepo:    currencyRepo,
		CoinRepo:        coinRepo,
		MemberRepo:      memberRepo,
		ItemRepo:        itemRepo,
		OutboxRepo:      outboxRepo,
		IDGen:           idGen,
		Cache:           cache,
		BalanceCacheTTL: cfg.BalanceCacheTTL,
		Metrics:         m,
		Logger:          appLogger.Logger,
		DefaultPolicy:   policy,
	})
	itemUC := usecase.NewItemUseCase(txManager, itemRepo, idGen)
	transferUC := usecase.NewTransferUseCase(usecase.TransferUseCaseConfig{
		TxManager:    txManager,
		Retrier:      retrier,
		VaultRepo:    vaultRepo,
		CurrencyRepo: currencyRepo,
		CoinRepo:     coinRepo,
		ItemRepo:     itemRepo,
		TransferRepo: transferRepo,
		OutboxRepo:   outboxRepo,
		Access:       vaultUC,
		IDGen:        idGen,
		Cache:        cache,
		Metrics:      m,
	})
	rewardUC := usecase.NewRewardUseCase(txManager, vaultRepo, currencyRepo, coinRepo, itemRepo, outboxRepo, idGen, cache, m)
	inviteUC := usecase.NewInviteUseCase(usecase.InviteUseCaseConfig{
		TxManager:      txManager,
		VaultRepo:      vaultRepo,
		MemberRepo:     memberRepo,
		PermissionRepo: permissionRepo,
		InviteRepo:     inviteRepo,
		UserRepo:       userRepo,
		OutboxRepo:     outboxRepo,
		Tokens:         inviteSigner,
		IDGen:          idGen,
		TTL:            cfg.InviteTTL,
	})
	activityUC := usecase.NewActivityUseCase(outboxRepo)
	reconUC := usecase.NewReconciliationUseCase(vaultRepo, currencyRepo, coinRepo)

	// Background workers
	publisher, err := eventpublisher.NewPublisher(cfg.EventPublisherSink, redisClient, appLogger.Logger)
	if err != nil {
		return err
	}
	events := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Logger:     appLogger.Logger,
		Interval:   cfg.EventPublisherInterval,
		Retention:  cfg.EventPublisherRetention,
		Observer:   m,
	})
	go func() {
		if err := events.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithObserver(m)
	go cleanupLimiters(ctx, rateLimiter, log)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:      handler.NewAuthHandler(userUC, jwtManager),
		VaultHandler:     handler.NewVaultHandler(vaultUC),
		CurrencyHandler:  handler.NewCurrencyHandler(currencyUC),
		CoinHandler:      handler.NewCoinHandler(coinUC),
		ItemHandler:      handler.NewItemHandler(itemUC),
		TransferHandler:  handler.NewTransferHandler(transferUC),
		RewardHandler:    handler.NewRewardHandler(rewardUC),
		InviteHandler:    handler.NewInviteHandler(inviteUC),
		ActivityHandler:  handler.NewActivityHandler(activityUC, reconUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		TokenVerifier:    jwtManager,
		AccessResolver:   vaultUC,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Observer:         m,
		Gatherer:         registry,
		Logger:           log,
	})

	// Create server
	server := &http.Server{
		Addr:         listenAddr(cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal or a listener failure
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func listenAddr(port string) string {
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, log zerolog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.CleanupLimiters(limiterIdleTimeout); n > 0 {
				log.Debug().Int("removed", n).Msg("dropped idle rate limiters")
			}
		}
	}
}
