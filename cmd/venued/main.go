package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/date-venue-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/date-venue-service/internal/adapter/kafka"
	"github.com/couchcryptid/date-venue-service/internal/adapter/postgres"
	redisadapter "github.com/couchcryptid/date-venue-service/internal/adapter/redis"
	"github.com/couchcryptid/date-venue-service/internal/config"
	"github.com/couchcryptid/date-venue-service/internal/domain"
	"github.com/couchcryptid/date-venue-service/internal/observability"
	"github.com/couchcryptid/date-venue-service/internal/provider"
	"github.com/couchcryptid/date-venue-service/internal/suggest"
	"github.com/couchcryptid/date-venue-service/internal/venue"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ready := []sharedobs.ReadinessChecker{}

	// Result cache: shared Redis when REDIS_ADDR is set, otherwise in-process LRU.
	var cache provider.Cache
	var redisCache *redisadapter.Cache
	switch {
	case cfg.RedisAddr != "":
		redisCache = redisadapter.NewCache(redisadapter.NewClient(cfg.RedisAddr))
		cache = redisCache
		ready = append(ready, redisCache)
		logger.Info("venue cache: redis", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	case cfg.CacheSize > 0:
		cache = provider.NewLRUCache(cfg.CacheSize, clockwork.NewRealClock())
		logger.Info("venue cache: in-memory", "size", cfg.CacheSize, "ttl", cfg.CacheTTL)
	default:
		logger.Info("venue cache disabled")
	}

	providerConfig := func(t domain.ProviderType) provider.Config {
		return provider.FromConfig(cfg, t, cache)
	}

	factory := provider.NewFactory(logger, metrics)
	client := venue.NewClient(factory, venue.Config{
		ProviderType: cfg.Provider,
		Provider:     providerConfig(cfg.Provider),
	}, logger, metrics)
	ready = append(ready, client)

	// Suggestions need a store; the Kafka publisher is optional.
	var suggestions httpadapter.SuggestionService
	var writer *kafkaadapter.Writer
	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		store := postgres.NewStore(pool, logger)
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("failed to prepare database schema", "error", err)
			os.Exit(1)
		}
		ready = append(ready, httpadapter.ReadinessFunc(pool.Ping))

		var publisher suggest.Publisher
		if cfg.KafkaEnabled {
			writer = kafkaadapter.NewWriter(cfg, logger)
			publisher = writer
			logger.Info("suggestion events enabled", "topic", cfg.KafkaSuggestionTopic)
		}
		suggestions = suggest.NewService(client, store, publisher, clockwork.NewRealClock(), logger, metrics)
	} else {
		logger.Info("suggestions disabled: DATABASE_URL not set")
	}

	api := httpadapter.NewAPI(client, providerConfig, suggestions, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.AllReady(ready...), api, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
