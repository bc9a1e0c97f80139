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

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/bizdirectory/internal/adapters/cache"
	"github.com/zatekoja/bizdirectory/internal/adapters/database"
	"github.com/zatekoja/bizdirectory/internal/adapters/identity"
	"github.com/zatekoja/bizdirectory/internal/adapters/search"
	"github.com/zatekoja/bizdirectory/internal/api/handlers"
	"github.com/zatekoja/bizdirectory/internal/api/middleware"
	"github.com/zatekoja/bizdirectory/internal/api/routes"
	"github.com/zatekoja/bizdirectory/internal/application/services"
	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	"github.com/zatekoja/bizdirectory/internal/domain/repositories"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/clients/redis"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/observability"
	"github.com/zatekoja/bizdirectory/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env)
	observability.SetLevel(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	store, closeStore, err := openDocumentStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.App.StoreDriver).Msg("failed to open document store")
	}
	defer closeStore()
	store = database.NewInstrumentedDocumentStore(store, metrics)

	// Redis is optional: without it the store is uncached and rate limits and
	// token revocations are kept in process.
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var flusher services.CacheFlusher
	if cacheProvider != nil && cfg.App.CacheEnabled {
		cached := database.NewCachedDocumentStore(store, cacheProvider, metrics, providers.CollectionBusinesses)
		store = cached
		flusher = cached
		log.Info().Msg("document store wrapped with caching layer")
	}

	var searchRepo repositories.BusinessSearchRepository
	if cfg.Typesense.URL != "" {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("typesense unavailable, suggestions fall back to filtering")
		} else if err := tsClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to init typesense schema")
		} else {
			searchRepo = search.NewTypesenseAdapter(tsClient)
		}
	}

	businessRepo := database.NewBusinessAdapter(store)
	reviewRepo := database.NewReviewAdapter(store)
	favoriteRepo := database.NewFavoriteAdapter(store)
	accountRepo := database.NewAccountAdapter(store)

	catalog := services.NewCatalogService(businessRepo, reviewRepo, favoriteRepo, searchRepo, metrics)
	seeder := services.NewSeedService(businessRepo, reviewRepo, searchRepo, flusher)

	if cfg.App.SeedOnStartup {
		result, err := seeder.Seed(ctx)
		switch {
		case err != nil:
			log.Error().Err(err).Msg("failed to seed catalog")
		case result.Skipped:
			log.Info().Msg("catalog already populated, seed skipped")
		default:
			log.Info().Int("businesses", len(result.Businesses)).Int("reviews", result.Reviews).Msg("catalog seeded")
		}
	}

	factory := identity.NewFactory(
		accountRepo,
		identity.NewTokenIssuer(&cfg.Auth),
		identity.NewRevocations(cacheProvider),
		nil,
		cfg.Auth.ResetURL,
	)

	limiter := handlers.NewRateLimiter(cacheProvider, metrics)
	router := routes.NewRouter(
		handlers.NewBusinessHandler(catalog, limiter),
		handlers.NewFavoriteHandler(catalog),
		handlers.NewAuthHandler(limiter),
		middleware.NewSessionMiddleware(factory, businessRepo),
		cfg.Server.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}

// openDocumentStore opens the configured backing store. The returned close
// function is always safe to call.
func openDocumentStore(ctx context.Context, cfg *config.Config) (providers.DocumentStore, func(), error) {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("using in-memory document store, data is lost on restart")
		return database.NewMemoryDocumentStore(), func() {}, nil
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := pgClient.Close(); err != nil {
			log.Error().Err(err).Msg("error closing postgres client")
		}
	}

	pgStore := database.NewPostgresDocumentStore(pgClient)
	if err := pgStore.EnsureSchema(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to ensure document schema: %w", err)
	}
	return pgStore, closeFn, nil
}
