package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zatekoja/bizdirectory/internal/adapters/cache"
	"github.com/zatekoja/bizdirectory/internal/adapters/database"
	"github.com/zatekoja/bizdirectory/internal/adapters/search"
	"github.com/zatekoja/bizdirectory/internal/application/services"
	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	"github.com/zatekoja/bizdirectory/internal/domain/repositories"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/clients/redis"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/observability"
	"github.com/zatekoja/bizdirectory/pkg/config"
)

var (
	driverFlag string
	rootCmd    = &cobra.Command{
		Use:           "directoryctl",
		Short:         "Operator CLI for the business directory catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&driverFlag, "driver", "d", "", "Store driver override (postgres|memory)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the components a command needs; close releases the clients.
type app struct {
	catalog *services.CatalogService
	seeder  *services.SeedService
	cfg     *config.Config
	cached  bool
	search  bool
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if driverFlag != "" {
		cfg.App.StoreDriver = driverFlag
	}

	// stdout carries command output
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	observability.SetLevel(cfg.App.LogLevel)

	a := &app{cfg: cfg}

	var store providers.DocumentStore
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		store = database.NewMemoryDocumentStore()
	case config.StoreDriverPostgres:
		pgClient, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = pgClient.Close() })
		pgStore := database.NewPostgresDocumentStore(pgClient)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to ensure document schema: %w", err)
		}
		store = pgStore
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.App.StoreDriver)
	}

	var flusher services.CacheFlusher
	if cfg.App.CacheEnabled {
		if redisClient, err := redis.NewClient(ctx, &cfg.Redis); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, cache will not be flushed")
		} else {
			a.closers = append(a.closers, func() { _ = redisClient.Close() })
			cachedStore := database.NewCachedDocumentStore(store, cache.NewRedisAdapter(redisClient), nil, providers.CollectionBusinesses)
			store = cachedStore
			flusher = cachedStore
			a.cached = true
		}
	}

	var searchRepo repositories.BusinessSearchRepository
	if cfg.Typesense.URL != "" {
		if tsClient, err := typesense.NewClient(ctx, &cfg.Typesense); err != nil {
			log.Warn().Err(err).Msg("typesense unavailable, seeded businesses will not be indexed")
		} else if err := tsClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to init typesense schema")
		} else {
			searchRepo = search.NewTypesenseAdapter(tsClient)
			a.search = true
		}
	}

	businessRepo := database.NewBusinessAdapter(store)
	reviewRepo := database.NewReviewAdapter(store)
	a.catalog = services.NewCatalogService(businessRepo, reviewRepo, database.NewFavoriteAdapter(store), searchRepo, nil)
	a.seeder = services.NewSeedService(businessRepo, reviewRepo, searchRepo, flusher)
	return a, nil
}

// withApp opens the components for the duration of fn
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
