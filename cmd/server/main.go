// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nextgame/internal/api"
	"github.com/tomtom215/nextgame/internal/config"
	"github.com/tomtom215/nextgame/internal/curator"
	"github.com/tomtom215/nextgame/internal/database"
	"github.com/tomtom215/nextgame/internal/events"
	"github.com/tomtom215/nextgame/internal/logging"
	"github.com/tomtom215/nextgame/internal/metrics"
	"github.com/tomtom215/nextgame/internal/retrieval"
	"github.com/tomtom215/nextgame/internal/supervisor"
	"github.com/tomtom215/nextgame/internal/supervisor/services"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Int("embedding_dim", cfg.Retrieval.EmbeddingDim).
		Bool("curator_enabled", cfg.Curator.Enabled()).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Str("version", buildVersion()).
		Msg("Starting NextGame with supervisor tree")
	metrics.RecordBuildInfo(buildVersion())

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if count, err := db.CountGames(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Could not count games")
	} else if count == 0 {
		logging.Warn().Msg("The games table is empty; run cmd/ingest before serving recommendations")
	} else {
		logging.Info().Int64("games", count).Msg("Database initialized successfully")
	}

	engine, err := retrieval.NewEngine(database.NewRetrievalStore(db), retrievalConfig(cfg), logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create retrieval engine")
	}

	cur, purge, closeCurator := initCurator(cfg, logger)
	defer closeCurator()

	handler := api.NewHandler(db, engine, cur, cfg)
	snapshots := engine.Snapshots()
	if snapshots != nil {
		handler.SetSnapshotReporter(snapshots)
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security), cfg.Server.StaticDir)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === DATA LAYER ===
	if snapshots != nil {
		tree.AddDataService(services.NewCorpusRefreshService(snapshots, services.CorpusRefreshConfig{
			WarmOnStartup: true,
			Interval:      cfg.Retrieval.SnapshotRefreshInterval,
			Timeout:       cfg.Retrieval.SnapshotBuildTimeout,
		}, logger))
		logging.Info().Dur("interval", cfg.Retrieval.SnapshotRefreshInterval).Msg("Corpus refresh service added")
	} else {
		logging.Info().Msg("Corpus snapshot disabled (SNAPSHOT_ENABLED=false); every request scans the corpus")
	}

	// === MESSAGING LAYER ===
	hooks := []services.CorpusChangeHook{handler.OnCorpusChanged}
	if snapshots != nil {
		hooks = append(hooks, func(context.Context, *events.CorpusChanged) { snapshots.Invalidate() })
	}
	if purge != nil {
		hooks = append(hooks, func(ctx context.Context, _ *events.CorpusChanged) {
			if err := purge(); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Msg("Failed to purge curator cache")
			}
		})
	}
	closeNATS := initNATS(cfg, tree, logger, hooks)
	defer closeNATS()

	// === API LAYER ===
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logger))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	for layer, names := range tree.Services() {
		logging.Info().Str("layer", layer.String()).Strs("services", names).Msg("Supervised services")
	}
	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

func retrievalConfig(cfg *config.Config) *retrieval.Config {
	return &retrieval.Config{
		Dim:     cfg.Retrieval.EmbeddingDim,
		MaxTopN: cfg.Retrieval.MaxTopN,
		Snapshot: retrieval.SnapshotConfig{
			Enabled:      cfg.Retrieval.SnapshotEnabled,
			MaxAge:       cfg.Retrieval.SnapshotMaxAge,
			BuildTimeout: cfg.Retrieval.SnapshotBuildTimeout,
		},
	}
}

// initCurator builds client -> circuit breaker -> Badger cache. purge is
// nil when no cache is configured.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initCurator(cfg *config.Config, logger zerolog.Logger) (cur curator.Curator, purge func() error, closeFn func()) {
	closeFn = func() {}
	if !cfg.Curator.Enabled() {
		logging.Warn().Msg("Curator disabled (GEMINI_API_KEY not set); recommend endpoints will answer 503")
		return curator.Disabled{}, nil, closeFn
	}

	cur = curator.NewCircuitBreakerCurator(curator.NewClient(&cfg.Curator, logger))
	logging.Info().Str("model", cfg.Curator.Model).Msg("Curator client initialized")

	if !cfg.Curator.CacheEnabled {
		return cur, nil, closeFn
	}
	cache, err := curator.NewBadgerCache(cur, &cfg.Curator, logger)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to open curator cache, continuing uncached")
		return cur, nil, closeFn
	}
	logging.Info().Str("path", cfg.Curator.CachePath).Dur("ttl", cfg.Curator.CacheTTL).Msg("Curator cache opened")
	return cache, cache.Purge, func() {
		if err := cache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing curator cache")
		}
	}
}

// initNATS starts the optional embedded server and the corpus-change
// subscriber. A subscriber that cannot connect is not fatal: the periodic
// snapshot refresh still picks up new ingests.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initNATS(cfg *config.Config, tree *supervisor.SupervisorTree, logger zerolog.Logger, hooks []services.CorpusChangeHook) func() {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("NATS disabled (NATS_ENABLED=false)")
		return func() {}
	}

	natsCfg := cfg.NATS
	if natsCfg.EmbeddedServer {
		srv, err := events.NewEmbeddedServer("127.0.0.1", natsCfg.EmbeddedPort)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to start embedded NATS server")
		}
		natsCfg.URL = srv.ClientURL()
		tree.AddMessagingService(services.NewEmbeddedNATSService(srv, natsCfg.CloseTimeout))
		logging.Info().Str("url", natsCfg.URL).Msg("Embedded NATS server started")
	}

	sub, err := events.NewSubscriber(&natsCfg, logging.NewWatermillAdapter(logger))
	if err != nil {
		logging.Warn().Err(err).Str("url", natsCfg.URL).Msg("Corpus event subscriber unavailable; relying on periodic snapshot refresh")
		return func() {}
	}
	tree.AddMessagingService(services.NewCorpusEventService(sub, logger, hooks...))
	logging.Info().Str("topic", natsCfg.Topic).Int("hooks", len(hooks)).Msg("Corpus event service added")

	return func() {
		if err := sub.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing corpus event subscriber")
		}
	}
}

// buildVersion is the main module version stamped by the go tool, or
// "dev" for local builds.
func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}
