// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

// Command server runs the anirec HTTP API.
//
// Startup order: configuration, logging, dataset load, recommendation
// service, then the supervision tree with the HTTP server and the
// periodic model rebuild scheduler. SIGINT/SIGTERM shut the tree down
// gracefully.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/hokuto-labs/anirec/internal/api"
	"github.com/hokuto-labs/anirec/internal/config"
	"github.com/hokuto-labs/anirec/internal/dataset"
	"github.com/hokuto-labs/anirec/internal/logging"
	"github.com/hokuto-labs/anirec/internal/recommend"
	"github.com/hokuto-labs/anirec/internal/recommend/reranking"
	"github.com/hokuto-labs/anirec/internal/recommend/storage"
	"github.com/hokuto-labs/anirec/internal/supervisor"
	"github.com/hokuto-labs/anirec/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.Logging); err != nil {
		return err
	}
	logger := logging.Logger()

	loader := dataset.NewLoader(logging.With("dataset"))
	loader.SkipOrphans = cfg.Data.SkipOrphans

	cat, err := loader.LoadCatalog(cfg.Data.CatalogPath)
	if err != nil {
		return err
	}
	matrix, err := loader.LoadRatings(cfg.Data.RatingsPath, cat)
	if err != nil {
		return err
	}

	svc, err := recommend.NewService(cfg.Recommend, cat, matrix, reranking.FromStrength, logging.With("recommend"))
	if err != nil {
		return err
	}

	var store *storage.Store
	if cfg.Snapshot.Enabled {
		store, err = storage.Open(cfg.Snapshot.Dir, logging.With("storage"))
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn().Err(err).Msg("closing snapshot store failed")
			}
		}()
	}

	handlers := api.NewHandlers(svc, logging.With("api"))
	router := api.NewRouter(&cfg.Server, handlers, logging.With("http"))
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree := supervisor.New(logging.With("supervisor"))
	tree.Add(services.NewHTTPService(httpServer, cfg.Server.Addr(), cfg.Server.ShutdownTimeout, logging.With("http")))

	// The interface holds a typed nil if a nil *storage.Store is passed
	// directly.
	var snapStore services.SnapshotStore
	if store != nil {
		snapStore = store
	}
	tree.Add(services.NewRebuildService(
		svc,
		snapStore,
		cfg.Training.Interval,
		cfg.Training.Timeout,
		cfg.Training.OnStartup,
		logging.With("rebuild"),
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("addr", cfg.Server.Addr()).
		Int("anime", cat.Len()).
		Int("ratings", matrix.NumRatings()).
		Msg("anirec starting")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info().Msg("anirec stopped")
	return nil
}
