// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/hokuto-labs/anirec/internal/recommend"
	"github.com/hokuto-labs/anirec/internal/recommend/storage"
)

// ModelService is the service surface the scheduler drives.
type ModelService interface {
	Rebuild(ctx context.Context) error
	RestoreSnapshot(ctx context.Context, snap *storage.Snapshot) error
	Snapshot() (*storage.Snapshot, error)
}

// SnapshotStore persists trained models between restarts.
type SnapshotStore interface {
	Save(snap *storage.Snapshot) error
	LoadLatest() (*storage.Snapshot, error)
}

// RebuildService retrains the model on a fixed interval. On startup it
// restores the latest snapshot when one exists, otherwise trains from
// scratch. A failed cycle is logged and retried at the next tick; it
// never takes the process down.
type RebuildService struct {
	svc      ModelService
	store    SnapshotStore
	interval time.Duration
	timeout  time.Duration
	initial  bool
	logger   zerolog.Logger
}

// NewRebuildService builds the scheduler. store may be nil to disable
// snapshot persistence.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRebuildService(svc ModelService, store SnapshotStore, interval, timeout time.Duration, trainOnStartup bool, logger zerolog.Logger) *RebuildService {
	return &RebuildService{
		svc:      svc,
		store:    store,
		interval: interval,
		timeout:  timeout,
		initial:  trainOnStartup,
		logger:   logger,
	}
}

// Serve runs the rebuild loop until ctx is cancelled.
func (s *RebuildService) Serve(ctx context.Context) error {
	if s.initial {
		s.startup(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// startup restores a persisted model when available so the API serves
// immediately, then falls back to a full rebuild.
func (s *RebuildService) startup(ctx context.Context) {
	if s.store != nil {
		snap, err := s.store.LoadLatest()
		switch {
		case err == nil:
			restoreErr := s.svc.RestoreSnapshot(ctx, snap)
			if restoreErr == nil {
				return
			}
			s.logger.Warn().Err(restoreErr).Msg("snapshot restore failed; training from scratch")
		case errors.Is(err, storage.ErrNoSnapshot):
			s.logger.Debug().Msg("no model snapshot; training from scratch")
		default:
			s.logger.Warn().Err(err).Msg("snapshot load failed; training from scratch")
		}
	}
	s.runCycle(ctx)
}

func (s *RebuildService) runCycle(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.svc.Rebuild(cycleCtx); err != nil {
		if errors.Is(err, recommend.ErrTrainingInProgress) {
			s.logger.Debug().Msg("rebuild skipped; training already running")
			return
		}
		s.logger.Error().Err(err).Msg("model rebuild failed")
		return
	}

	if s.store == nil {
		return
	}
	snap, err := s.svc.Snapshot()
	if err != nil {
		s.logger.Warn().Err(err).Msg("snapshot export failed")
		return
	}
	if err := s.store.Save(snap); err != nil {
		s.logger.Warn().Err(err).Msg("snapshot save failed")
	}
}

// String names the service in supervisor logs.
func (s *RebuildService) String() string {
	return "model-rebuild"
}
