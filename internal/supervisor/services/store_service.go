// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/metrics"
)

// DefaultCheckpointInterval is used when the configured interval is zero.
const DefaultCheckpointInterval = 5 * time.Minute

const maintenanceTimeout = 30 * time.Second

// StoreMaintainer is the part of the DuckDB handle the maintenance loop needs.
type StoreMaintainer interface {
	Ping(ctx context.Context) error
	Checkpoint(ctx context.Context) error
}

// StoreMaintenanceService pings the signal store and flushes its WAL on a
// fixed interval. Failures are logged and counted, never returned: the store
// is shared with the read path and a restart would not repair it.
type StoreMaintenanceService struct {
	store    StoreMaintainer
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewStoreMaintenanceService creates the data-layer maintenance service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStoreMaintenanceService(store StoreMaintainer, interval time.Duration, logger zerolog.Logger) *StoreMaintenanceService {
	if interval <= 0 {
		interval = DefaultCheckpointInterval
	}
	return &StoreMaintenanceService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("service", "store-maintenance").Logger(),
		name:     "store-maintenance",
	}
}

// Serve implements suture.Service.
func (s *StoreMaintenanceService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("store maintenance starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("store maintenance shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce pings, then checkpoints only a reachable store.
func (s *StoreMaintenanceService) runOnce(ctx context.Context) {
	opCtx, cancel := context.WithTimeout(ctx, maintenanceTimeout)
	defer cancel()

	start := time.Now()
	err := s.store.Ping(opCtx)
	metrics.RecordStoreRead("maintenance_ping", time.Since(start), err)
	if err != nil {
		s.logger.Warn().Err(err).Msg("signal store ping failed")
		return
	}

	start = time.Now()
	err = s.store.Checkpoint(opCtx)
	metrics.RecordStoreRead("maintenance_checkpoint", time.Since(start), err)
	if err != nil {
		s.logger.Warn().Err(err).Msg("checkpoint failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("checkpoint complete")
}

// String returns the service name for logging.
func (s *StoreMaintenanceService) String() string {
	return s.name
}
