// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance: audit event retention
// and GeoIP database refresh.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vibelive/adminpanel/internal/geoip"
	"github.com/vibelive/adminpanel/internal/model"
	"github.com/vibelive/adminpanel/internal/service"
)

// Scheduler owns the cron runner and its maintenance jobs.
type Scheduler struct {
	db            *sql.DB
	cron          *cron.Cron
	logger        *slog.Logger
	events        *service.EventService
	geo           *geoip.Lookup
	retentionDays int
}

// New creates a scheduler instance.
func New(db *sql.DB, logger *slog.Logger, events *service.EventService, geo *geoip.Lookup, retentionDays int) *Scheduler {
	return &Scheduler{
		db:            db,
		cron:          cron.New(),
		logger:        logger,
		events:        events,
		geo:           geo,
		retentionDays: retentionDays,
	}
}

// Start registers the jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	// Prune old audit events nightly
	if s.retentionDays > 0 {
		if _, err := s.cron.AddFunc("30 3 * * *", s.pruneEvents); err != nil {
			return err
		}
	}

	// Pick up replaced GeoIP database files daily
	if s.geo != nil {
		if _, err := s.cron.AddFunc("0 4 * * *", s.reloadGeoIP); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) pruneEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	retention := time.Duration(s.retentionDays) * 24 * time.Hour
	deleted, err := s.events.DeleteOldEvents(ctx, retention)
	if err != nil {
		s.logger.Error("failed to prune audit events", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("pruned audit events", "deleted", deleted, "retention_days", s.retentionDays)
		_ = s.events.LogSystemEvent(ctx, model.EventLevelInfo, "Audit events pruned", nil, "",
			map[string]any{"deleted": deleted, "retention_days": s.retentionDays})
	}
}

func (s *Scheduler) reloadGeoIP() {
	if err := s.geo.Reload(); err != nil {
		s.logger.Warn("failed to reload GeoIP database", "error", err)
	}
}
