// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic on top of the store layer:
// audit event logging, file uploads and generic record management.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/vibelive/adminpanel/internal/model"
	"github.com/vibelive/adminpanel/internal/store"
	"github.com/vibelive/adminpanel/internal/util"
)

// EventService provides audit event logging.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{
		queries: store.New(db),
	}
}

// LogEvent creates a new audit event entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, accountID *int64, ipAddress string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		jsonBytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		AccountID: util.NullInt64FromPtr(accountID),
		Metadata:  metadataJSON,
		IPAddress: ipAddress,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("Failed to log event: %v", err)
		return err
	}

	return nil
}

// LogAuthEvent logs an authentication-related event.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message string, accountID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAuth, message, accountID, ipAddress, metadata)
}

// LogAccountEvent logs an account-management event.
func (s *EventService) LogAccountEvent(ctx context.Context, level, message string, accountID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAccount, message, accountID, ipAddress, metadata)
}

// LogRecordEvent logs an entity record event.
func (s *EventService) LogRecordEvent(ctx context.Context, level, message string, accountID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryRecord, message, accountID, ipAddress, metadata)
}

// LogFileEvent logs a file upload or deletion event.
func (s *EventService) LogFileEvent(ctx context.Context, level, message string, accountID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryFile, message, accountID, ipAddress, metadata)
}

// LogSystemEvent logs a system-related event.
func (s *EventService) LogSystemEvent(ctx context.Context, level, message string, accountID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategorySystem, message, accountID, ipAddress, metadata)
}

// LogImportEvent logs a legacy data import event.
func (s *EventService) LogImportEvent(ctx context.Context, level, message string, accountID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryImport, message, accountID, ipAddress, metadata)
}

// DeleteOldEvents removes events older than the specified duration and
// returns the number of rows deleted.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	return s.queries.DeleteEventsBefore(ctx, cutoff)
}
