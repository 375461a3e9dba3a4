// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/vibelive/adminpanel/internal/model"
)

const eventColumns = `id, level, category, message, account_id, metadata, ip_address, created_at`

func scanEvent(s scanner) (model.Event, error) {
	var e model.Event
	err := s.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.AccountID,
		&e.Metadata, &e.IPAddress, &e.CreatedAt)
	if err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// CreateEventParams holds parameters for CreateEvent.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	AccountID sql.NullInt64
	Metadata  string
	IPAddress string
	CreatedAt time.Time
}

// CreateEvent inserts an audit log entry.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO events (level, category, message, account_id, metadata, ip_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+eventColumns,
		arg.Level, arg.Category, arg.Message, arg.AccountID, arg.Metadata,
		arg.IPAddress, arg.CreatedAt)
	return scanEvent(row)
}

// ListEventsParams holds parameters for ListEvents. Empty Level or
// Category means no filter on that column.
type ListEventsParams struct {
	Level    string
	Category string
	Limit    int64
	Offset   int64
}

// ListEvents returns events, newest first, optionally filtered.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE (? = '' OR level = ?) AND (? = '' OR category = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		arg.Level, arg.Level, arg.Category, arg.Category, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountEventsParams holds filter parameters for CountEvents.
type CountEventsParams struct {
	Level    string
	Category string
}

// CountEvents returns the number of events matching the filters.
func (q *Queries) CountEvents(ctx context.Context, arg CountEventsParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM events
		WHERE (? = '' OR level = ?) AND (? = '' OR category = ?)`,
		arg.Level, arg.Level, arg.Category, arg.Category).Scan(&count)
	return count, err
}

// DeleteEventsBefore removes events created before the cutoff.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
