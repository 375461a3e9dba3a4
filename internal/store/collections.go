// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/vibelive/adminpanel/internal/model"
)

const collectionColumns = `name, title, page, columns, created_at, updated_at`

func scanCollection(s scanner) (model.Collection, error) {
	var c model.Collection
	var columns string
	err := s.Scan(&c.Name, &c.Title, &c.Page, &columns, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Collection{}, err
	}
	c.Columns, err = model.ColumnsFromJSON(columns)
	if err != nil {
		return model.Collection{}, err
	}
	return c, nil
}

// UpsertCollectionParams holds parameters for UpsertCollection.
type UpsertCollectionParams struct {
	Name      string
	Title     string
	Page      string
	Columns   []model.Column
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertCollection registers a collection or refreshes its schema.
// Column types outside the semantic set are rejected before anything
// is written.
func (q *Queries) UpsertCollection(ctx context.Context, arg UpsertCollectionParams) (model.Collection, error) {
	for _, c := range arg.Columns {
		if !model.IsSemanticType(c.Type) {
			return model.Collection{}, fmt.Errorf("collection %s: column %s has unknown type %q", arg.Name, c.Key, c.Type)
		}
	}

	columns, err := model.ColumnsToJSON(arg.Columns)
	if err != nil {
		return model.Collection{}, err
	}
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO collections (name, title, page, columns, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			title = excluded.title,
			page = excluded.page,
			columns = excluded.columns,
			updated_at = excluded.updated_at
		RETURNING `+collectionColumns,
		arg.Name, arg.Title, arg.Page, columns, arg.CreatedAt, arg.UpdatedAt)
	return scanCollection(row)
}

// GetCollection returns the collection with the given name.
func (q *Queries) GetCollection(ctx context.Context, name string) (model.Collection, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE name = ?`, name)
	return scanCollection(row)
}

// ListCollections returns all registered collections in name order.
func (q *Queries) ListCollections(ctx context.Context) ([]model.Collection, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+collectionColumns+` FROM collections ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []model.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}
