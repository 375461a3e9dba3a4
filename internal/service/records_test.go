// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/vibelive/adminpanel/internal/access"
	"github.com/vibelive/adminpanel/internal/model"
	"github.com/vibelive/adminpanel/internal/store"
)

// openRecordTestDB opens a migrated temp database without any seed
// data.
func openRecordTestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "panel-service-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	return db
}

func setupRecordTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db := openRecordTestDB(t)

	now := time.Now()
	q := store.New(db)
	collections := []store.UpsertCollectionParams{
		{
			Name:  "Gift",
			Title: "Gifts",
			Page:  access.PageGifts,
			Columns: []model.Column{
				{Key: "name", Label: "Name", Type: model.TypeText, Required: true},
				{Key: "price", Label: "Price", Type: model.TypeNumber},
				{Key: "animated", Label: "Animated", Type: model.TypeBoolean},
				{Key: "status", Label: "Status", Type: model.TypeStatus},
				{Key: "released_at", Label: "Released", Type: model.TypeDate},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			Name:  "Announcement",
			Title: "Announcements",
			Page:  access.PageAnnouncements,
			Columns: []model.Column{
				{Key: "title", Label: "Title", Type: model.TypeText, Required: true},
				{Key: "body", Label: "Body", Type: model.TypeText},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	for _, c := range collections {
		if _, err := q.UpsertCollection(context.Background(), c); err != nil {
			t.Fatalf("UpsertCollection %s: %v", c.Name, err)
		}
	}

	return db
}

func TestCreateRecord(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewRecordService(db, nil)
	ctx := context.Background()

	rec, err := svc.Create(ctx, "Gift", map[string]any{
		"name":     "Golden Rose",
		"price":    float64(500),
		"animated": true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rec.ID == "" {
		t.Error("expected a generated id")
	}
	if rec.Fields["name"] != "Golden Rose" {
		t.Errorf(`Fields["name"] = %v, want "Golden Rose"`, rec.Fields["name"])
	}

	got, err := svc.Get(ctx, "Gift", rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Fields["price"] != float64(500) {
		t.Errorf(`Fields["price"] = %v, want 500`, got.Fields["price"])
	}
}

func TestCreateRecord_Validation(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewRecordService(db, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		fields map[string]any
		bad    string
	}{
		{"missing required", map[string]any{"price": float64(1)}, "name"},
		{"unknown field", map[string]any{"name": "x", "color": "red"}, "color"},
		{"wrong type for number", map[string]any{"name": "x", "price": "free"}, "price"},
		{"wrong type for boolean", map[string]any{"name": "x", "animated": "yes"}, "animated"},
		{"bad date", map[string]any{"name": "x", "released_at": "tomorrow"}, "released_at"},
		{"null required", map[string]any{"name": nil}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "Gift", tt.fields)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if _, ok := verr.Fields[tt.bad]; !ok {
				t.Errorf("Fields = %v, want entry for %q", verr.Fields, tt.bad)
			}
		})
	}
}

func TestCreateRecord_UnknownCollection(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewRecordService(db, nil)

	_, err := svc.Create(context.Background(), "Nope", map[string]any{})
	if !errors.Is(err, ErrUnknownCollection) {
		t.Errorf("err = %v, want ErrUnknownCollection", err)
	}
}

func TestUpdateRecord_MergesFields(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewRecordService(db, nil)
	ctx := context.Background()

	rec, err := svc.Create(ctx, "Gift", map[string]any{
		"name":     "Teddy",
		"price":    float64(100),
		"animated": false,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Update one key, delete another, leave the rest alone.
	updated, err := svc.Update(ctx, "Gift", rec.ID, map[string]any{
		"price":    float64(150),
		"animated": nil,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Fields["price"] != float64(150) {
		t.Errorf(`Fields["price"] = %v, want 150`, updated.Fields["price"])
	}
	if updated.Fields["name"] != "Teddy" {
		t.Errorf(`Fields["name"] = %v, want "Teddy" (untouched)`, updated.Fields["name"])
	}
	if _, present := updated.Fields["animated"]; present {
		t.Error(`Fields["animated"] should have been removed by the nil value`)
	}
}

func TestUpdateRecord_NotFound(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewRecordService(db, nil)

	_, err := svc.Update(context.Background(), "Gift", "missing", map[string]any{"price": float64(1)})
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestDeleteRecord(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewRecordService(db, nil)
	ctx := context.Background()

	rec, err := svc.Create(ctx, "Gift", map[string]any{"name": "Sports Car"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, "Gift", rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.Get(ctx, "Gift", rec.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrRecordNotFound", err)
	}

	// Deleting the same id again must report not found.
	if err := svc.Delete(ctx, "Gift", rec.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("second Delete: err = %v, want ErrRecordNotFound", err)
	}
}

func TestBulkDelete(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewRecordService(db, nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, "Gift", map[string]any{"name": "A"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := svc.Create(ctx, "Gift", map[string]any{"name": "B"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	outcomes, err := svc.BulkDelete(ctx, "Gift", []string{a.ID, "missing", b.ID})
	if err != nil {
		t.Fatalf("BulkDelete: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("len(outcomes) = %d, want 3", len(outcomes))
	}

	if !outcomes[0].Deleted || !outcomes[2].Deleted {
		t.Errorf("existing ids should be deleted: %+v", outcomes)
	}
	if outcomes[1].Deleted || outcomes[1].Error != "" {
		t.Errorf("missing id should report not deleted without error: %+v", outcomes[1])
	}
}

func TestAnnouncementMarkdownRendering(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewRecordService(db, nil)
	ctx := context.Background()

	rec, err := svc.Create(ctx, "Announcement", map[string]any{
		"title": "Maintenance",
		"body":  "**Servers down** tonight <script>alert(1)</script>",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	html, ok := rec.Fields["body_html"].(string)
	if !ok {
		t.Fatalf(`Fields["body_html"] = %v, want rendered string`, rec.Fields["body_html"])
	}
	if !strings.Contains(html, "<strong>Servers down</strong>") {
		t.Errorf("html = %q, want bold rendering", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("html = %q, script tags must be stripped", html)
	}
	if rec.Fields["body"] != "**Servers down** tonight <script>alert(1)</script>" {
		t.Error("markdown source must be stored unchanged")
	}
}

// TestAnnouncementMarkdown_SeededSchema runs against the schema the
// binary actually ships, so a drift between the seed and the rendering
// keys fails here.
func TestAnnouncementMarkdown_SeededSchema(t *testing.T) {
	db := openRecordTestDB(t)
	ctx := context.Background()

	if err := store.Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	svc := NewRecordService(db, nil)

	rec, err := svc.Create(ctx, "Announcement", map[string]any{
		"title": "Ramadan event",
		"body":  "Gifts are **double coins** this week",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	html, ok := rec.Fields["body_html"].(string)
	if !ok || !strings.Contains(html, "<strong>double coins</strong>") {
		t.Errorf(`Fields["body_html"] = %v, want rendered HTML`, rec.Fields["body_html"])
	}

	// The rendered companion key survives a partial update of the body.
	updated, err := svc.Update(ctx, "Announcement", rec.ID, map[string]any{
		"body": "Event *extended*",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	html, _ = updated.Fields["body_html"].(string)
	if !strings.Contains(html, "<em>extended</em>") {
		t.Errorf("body_html after update = %q, want re-rendered HTML", html)
	}
}

func TestListRecords_ClampsLimits(t *testing.T) {
	db := setupRecordTestDB(t)
	svc := NewRecordService(db, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Gift", map[string]any{"name": "Only"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := svc.List(ctx, "Gift", 0, -5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Limit != DefaultListLimit {
		t.Errorf("Limit = %d, want default %d", res.Limit, DefaultListLimit)
	}
	if res.Skip != 0 {
		t.Errorf("Skip = %d, want 0", res.Skip)
	}
	if res.Total != 1 {
		t.Errorf("Total = %d, want 1", res.Total)
	}

	res, err = svc.List(ctx, "Gift", 5000, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Limit != MaxListLimit {
		t.Errorf("Limit = %d, want max %d", res.Limit, MaxListLimit)
	}
}
