package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/vibelive/adminpanel/internal/access"
	"github.com/vibelive/adminpanel/internal/model"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "panel-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

// testCollection registers a collection so record rows satisfy the
// class_name foreign key.
func testCollection(t *testing.T, q *Queries, name string) {
	t.Helper()

	now := time.Now()
	_, err := q.UpsertCollection(context.Background(), UpsertCollectionParams{
		Name:      name,
		Title:     name,
		Page:      access.PageGifts,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("UpsertCollection: %v", err)
	}
}

func TestCreateAccount(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	now := time.Now()
	account, err := q.CreateAccount(ctx, CreateAccountParams{
		Username:     "moderator",
		Email:        "mod@example.com",
		PasswordHash: "hashed-password",
		Role:         "editor",
		AllowedPages: []string{access.PageGifts, access.PageUsers},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	if account.ID == 0 {
		t.Error("account.ID should not be 0")
	}
	if account.Username != "moderator" {
		t.Errorf("Username = %q, want %q", account.Username, "moderator")
	}
	if account.Role != "editor" {
		t.Errorf("Role = %q, want %q", account.Role, "editor")
	}
	if len(account.AllowedPages) != 2 {
		t.Fatalf("AllowedPages = %v, want 2 entries", account.AllowedPages)
	}
	if account.AllowedPages[0] != access.PageGifts {
		t.Errorf("AllowedPages[0] = %q, want %q", account.AllowedPages[0], access.PageGifts)
	}
}

func TestUpdateAccountAccess(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	now := time.Now()
	created, err := q.CreateAccount(ctx, CreateAccountParams{
		Username:     "promoted",
		PasswordHash: "hash",
		Role:         "viewer",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	updated, err := q.UpdateAccountAccess(ctx, UpdateAccountAccessParams{
		ID:           created.ID,
		Role:         "editor",
		AllowedPages: []string{access.PageWithdrawals},
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("UpdateAccountAccess: %v", err)
	}

	if updated.Role != "editor" {
		t.Errorf("Role = %q, want %q", updated.Role, "editor")
	}
	if len(updated.AllowedPages) != 1 || updated.AllowedPages[0] != access.PageWithdrawals {
		t.Errorf("AllowedPages = %v, want [%s]", updated.AllowedPages, access.PageWithdrawals)
	}

	// Role and pages go out in one write, so a reload agrees.
	reloaded, err := q.GetAccountByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetAccountByID: %v", err)
	}
	if reloaded.Role != "editor" || len(reloaded.AllowedPages) != 1 {
		t.Errorf("reloaded = %q %v, want editor [%s]", reloaded.Role, reloaded.AllowedPages, access.PageWithdrawals)
	}
}

func TestGetAccountByUsername_NotFound(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	_, err := New(db).GetAccountByUsername(context.Background(), "nobody")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestUpsertCollection_RejectsUnknownColumnType(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	now := time.Now()
	_, err := q.UpsertCollection(ctx, UpsertCollectionParams{
		Name:  "Broken",
		Title: "Broken",
		Page:  access.PageGifts,
		Columns: []model.Column{
			{Key: "blob", Label: "Blob", Type: "binary"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err == nil {
		t.Fatal("expected an error for an unknown column type")
	}

	// Nothing was written.
	if _, err := q.GetCollection(ctx, "Broken"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetCollection: err = %v, want sql.ErrNoRows", err)
	}
}

func TestCreateRecordRoundTrip(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	testCollection(t, q, "Gift")

	now := time.Now()
	fields := map[string]any{
		"name":     "Golden Rose",
		"price":    float64(500),
		"animated": true,
	}
	created, err := q.CreateRecord(ctx, CreateRecordParams{
		ClassName: "Gift",
		ID:        "abc123",
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if created.ID != "abc123" {
		t.Errorf("ID = %q, want %q", created.ID, "abc123")
	}

	got, err := q.GetRecord(ctx, GetRecordParams{ClassName: "Gift", ID: "abc123"})
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got.Fields["name"] != "Golden Rose" {
		t.Errorf(`Fields["name"] = %v, want "Golden Rose"`, got.Fields["name"])
	}
	if got.Fields["price"] != float64(500) {
		t.Errorf(`Fields["price"] = %v, want 500`, got.Fields["price"])
	}
	if got.Fields["animated"] != true {
		t.Errorf(`Fields["animated"] = %v, want true`, got.Fields["animated"])
	}
}

func TestDeleteRecord_ReportsAffectedRows(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	testCollection(t, q, "Gift")

	now := time.Now()
	_, err := q.CreateRecord(ctx, CreateRecordParams{
		ClassName: "Gift",
		ID:        "gone",
		Fields:    map[string]any{"name": "Teddy"},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	n, err := q.DeleteRecord(ctx, DeleteRecordParams{ClassName: "Gift", ID: "gone"})
	if err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if n != 1 {
		t.Errorf("first delete affected %d rows, want 1", n)
	}

	// Deleting again reports zero rows; the service layer turns that
	// into a not-found error.
	n, err = q.DeleteRecord(ctx, DeleteRecordParams{ClassName: "Gift", ID: "gone"})
	if err != nil {
		t.Fatalf("second DeleteRecord: %v", err)
	}
	if n != 0 {
		t.Errorf("second delete affected %d rows, want 0", n)
	}

	if _, err := q.GetRecord(ctx, GetRecordParams{ClassName: "Gift", ID: "gone"}); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetRecord after delete: err = %v, want sql.ErrNoRows", err)
	}
}

func TestListRecords_OrderingAndOffsets(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	testCollection(t, q, "Message")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		_, err := q.CreateRecord(ctx, CreateRecordParams{
			ClassName: "Message",
			ID:        fmt.Sprintf("msg-%d", i),
			Fields:    map[string]any{"seq": float64(i)},
			CreatedAt: ts,
			UpdatedAt: ts,
		})
		if err != nil {
			t.Fatalf("CreateRecord %d: %v", i, err)
		}
	}

	count, err := q.CountRecords(ctx, "Message")
	if err != nil {
		t.Fatalf("CountRecords: %v", err)
	}
	if count != 7 {
		t.Errorf("CountRecords = %d, want 7", count)
	}

	// Page through with limit 3 and check the pages tile the full set
	// oldest first, without overlap.
	var seen []string
	for offset := int64(0); offset < count; offset += 3 {
		page, err := q.ListRecords(ctx, ListRecordsParams{
			ClassName: "Message",
			Limit:     3,
			Offset:    offset,
		})
		if err != nil {
			t.Fatalf("ListRecords offset %d: %v", offset, err)
		}
		for _, r := range page {
			seen = append(seen, r.ID)
		}
	}

	if len(seen) != 7 {
		t.Fatalf("paged through %d records, want 7", len(seen))
	}
	for i, id := range seen {
		want := fmt.Sprintf("msg-%d", i)
		if id != want {
			t.Errorf("seen[%d] = %q, want %q", i, id, want)
		}
	}
}

func TestListRecords_ScopedToClass(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	testCollection(t, q, "Gift")
	testCollection(t, q, "Ads")

	now := time.Now()
	for _, class := range []string{"Gift", "Ads"} {
		_, err := q.CreateRecord(ctx, CreateRecordParams{
			ClassName: class,
			ID:        "shared-id",
			Fields:    map[string]any{},
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("CreateRecord %s: %v", class, err)
		}
	}

	records, err := q.ListRecords(ctx, ListRecordsParams{ClassName: "Gift", Limit: 10})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}
	if records[0].ClassName != "Gift" {
		t.Errorf("ClassName = %q, want %q", records[0].ClassName, "Gift")
	}
}

func TestSeed(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	q := New(db)
	admin, err := q.GetAccountByUsername(ctx, DefaultAdminUsername)
	if err != nil {
		t.Fatalf("GetAccountByUsername: %v", err)
	}
	if admin.Role != "admin" {
		t.Errorf("Role = %q, want admin", admin.Role)
	}

	cols, err := q.ListCollections(ctx)
	if err != nil {
		t.Fatalf("ListCollections: %v", err)
	}
	if len(cols) == 0 {
		t.Error("expected seeded collections")
	}

	// Seed is idempotent.
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
}
