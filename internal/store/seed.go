package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vibelive/adminpanel/internal/access"
	"github.com/vibelive/adminpanel/internal/auth"
	"github.com/vibelive/adminpanel/internal/model"
)

// Default admin credentials
const (
	DefaultAdminUsername = "admin"
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
)

// Seed creates the initial admin account and the collection registry.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	if err := seedCollections(ctx, queries); err != nil {
		return err
	}

	// Check if admin account already exists
	_, err := queries.GetAccountByUsername(ctx, DefaultAdminUsername)
	if err == nil {
		slog.Info("admin account already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin account: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	account, err := queries.CreateAccount(ctx, CreateAccountParams{
		Username:     DefaultAdminUsername,
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}

	slog.Info("created default admin account",
		"id", account.ID,
		"username", account.Username,
		"password", DefaultAdminPassword,
	)

	return nil
}

// seedCollections registers the streaming-app collections and their
// column schemas. Upserts so schema changes ship with the binary.
func seedCollections(ctx context.Context, queries *Queries) error {
	now := time.Now()
	for _, c := range defaultCollections() {
		c.CreatedAt = now
		c.UpdatedAt = now
		if _, err := queries.UpsertCollection(ctx, c); err != nil {
			return fmt.Errorf("seeding collection %s: %w", c.Name, err)
		}
	}
	return nil
}

func defaultCollections() []UpsertCollectionParams {
	return []UpsertCollectionParams{
		{
			Name:  "Message",
			Title: "Messages",
			Page:  access.PageMessages,
			Columns: []model.Column{
				{Key: "sender", Label: "Sender", Type: model.TypeUserReference},
				{Key: "text", Label: "Text", Type: model.TypeText, Required: true},
				{Key: "sentAt", Label: "Sent", Type: model.TypeDate},
			},
		},
		{
			Name:  "Gift",
			Title: "Gifts",
			Page:  access.PageGifts,
			Columns: []model.Column{
				{Key: "name", Label: "Name", Type: model.TypeText, Required: true},
				{Key: "coins", Label: "Coins", Type: model.TypeNumber, Required: true},
				{Key: "icon", Label: "Icon", Type: model.TypeImage},
				{Key: "active", Label: "Active", Type: model.TypeBoolean},
			},
		},
		{
			Name:  "AvatarFrame",
			Title: "Avatar Frames",
			Page:  access.PageAvatarFrames,
			Columns: []model.Column{
				{Key: "name", Label: "Name", Type: model.TypeText, Required: true},
				{Key: "image", Label: "Image", Type: model.TypeImage, Required: true},
				{Key: "coins", Label: "Coins", Type: model.TypeNumber},
				{Key: "validUntil", Label: "Valid Until", Type: model.TypeDate},
			},
		},
		{
			Name:  "Ad",
			Title: "Ads",
			Page:  access.PageAds,
			Columns: []model.Column{
				{Key: "title", Label: "Title", Type: model.TypeText, Required: true},
				{Key: "banner", Label: "Banner", Type: model.TypeImage},
				{Key: "link", Label: "Link", Type: model.TypeText},
				{Key: "active", Label: "Active", Type: model.TypeBoolean},
			},
		},
		{
			Name:  "Announcement",
			Title: "Announcements",
			Page:  access.PageAnnouncements,
			Columns: []model.Column{
				{Key: "title", Label: "Title", Type: model.TypeText, Required: true},
				{Key: "body", Label: "Body", Type: model.TypeText},
				{Key: "publishedAt", Label: "Published", Type: model.TypeDate},
			},
		},
		{
			Name:  "Agency",
			Title: "Agencies",
			Page:  access.PageAgencies,
			Columns: []model.Column{
				{Key: "name", Label: "Name", Type: model.TypeText, Required: true},
				{Key: "owner", Label: "Owner", Type: model.TypeUserReference},
				{Key: "memberCount", Label: "Members", Type: model.TypeNumber},
				{Key: "status", Label: "Status", Type: model.TypeStatus},
			},
		},
		{
			Name:  "Withdrawal",
			Title: "Withdrawals",
			Page:  access.PageWithdrawals,
			Columns: []model.Column{
				{Key: "user", Label: "User", Type: model.TypeUserReference},
				{Key: "amount", Label: "Amount", Type: model.TypeNumber, Required: true},
				{Key: "status", Label: "Status", Type: model.TypeStatus},
				{Key: "requestedAt", Label: "Requested", Type: model.TypeDate},
			},
		},
		{
			Name:  "Category",
			Title: "Categories",
			Page:  access.PageCategories,
			Columns: []model.Column{
				{Key: "name", Label: "Name", Type: model.TypeText, Required: true},
				{Key: "image", Label: "Image", Type: model.TypeImage},
				{Key: "position", Label: "Position", Type: model.TypeNumber},
			},
		},
	}
}
