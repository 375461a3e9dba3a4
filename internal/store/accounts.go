// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vibelive/adminpanel/internal/model"
)

const accountColumns = `id, username, email, password_hash, role, allowed_pages, created_at, updated_at, last_login_at`

// scanner abstracts *sql.Row and *sql.Rows for scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (model.Account, error) {
	var a model.Account
	var allowedPages string
	err := s.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role,
		&allowedPages, &a.CreatedAt, &a.UpdatedAt, &a.LastLoginAt)
	if err != nil {
		return model.Account{}, err
	}
	if allowedPages != "" {
		if err := json.Unmarshal([]byte(allowedPages), &a.AllowedPages); err != nil {
			return model.Account{}, fmt.Errorf("decoding allowed pages for account %d: %w", a.ID, err)
		}
	}
	return a, nil
}

func encodePages(pages []string) (string, error) {
	if pages == nil {
		pages = []string{}
	}
	data, err := json.Marshal(pages)
	if err != nil {
		return "", fmt.Errorf("encoding allowed pages: %w", err)
	}
	return string(data), nil
}

// CreateAccountParams holds parameters for CreateAccount.
type CreateAccountParams struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
	AllowedPages []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateAccount inserts a new account and returns the stored row.
func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (model.Account, error) {
	pages, err := encodePages(arg.AllowedPages)
	if err != nil {
		return model.Account{}, err
	}
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO accounts (username, email, password_hash, role, allowed_pages, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+accountColumns,
		arg.Username, arg.Email, arg.PasswordHash, arg.Role, pages, arg.CreatedAt, arg.UpdatedAt)
	return scanAccount(row)
}

// GetAccountByID returns the account with the given id.
func (q *Queries) GetAccountByID(ctx context.Context, id int64) (model.Account, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

// GetAccountByUsername returns the account with the given username.
func (q *Queries) GetAccountByUsername(ctx context.Context, username string) (model.Account, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
	return scanAccount(row)
}

// ListAccountsParams holds parameters for ListAccounts.
type ListAccountsParams struct {
	Limit  int64
	Offset int64
}

// ListAccounts returns accounts ordered by creation time, newest first.
func (q *Queries) ListAccounts(ctx context.Context, arg ListAccountsParams) ([]model.Account, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// CountAccounts returns the total number of accounts.
func (q *Queries) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	return count, err
}

// UpdateAccountProfileParams holds parameters for UpdateAccountProfile.
type UpdateAccountProfileParams struct {
	Username  string
	Email     string
	UpdatedAt time.Time
	ID        int64
}

// UpdateAccountProfile updates username and email.
func (q *Queries) UpdateAccountProfile(ctx context.Context, arg UpdateAccountProfileParams) (model.Account, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE accounts SET username = ?, email = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+accountColumns,
		arg.Username, arg.Email, arg.UpdatedAt, arg.ID)
	return scanAccount(row)
}

// UpdateAccountAccessParams holds parameters for UpdateAccountAccess.
type UpdateAccountAccessParams struct {
	Role         string
	AllowedPages []string
	UpdatedAt    time.Time
	ID           int64
}

// UpdateAccountAccess writes role and allowed pages in a single update.
// Last write wins; there is no conflict detection.
func (q *Queries) UpdateAccountAccess(ctx context.Context, arg UpdateAccountAccessParams) (model.Account, error) {
	pages, err := encodePages(arg.AllowedPages)
	if err != nil {
		return model.Account{}, err
	}
	row := q.db.QueryRowContext(ctx, `
		UPDATE accounts SET role = ?, allowed_pages = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+accountColumns,
		arg.Role, pages, arg.UpdatedAt, arg.ID)
	return scanAccount(row)
}

// UpdateAccountPasswordParams holds parameters for UpdateAccountPassword.
type UpdateAccountPasswordParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           int64
}

// UpdateAccountPassword replaces the stored password hash.
func (q *Queries) UpdateAccountPassword(ctx context.Context, arg UpdateAccountPasswordParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?`,
		arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateAccountLastLoginParams holds parameters for UpdateAccountLastLogin.
type UpdateAccountLastLoginParams struct {
	LastLoginAt time.Time
	ID          int64
}

// UpdateAccountLastLogin stamps the last successful login time.
func (q *Queries) UpdateAccountLastLogin(ctx context.Context, arg UpdateAccountLastLoginParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET last_login_at = ? WHERE id = ?`,
		arg.LastLoginAt, arg.ID)
	return err
}

// DeleteAccount removes an account. Returns the number of rows deleted.
func (q *Queries) DeleteAccount(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
