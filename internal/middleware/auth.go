// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/vibelive/adminpanel/internal/access"
	"github.com/vibelive/adminpanel/internal/model"
	"github.com/vibelive/adminpanel/internal/service"
	"github.com/vibelive/adminpanel/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyAccount carries the loaded account through the request.
const ContextKeyAccount ContextKey = "account"

// SessionKeyAccountID stores the signed-in account id in the session.
const SessionKeyAccountID = "account_id"

// errorEnvelope mirrors the API error shape. Defined here rather than
// imported from the handler package to keep the dependency one-way.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// Auth requires an authenticated session. Unauthenticated requests get
// a 401 JSON error.
func Auth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID := sm.GetInt64(r.Context(), SessionKeyAccountID)
			if accountID == 0 {
				writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LoadAccount loads the session's account into the request context.
// Use after Auth. A session pointing at a deleted account is destroyed.
func LoadAccount(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID := sm.GetInt64(r.Context(), SessionKeyAccountID)
			if accountID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			account, err := queries.GetAccountByID(r.Context(), accountID)
			if err != nil {
				_ = sm.Destroy(r.Context())
				writeError(w, http.StatusUnauthorized, "unauthorized", "session is no longer valid")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAccount, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAccount retrieves the current account from the request context.
// Returns nil if no account is in context.
func GetAccount(r *http.Request) *model.Account {
	account, ok := r.Context().Value(ContextKeyAccount).(model.Account)
	if !ok {
		return nil
	}
	return &account
}

// GetAccountID returns the current account's ID, or 0 if not signed in.
func GetAccountID(r *http.Request) int64 {
	if account := GetAccount(r); account != nil {
		return account.ID
	}
	return 0
}

// GetAccountIDPtr returns a pointer to the current account's ID, or nil.
// Useful for optional account parameters in event logging.
func GetAccountIDPtr(r *http.Request) *int64 {
	if account := GetAccount(r); account != nil {
		id := account.ID
		return &id
	}
	return nil
}

// RequirePage requires access to a specific panel page, resolved from
// the account's role and allowed-pages list. Denials are logged.
func RequirePage(pageID string, eventService *service.EventService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := GetAccount(r)
			if account == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			role := access.Resolve(account.Role)
			if !access.CanAccessPage(role, account.AllowedPages, pageID) {
				denyAccess(w, r, account, eventService, map[string]any{
					"page": pageID,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireEdit requires a role allowed to create and modify records.
func RequireEdit(eventService *service.EventService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := GetAccount(r)
			if account == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			if !access.CanEdit(access.Resolve(account.Role)) {
				denyAccess(w, r, account, eventService, map[string]any{
					"required": "edit",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireDelete requires a role allowed to delete records and accounts.
func RequireDelete(eventService *service.EventService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := GetAccount(r)
			if account == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			if !access.CanDelete(access.Resolve(account.Role)) {
				denyAccess(w, r, account, eventService, map[string]any{
					"required": "delete",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin requires the administrator role.
func RequireAdmin(eventService *service.EventService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := GetAccount(r)
			if account == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			if access.Resolve(account.Role) != access.RoleAdmin {
				denyAccess(w, r, account, eventService, map[string]any{
					"required": "admin",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func denyAccess(w http.ResponseWriter, r *http.Request, account *model.Account, eventService *service.EventService, metadata map[string]any) {
	slog.Warn("access denied",
		"status", http.StatusForbidden,
		"method", r.Method,
		"path", r.URL.Path,
		"account_id", account.ID,
		"account_role", account.Role,
		"remote_addr", r.RemoteAddr,
	)

	if eventService != nil {
		accountID := account.ID
		metadata["method"] = r.Method
		metadata["path"] = r.URL.Path
		metadata["account_role"] = account.Role
		_ = eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
			"Access denied: insufficient permissions", &accountID, r.RemoteAddr, metadata)
	}

	writeError(w, http.StatusForbidden, "forbidden", "insufficient permissions")
}
