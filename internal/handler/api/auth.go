// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mileusna/useragent"

	"github.com/vibelive/adminpanel/internal/auth"
	"github.com/vibelive/adminpanel/internal/middleware"
	"github.com/vibelive/adminpanel/internal/model"
	"github.com/vibelive/adminpanel/internal/store"
	"github.com/vibelive/adminpanel/internal/util"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login authenticates an account and starts a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	ip := util.ClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(req.Username); locked {
			WriteError(w, http.StatusForbidden, "account_locked",
				fmt.Sprintf("Account is temporarily locked. Try again in %s.", remaining.Round(time.Second)), nil)
			return
		}
	}

	account, err := h.queries.GetAccountByUsername(r.Context(), req.Username)
	if err != nil {
		h.recordLoginFailure(r, req.Username, ip)
		WriteUnauthorized(w, "Invalid username or password")
		return
	}

	ok, err := auth.CheckPassword(req.Password, account.PasswordHash)
	if err != nil || !ok {
		h.recordLoginFailure(r, req.Username, ip)
		WriteUnauthorized(w, "Invalid username or password")
		return
	}

	// Transparent hash upgrade on parameter changes.
	if auth.NeedsRehash(account.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			_ = h.queries.UpdateAccountPassword(r.Context(), store.UpdateAccountPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
				ID:           account.ID,
			})
		}
	}

	if err := h.sessions.RenewToken(r.Context()); err != nil {
		WriteInternalError(w, "Failed to create session")
		return
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyAccountID, account.ID)

	_ = h.queries.UpdateAccountLastLogin(r.Context(), store.UpdateAccountLastLoginParams{
		LastLoginAt: time.Now(),
		ID:          account.ID,
	})

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(req.Username)
	}

	if h.events != nil {
		h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "Signed in",
			&account.ID, ip, h.loginMetadata(r, ip))
	}

	WriteSuccess(w, account, nil)
}

// recordLoginFailure tracks the failed attempt and logs lockouts.
func (h *Handler) recordLoginFailure(r *http.Request, username, ip string) {
	if h.loginProtection == nil {
		return
	}
	locked, duration := h.loginProtection.RecordFailedAttempt(username)
	if h.events == nil {
		return
	}
	metadata := h.loginMetadata(r, ip)
	metadata["username"] = username
	if locked {
		metadata["lockout_duration"] = duration.String()
		h.events.LogAuthEvent(r.Context(), model.EventLevelWarning,
			"Account locked after repeated failed logins", nil, ip, metadata)
		return
	}
	h.events.LogAuthEvent(r.Context(), model.EventLevelWarning,
		"Failed login attempt", nil, ip, metadata)
}

// loginMetadata collects client details for auth events.
func (h *Handler) loginMetadata(r *http.Request, ip string) map[string]any {
	ua := useragent.Parse(r.UserAgent())
	metadata := map[string]any{
		"browser": ua.Name,
		"os":      ua.OS,
		"device":  ua.Device,
	}
	if h.geo != nil {
		if country := h.geo.LookupCountry(ip); country != "" {
			metadata["country"] = country
		}
	}
	return metadata
}

// Register creates a new account with the configured default role.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.queries.GetAccountByUsername(r.Context(), req.Username); err == nil {
		WriteValidationError(w, map[string]string{"username": "Username already taken"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		WriteInternalError(w, "Failed to create account")
		return
	}

	now := time.Now()
	account, err := h.queries.CreateAccount(r.Context(), store.CreateAccountParams{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         h.cfg.DefaultRole,
		AllowedPages: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create account")
		return
	}

	if h.events != nil {
		ip := util.ClientIP(r)
		h.events.LogAccountEvent(r.Context(), model.EventLevelInfo, "Account registered",
			&account.ID, ip, map[string]any{"username": account.Username, "role": account.Role})
	}

	WriteCreated(w, account)
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	accountID := h.sessions.GetInt64(r.Context(), middleware.SessionKeyAccountID)

	if err := h.sessions.Destroy(r.Context()); err != nil {
		WriteInternalError(w, "Failed to end session")
		return
	}

	if h.events != nil && accountID != 0 {
		h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "Signed out",
			&accountID, util.ClientIP(r), nil)
	}

	WriteSuccess(w, map[string]string{"status": "signed_out"}, nil)
}

// Me returns the current account, or null when not signed in.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	accountID := h.sessions.GetInt64(r.Context(), middleware.SessionKeyAccountID)
	if accountID == 0 {
		WriteJSON(w, http.StatusOK, Response{Data: nil})
		return
	}

	account, err := h.queries.GetAccountByID(r.Context(), accountID)
	if err != nil {
		// Stale session, drop it.
		_ = h.sessions.Destroy(r.Context())
		WriteJSON(w, http.StatusOK, Response{Data: nil})
		return
	}

	WriteSuccess(w, account, nil)
}
