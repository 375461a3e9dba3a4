// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vibelive/adminpanel/internal/access"
	"github.com/vibelive/adminpanel/internal/middleware"
	"github.com/vibelive/adminpanel/internal/model"
	"github.com/vibelive/adminpanel/internal/store"
	"github.com/vibelive/adminpanel/internal/util"
)

const accountsPerPage = 20

// ListAccounts returns all panel accounts, paginated.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	accounts, err := h.queries.ListAccounts(r.Context(), store.ListAccountsParams{
		Limit:  accountsPerPage,
		Offset: int64((page - 1) * accountsPerPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list accounts")
		return
	}

	total, err := h.queries.CountAccounts(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to count accounts")
		return
	}

	WriteSuccess(w, accounts, &Meta{
		Total: total,
		Pages: BuildPagination(page, total, accountsPerPage),
	})
}

// GetAccountByID returns one account.
func (h *Handler) GetAccountByID(w http.ResponseWriter, r *http.Request) {
	account, ok := h.requireAccount(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, account, nil)
}

type updateAccountRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
}

// UpdateAccount updates an account's profile fields.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := h.requireAccount(w, r)
	if !ok {
		return
	}

	var req updateAccountRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.queries.UpdateAccountProfile(r.Context(), store.UpdateAccountProfileParams{
		Username:  req.Username,
		Email:     req.Email,
		UpdatedAt: time.Now(),
		ID:        account.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update account")
		return
	}

	if h.events != nil {
		h.events.LogAccountEvent(r.Context(), model.EventLevelInfo, "Account updated",
			middleware.GetAccountIDPtr(r), util.ClientIP(r),
			map[string]any{"target_account": account.ID})
	}

	WriteSuccess(w, updated, nil)
}

type updateAccessRequest struct {
	Role         string   `json:"role" validate:"required"`
	AllowedPages []string `json:"allowed_pages"`
}

// UpdateAccountAccess sets an account's role and page allowlist in one
// write. Last write wins across concurrent editors.
func (h *Handler) UpdateAccountAccess(w http.ResponseWriter, r *http.Request) {
	account, ok := h.requireAccount(w, r)
	if !ok {
		return
	}

	var req updateAccessRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	details := map[string]string{}
	if access.Resolve(req.Role) == access.RoleAdmin {
		// Normalize admin synonyms so access checks stay consistent.
		req.Role = model.RoleAdmin
	} else if req.Role != model.RoleEditor && req.Role != model.RoleViewer {
		details["role"] = "must be admin, editor or viewer"
	}
	for _, p := range req.AllowedPages {
		if !access.IsKnownPage(p) {
			details["allowed_pages"] = "unknown page: " + p
			break
		}
	}
	if len(details) > 0 {
		WriteValidationError(w, details)
		return
	}

	updated, err := h.queries.UpdateAccountAccess(r.Context(), store.UpdateAccountAccessParams{
		Role:         req.Role,
		AllowedPages: req.AllowedPages,
		UpdatedAt:    time.Now(),
		ID:           account.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update access")
		return
	}

	if h.events != nil {
		h.events.LogAccountEvent(r.Context(), model.EventLevelInfo, "Account access changed",
			middleware.GetAccountIDPtr(r), util.ClientIP(r), map[string]any{
				"target_account": account.ID,
				"role":           updated.Role,
				"allowed_pages":  updated.AllowedPages,
			})
	}

	WriteSuccess(w, updated, nil)
}

// DeleteAccount removes an account. Self-deletion is refused.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := h.requireAccount(w, r)
	if !ok {
		return
	}

	if current := middleware.GetAccount(r); current != nil && current.ID == account.ID {
		WriteBadRequest(w, "Cannot delete your own account", nil)
		return
	}

	if _, err := h.queries.DeleteAccount(r.Context(), account.ID); err != nil {
		WriteInternalError(w, "Failed to delete account")
		return
	}

	if h.events != nil {
		h.events.LogAccountEvent(r.Context(), model.EventLevelWarning, "Account deleted",
			middleware.GetAccountIDPtr(r), util.ClientIP(r),
			map[string]any{"target_account": account.ID, "username": account.Username})
	}

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// requireAccount parses the {id} URL param and loads the account.
func (h *Handler) requireAccount(w http.ResponseWriter, r *http.Request) (model.Account, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid account ID", nil)
		return model.Account{}, false
	}

	account, err := h.queries.GetAccountByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Account not found")
		} else {
			WriteInternalError(w, "Failed to retrieve account")
		}
		return model.Account{}, false
	}

	return account, true
}
