// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/vibelive/adminpanel/internal/access"
	"github.com/vibelive/adminpanel/internal/middleware"
)

// pagesResponse describes the caller's menu: the pages they may open
// and what they may do there.
type pagesResponse struct {
	Pages     []string `json:"pages"`
	CanEdit   bool     `json:"can_edit"`
	CanDelete bool     `json:"can_delete"`
}

// Pages returns the panel pages visible to the current account, in
// menu order.
func (h *Handler) Pages(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r)
	if account == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	role := access.Resolve(account.Role)
	WriteSuccess(w, pagesResponse{
		Pages:     access.VisiblePages(role, account.AllowedPages),
		CanEdit:   access.CanEdit(role),
		CanDelete: access.CanDelete(role),
	}, nil)
}

// Collections returns every registered collection with its schema,
// filtered to the pages the caller may access.
func (h *Handler) Collections(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r)
	if account == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	all, err := h.records.Collections(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list collections")
		return
	}

	role := access.Resolve(account.Role)
	visible := all[:0]
	for _, col := range all {
		if access.CanAccessPage(role, account.AllowedPages, col.Page) {
			visible = append(visible, col)
		}
	}

	WriteSuccess(w, visible, nil)
}
