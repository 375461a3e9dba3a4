// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/vibelive/adminpanel/internal/model"
	"github.com/vibelive/adminpanel/internal/store"
)

const eventsPerPage = 50

// ListEvents returns audit events, newest first, optionally filtered by
// level and category.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	level := q.Get("level")
	if level != "" && level != model.EventLevelInfo &&
		level != model.EventLevelWarning && level != model.EventLevelError {
		WriteBadRequest(w, "Invalid level filter", nil)
		return
	}
	category := q.Get("category")

	events, err := h.queries.ListEvents(r.Context(), store.ListEventsParams{
		Level:    level,
		Category: category,
		Limit:    eventsPerPage,
		Offset:   int64((page - 1) * eventsPerPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list events")
		return
	}

	total, err := h.queries.CountEvents(r.Context(), store.CountEventsParams{
		Level:    level,
		Category: category,
	})
	if err != nil {
		WriteInternalError(w, "Failed to count events")
		return
	}

	WriteSuccess(w, events, &Meta{
		Total: total,
		Pages: BuildPagination(page, total, eventsPerPage),
	})
}
