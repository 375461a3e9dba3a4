// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/vibelive/adminpanel/internal/model"
	"github.com/vibelive/adminpanel/internal/tableview"
)

// tableResponse is the rendered table payload: headers from the
// collection schema plus one formatted row per record.
type tableResponse struct {
	Collection string          `json:"collection"`
	Title      string          `json:"title"`
	Columns    []model.Column  `json:"columns"`
	Rows       []tableview.Row `json:"rows"`
	Pagination Pagination      `json:"pagination"`
}

const tablePerPage = 20

// Table returns a class rendered as display cells, paginated with the
// fixed table page size.
func (h *Handler) Table(w http.ResponseWriter, r *http.Request) {
	col, ok := h.requireCollection(w, r, permView)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	result, err := h.records.List(r.Context(), col.Name, tablePerPage, int64(page-1)*tablePerPage)
	if err != nil {
		writeRecordError(w, err)
		return
	}

	WriteSuccess(w, tableResponse{
		Collection: col.Name,
		Title:      col.Title,
		Columns:    col.Columns,
		Rows:       h.renderer.RenderRows(col, result.Records),
		Pagination: BuildPagination(page, result.Total, tablePerPage),
	}, nil)
}
