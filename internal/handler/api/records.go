// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vibelive/adminpanel/internal/access"
	"github.com/vibelive/adminpanel/internal/middleware"
	"github.com/vibelive/adminpanel/internal/model"
	"github.com/vibelive/adminpanel/internal/service"
	"github.com/vibelive/adminpanel/internal/util"
)

// recordPermission is the access level a record operation needs.
type recordPermission int

const (
	permView recordPermission = iota
	permEdit
	permDelete
)

// requireCollection resolves the {class} URL param, loads its schema
// and enforces page access plus the required mutation permission.
func (h *Handler) requireCollection(w http.ResponseWriter, r *http.Request, perm recordPermission) (model.Collection, bool) {
	className := chi.URLParam(r, "class")

	col, err := h.records.Collection(r.Context(), className)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCollection) {
			WriteNotFound(w, "Unknown collection")
		} else {
			WriteInternalError(w, "Failed to load collection")
		}
		return model.Collection{}, false
	}

	account := middleware.GetAccount(r)
	if account == nil {
		WriteUnauthorized(w, "Authentication required")
		return model.Collection{}, false
	}

	role := access.Resolve(account.Role)
	if !access.CanAccessPage(role, account.AllowedPages, col.Page) {
		WriteForbidden(w, "No access to this collection")
		return model.Collection{}, false
	}
	switch perm {
	case permEdit:
		if !access.CanEdit(role) {
			WriteForbidden(w, "Insufficient permissions")
			return model.Collection{}, false
		}
	case permDelete:
		if !access.CanDelete(role) {
			WriteForbidden(w, "Insufficient permissions")
			return model.Collection{}, false
		}
	}

	return col, true
}

// ListRecords returns one page of a class.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	col, ok := h.requireCollection(w, r, permView)
	if !ok {
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	skip, _ := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64)

	result, err := h.records.List(r.Context(), col.Name, limit, skip)
	if err != nil {
		writeRecordError(w, err)
		return
	}

	WriteSuccess(w, result.Records, &Meta{
		Total: result.Total,
		Limit: result.Limit,
		Skip:  result.Skip,
	})
}

// GetRecord returns one record by id.
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	col, ok := h.requireCollection(w, r, permView)
	if !ok {
		return
	}

	rec, err := h.records.Get(r.Context(), col.Name, chi.URLParam(r, "id"))
	if err != nil {
		writeRecordError(w, err)
		return
	}

	WriteSuccess(w, rec, nil)
}

// CreateRecord inserts a new record. A multipart request may carry a
// file that is uploaded first and attached as a field on the record.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	col, ok := h.requireCollection(w, r, permEdit)
	if !ok {
		return
	}

	fields, ok := h.decodeRecordFields(w, r)
	if !ok {
		return
	}

	rec, err := h.records.Create(r.Context(), col.Name, fields)
	if err != nil {
		writeRecordError(w, err)
		return
	}

	if h.events != nil {
		h.events.LogRecordEvent(r.Context(), model.EventLevelInfo, "Record created",
			middleware.GetAccountIDPtr(r), util.ClientIP(r),
			map[string]any{"class": col.Name, "record_id": rec.ID})
	}

	WriteCreated(w, rec)
}

// UpdateRecord merges the supplied fields into a record.
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	col, ok := h.requireCollection(w, r, permEdit)
	if !ok {
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	rec, err := h.records.Update(r.Context(), col.Name, chi.URLParam(r, "id"), fields)
	if err != nil {
		writeRecordError(w, err)
		return
	}

	if h.events != nil {
		h.events.LogRecordEvent(r.Context(), model.EventLevelInfo, "Record updated",
			middleware.GetAccountIDPtr(r), util.ClientIP(r),
			map[string]any{"class": col.Name, "record_id": rec.ID})
	}

	WriteSuccess(w, rec, nil)
}

// DeleteRecord removes one record. Deleting an already-deleted id
// returns 404.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	col, ok := h.requireCollection(w, r, permDelete)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.records.Delete(r.Context(), col.Name, id); err != nil {
		writeRecordError(w, err)
		return
	}

	if h.events != nil {
		h.events.LogRecordEvent(r.Context(), model.EventLevelInfo, "Record deleted",
			middleware.GetAccountIDPtr(r), util.ClientIP(r),
			map[string]any{"class": col.Name, "record_id": id})
	}

	WriteSuccess(w, map[string]any{"deleted": true}, nil)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// BulkDeleteRecords deletes the given ids best-effort and reports the
// outcome per id.
func (h *Handler) BulkDeleteRecords(w http.ResponseWriter, r *http.Request) {
	col, ok := h.requireCollection(w, r, permDelete)
	if !ok {
		return
	}

	var req bulkDeleteRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	outcomes, err := h.records.BulkDelete(r.Context(), col.Name, req.IDs)
	if err != nil {
		writeRecordError(w, err)
		return
	}

	if h.events != nil {
		h.events.LogRecordEvent(r.Context(), model.EventLevelInfo, "Records bulk deleted",
			middleware.GetAccountIDPtr(r), util.ClientIP(r),
			map[string]any{"class": col.Name, "count": len(req.IDs)})
	}

	WriteSuccess(w, outcomes, nil)
}

// decodeRecordFields reads a record payload from either a JSON body or
// a multipart form with a "fields" part plus an optional "file" part.
func (h *Handler) decodeRecordFields(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return h.decodeMultipartFields(w, r)
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return nil, false
	}
	return fields, true
}

func (h *Handler) decodeMultipartFields(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart body", nil)
		return nil, false
	}

	fields := map[string]any{}
	if raw := r.FormValue("fields"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			WriteBadRequest(w, "Invalid fields JSON", nil)
			return nil, false
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return fields, true
		}
		WriteBadRequest(w, "Invalid file part", nil)
		return nil, false
	}
	defer func() { _ = file.Close() }()

	fieldName := r.FormValue("file_field")
	if fieldName == "" {
		WriteBadRequest(w, "Missing file_field for uploaded file", nil)
		return nil, false
	}

	result, err := h.files.Upload(r.Context(), file, header, middleware.GetAccountID(r))
	if err != nil {
		WriteBadRequest(w, "File upload failed: "+err.Error(), nil)
		return nil, false
	}

	ref := h.files.Ref(result.File)
	fields[fieldName] = map[string]any{"name": ref.Name, "url": ref.URL}

	return fields, true
}
