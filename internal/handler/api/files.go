// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vibelive/adminpanel/internal/middleware"
	"github.com/vibelive/adminpanel/internal/model"
	"github.com/vibelive/adminpanel/internal/service"
	"github.com/vibelive/adminpanel/internal/store"
	"github.com/vibelive/adminpanel/internal/util"
)

const filesPerPage = 20

// fileView decorates a stored file with its serving URLs.
type fileView struct {
	model.StoredFile
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

func (h *Handler) fileView(f model.StoredFile) fileView {
	return fileView{
		StoredFile:   f,
		URL:          h.files.URL(f, ""),
		ThumbnailURL: h.files.ThumbnailURL(f),
	}
}

// ListFiles returns uploaded files, newest first.
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	files, err := h.queries.ListFiles(r.Context(), store.ListFilesParams{
		Limit:  filesPerPage,
		Offset: int64((page - 1) * filesPerPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list files")
		return
	}

	total, err := h.queries.CountFiles(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to count files")
		return
	}

	views := make([]fileView, 0, len(files))
	for _, f := range files {
		views = append(views, h.fileView(f))
	}

	WriteSuccess(w, views, &Meta{
		Total: total,
		Pages: BuildPagination(page, total, filesPerPage),
	})
}

// UploadFile stores a standalone file from a multipart request.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart body", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "Missing file part", nil)
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.files.Upload(r.Context(), file, header, middleware.GetAccountID(r))
	if err != nil {
		WriteBadRequest(w, "File upload failed: "+err.Error(), nil)
		return
	}

	if h.events != nil {
		h.events.LogFileEvent(r.Context(), model.EventLevelInfo, "File uploaded",
			middleware.GetAccountIDPtr(r), util.ClientIP(r), map[string]any{
				"file_id":   result.File.ID,
				"filename":  result.File.Filename,
				"mime_type": result.File.MimeType,
				"size":      result.File.Size,
			})
	}

	WriteCreated(w, h.fileView(result.File))
}

// GetFile returns one stored file.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid file ID", nil)
		return
	}

	f, err := h.queries.GetFileByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "File not found")
		} else {
			WriteInternalError(w, "Failed to retrieve file")
		}
		return
	}

	WriteSuccess(w, h.fileView(f), nil)
}

// DeleteFile removes a stored file and its data.
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid file ID", nil)
		return
	}

	if err := h.files.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "File not found")
		} else {
			WriteInternalError(w, "Failed to delete file")
		}
		return
	}

	if h.events != nil {
		h.events.LogFileEvent(r.Context(), model.EventLevelWarning, "File deleted",
			middleware.GetAccountIDPtr(r), util.ClientIP(r), map[string]any{"file_id": id})
	}

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
