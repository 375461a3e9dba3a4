// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON handlers of the admin panel API.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-playground/validator/v10"

	"github.com/vibelive/adminpanel/internal/config"
	"github.com/vibelive/adminpanel/internal/geoip"
	"github.com/vibelive/adminpanel/internal/middleware"
	"github.com/vibelive/adminpanel/internal/service"
	"github.com/vibelive/adminpanel/internal/store"
	"github.com/vibelive/adminpanel/internal/tableview"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db              *sql.DB
	queries         *store.Queries
	cfg             *config.Config
	sessions        *scs.SessionManager
	records         *service.RecordService
	files           *service.FileService
	events          *service.EventService
	loginProtection *middleware.LoginProtection
	geo             *geoip.Lookup
	renderer        *tableview.Renderer
	validate        *validator.Validate
}

// Deps bundles the constructor arguments for Handler.
type Deps struct {
	DB              *sql.DB
	Config          *config.Config
	Sessions        *scs.SessionManager
	Records         *service.RecordService
	Files           *service.FileService
	Events          *service.EventService
	LoginProtection *middleware.LoginProtection
	GeoIP           *geoip.Lookup
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		db:              deps.DB,
		queries:         store.New(deps.DB),
		cfg:             deps.Config,
		sessions:        deps.Sessions,
		records:         deps.Records,
		files:           deps.Files,
		events:          deps.Events,
		loginProtection: deps.LoginProtection,
		geo:             deps.GeoIP,
		renderer:        tableview.NewRenderer("en"),
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and other metadata.
type Meta struct {
	Total int64 `json:"total,omitempty"`
	Limit int64 `json:"limit,omitempty"`
	Skip  int64 `json:"skip,omitempty"`
	Pages any   `json:"pages,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// decodeJSON decodes a request body into dst and validates struct tags.
// Returns false after writing an error response.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			WriteInternalError(w, "Failed to validate request")
			return false
		}
		details := make(map[string]string)
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				details[fe.Field()] = "failed " + fe.Tag() + " validation"
			}
		}
		WriteValidationError(w, details)
		return false
	}
	return true
}

// writeRecordError maps service errors to API responses.
func writeRecordError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrUnknownCollection):
		WriteNotFound(w, "Unknown collection")
	case errors.Is(err, service.ErrRecordNotFound):
		WriteNotFound(w, "Record not found")
	case errors.As(err, &validationErr):
		WriteValidationError(w, validationErr.Fields)
	default:
		WriteInternalError(w, "Operation failed")
	}
}
