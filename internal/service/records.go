// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/vibelive/adminpanel/internal/cache"
	"github.com/vibelive/adminpanel/internal/model"
	"github.com/vibelive/adminpanel/internal/store"
)

// List page limits
const (
	DefaultListLimit = 25
	MaxListLimit     = 200
)

// ErrUnknownCollection is returned for a class name that was never
// registered.
var ErrUnknownCollection = errors.New("unknown collection")

// ErrRecordNotFound is returned when a record id does not exist in the
// class.
var ErrRecordNotFound = errors.New("record not found")

// ValidationError reports field-level payload problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid fields: " + strings.Join(keys, ", ")
}

// ListResult is one page of records plus the class total.
type ListResult struct {
	Records []model.Record
	Total   int64
	Limit   int64
	Skip    int64
}

// markdownFields maps a collection to the record key holding markdown
// and the key receiving the rendered HTML. Keys must match the seeded
// column schema in the store package.
var markdownFields = map[string][2]string{
	"Announcement": {"body", "body_html"},
}

// RecordService manages entity records against their collection schemas.
type RecordService struct {
	db       *sql.DB
	queries  *store.Queries
	cache    *cache.RecordListCache
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewRecordService creates a RecordService. The cache may be nil, in
// which case every list hits the database.
func NewRecordService(db *sql.DB, listCache *cache.RecordListCache) *RecordService {
	return &RecordService{
		db:       db,
		queries:  store.New(db),
		cache:    listCache,
		markdown: goldmark.New(),
		policy:   bluemonday.UGCPolicy(),
	}
}

// Collection returns the schema for a class name.
func (s *RecordService) Collection(ctx context.Context, className string) (model.Collection, error) {
	col, err := s.queries.GetCollection(ctx, className)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Collection{}, ErrUnknownCollection
	}
	return col, err
}

// Collections returns all registered collections.
func (s *RecordService) Collections(ctx context.Context) ([]model.Collection, error) {
	return s.queries.ListCollections(ctx)
}

// List returns one page of a class, oldest first. Limit and skip are
// clamped to sane bounds.
func (s *RecordService) List(ctx context.Context, className string, limit, skip int64) (*ListResult, error) {
	if _, err := s.Collection(ctx, className); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if skip < 0 {
		skip = 0
	}

	if s.cache != nil {
		if records, total, err := s.cache.Get(ctx, className, limit, skip); err == nil {
			return &ListResult{Records: records, Total: total, Limit: limit, Skip: skip}, nil
		}
	}

	records, err := s.queries.ListRecords(ctx, store.ListRecordsParams{
		ClassName: className,
		Limit:     limit,
		Offset:    skip,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", className, err)
	}

	total, err := s.queries.CountRecords(ctx, className)
	if err != nil {
		return nil, fmt.Errorf("failed to count %s records: %w", className, err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, className, limit, skip, records, total)
	}

	return &ListResult{Records: records, Total: total, Limit: limit, Skip: skip}, nil
}

// Get returns one record.
func (s *RecordService) Get(ctx context.Context, className, id string) (model.Record, error) {
	if _, err := s.Collection(ctx, className); err != nil {
		return model.Record{}, err
	}
	rec, err := s.queries.GetRecord(ctx, store.GetRecordParams{ClassName: className, ID: id})
	if errors.Is(err, sql.ErrNoRows) {
		return model.Record{}, ErrRecordNotFound
	}
	return rec, err
}

// Create validates fields against the class schema and inserts a new
// record with a server-generated id.
func (s *RecordService) Create(ctx context.Context, className string, fields map[string]any) (model.Record, error) {
	col, err := s.Collection(ctx, className)
	if err != nil {
		return model.Record{}, err
	}

	if fields == nil {
		fields = map[string]any{}
	}
	if err := validateFields(col, fields, false); err != nil {
		return model.Record{}, err
	}

	s.renderMarkdown(className, fields)

	now := time.Now()
	rec, err := s.queries.CreateRecord(ctx, store.CreateRecordParams{
		ClassName: className,
		ID:        uuid.New().String(),
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Record{}, fmt.Errorf("failed to create %s record: %w", className, err)
	}

	s.invalidate(ctx, className)
	return rec, nil
}

// Update merges the given fields into the stored record. A nil value
// removes the key. Only the supplied keys change.
func (s *RecordService) Update(ctx context.Context, className, id string, fields map[string]any) (model.Record, error) {
	col, err := s.Collection(ctx, className)
	if err != nil {
		return model.Record{}, err
	}

	if err := validateFields(col, fields, true); err != nil {
		return model.Record{}, err
	}

	existing, err := s.queries.GetRecord(ctx, store.GetRecordParams{ClassName: className, ID: id})
	if errors.Is(err, sql.ErrNoRows) {
		return model.Record{}, ErrRecordNotFound
	}
	if err != nil {
		return model.Record{}, err
	}

	merged := make(map[string]any, len(existing.Fields)+len(fields))
	for k, v := range existing.Fields {
		merged[k] = v
	}
	for k, v := range fields {
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}

	s.renderMarkdown(className, merged)

	rec, err := s.queries.UpdateRecordFields(ctx, store.UpdateRecordFieldsParams{
		Fields:    merged,
		UpdatedAt: time.Now(),
		ClassName: className,
		ID:        id,
	})
	if err != nil {
		return model.Record{}, fmt.Errorf("failed to update %s record: %w", className, err)
	}

	s.invalidate(ctx, className)
	return rec, nil
}

// Delete removes one record. A missing id reports ErrRecordNotFound
// so a repeated delete surfaces as not found rather than succeeding.
func (s *RecordService) Delete(ctx context.Context, className, id string) error {
	if _, err := s.Collection(ctx, className); err != nil {
		return err
	}

	n, err := s.queries.DeleteRecord(ctx, store.DeleteRecordParams{ClassName: className, ID: id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordNotFound
	}

	s.invalidate(ctx, className)
	return nil
}

// BulkDeleteOutcome is the per-id result of a bulk delete.
type BulkDeleteOutcome struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// BulkDelete removes the given ids best-effort: one failing id does not
// stop the rest, and every id gets an outcome entry.
func (s *RecordService) BulkDelete(ctx context.Context, className string, ids []string) ([]BulkDeleteOutcome, error) {
	if _, err := s.Collection(ctx, className); err != nil {
		return nil, err
	}

	outcomes := make([]BulkDeleteOutcome, 0, len(ids))
	var anyDeleted bool
	for _, id := range ids {
		n, err := s.queries.DeleteRecord(ctx, store.DeleteRecordParams{ClassName: className, ID: id})
		outcome := BulkDeleteOutcome{ID: id}
		if err != nil {
			outcome.Error = err.Error()
		} else {
			outcome.Deleted = n > 0
			anyDeleted = anyDeleted || n > 0
		}
		outcomes = append(outcomes, outcome)
	}

	if anyDeleted {
		s.invalidate(ctx, className)
	}
	return outcomes, nil
}

func (s *RecordService) invalidate(ctx context.Context, className string) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, className)
	}
}

// renderMarkdown renders the markdown field of collections that carry
// one into sanitized HTML stored alongside the source.
func (s *RecordService) renderMarkdown(className string, fields map[string]any) {
	keys, ok := markdownFields[className]
	if !ok {
		return
	}
	source, ok := fields[keys[0]].(string)
	if !ok || source == "" {
		return
	}

	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(source), &buf); err != nil {
		return
	}
	fields[keys[1]] = s.policy.Sanitize(buf.String())
}

// validateFields checks a field payload against the collection schema.
// With partial set, required columns may be absent (but not null).
func validateFields(col model.Collection, fields map[string]any, partial bool) error {
	problems := map[string]string{}

	byKey := make(map[string]model.Column, len(col.Columns))
	for _, c := range col.Columns {
		byKey[c.Key] = c
	}

	for key, value := range fields {
		column, ok := byKey[key]
		if !ok {
			// Rendered companion fields are written by the service
			// itself, not by clients.
			if isDerivedKey(col.Name, key) {
				continue
			}
			problems[key] = "unknown field"
			continue
		}
		if value == nil {
			if partial {
				continue // nil means delete on update
			}
			if column.Required {
				problems[key] = "required field is null"
			}
			continue
		}
		if msg := checkFieldType(column.Type, value); msg != "" {
			problems[key] = msg
		}
	}

	if !partial {
		for _, c := range col.Columns {
			if !c.Required {
				continue
			}
			if _, present := fields[c.Key]; !present {
				problems[c.Key] = "required field is missing"
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}
	return nil
}

func isDerivedKey(className, key string) bool {
	keys, ok := markdownFields[className]
	return ok && key == keys[1]
}

// checkFieldType validates a decoded JSON value against a semantic
// column type. Returns "" when the value is acceptable.
func checkFieldType(semanticType string, value any) string {
	switch semanticType {
	case model.TypeText, model.TypeStatus, model.TypeUserReference:
		if _, ok := value.(string); !ok {
			return "expected a string"
		}
	case model.TypeNumber:
		switch value.(type) {
		case float64, int, int64, json.Number:
		default:
			return "expected a number"
		}
	case model.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return "expected a boolean"
		}
	case model.TypeDate:
		str, ok := value.(string)
		if !ok {
			return "expected an RFC 3339 date string"
		}
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			return "expected an RFC 3339 date string"
		}
	case model.TypeImage:
		switch v := value.(type) {
		case string:
			if v == "" {
				return "expected a file URL or reference"
			}
		case map[string]any:
			if _, ok := v["url"].(string); !ok {
				return "expected a file reference with a url"
			}
		default:
			return "expected a file URL or reference"
		}
	}
	return ""
}
