// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is a schema-less row belonging to a named collection. Fields is
// an open map whose shape is whatever the collection contains; the column
// schema declares which keys the panel cares about.
type Record struct {
	ID        string         `json:"id"`
	ClassName string         `json:"class_name"`
	Fields    map[string]any `json:"fields"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// FieldsFromJSON decodes a stored field map.
func FieldsFromJSON(data string) (map[string]any, error) {
	fields := map[string]any{}
	if data == "" {
		return fields, nil
	}
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("decoding record fields: %w", err)
	}
	return fields, nil
}

// FieldsToJSON encodes a field map for storage.
func FieldsToJSON(fields map[string]any) (string, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encoding record fields: %w", err)
	}
	return string(data), nil
}

// FileRef is the value stored in a file-typed record field: a stable
// server-assigned name plus the URL the file can be retrieved from.
type FileRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
