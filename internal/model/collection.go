// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Semantic column types understood by the table renderer and the
// record validator.
const (
	TypeText          = "text"
	TypeNumber        = "number"
	TypeDate          = "date"
	TypeBoolean       = "boolean"
	TypeImage         = "image"
	TypeUserReference = "user-reference"
	TypeStatus        = "status"
)

// semanticTypes is the closed set of column types.
var semanticTypes = map[string]bool{
	TypeText:          true,
	TypeNumber:        true,
	TypeDate:          true,
	TypeBoolean:       true,
	TypeImage:         true,
	TypeUserReference: true,
	TypeStatus:        true,
}

// IsSemanticType reports whether t is a recognized column type.
func IsSemanticType(t string) bool {
	return semanticTypes[t]
}

// Column describes one field of a collection: which record key it reads,
// the label shown in the table header, and the semantic type that drives
// both rendering and payload validation.
type Column struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
}

// Collection is a named record class with its column schema and the
// dashboard page that gates access to it.
type Collection struct {
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Page      string    `json:"page"`
	Columns   []Column  `json:"columns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ColumnsFromJSON decodes a stored column schema.
func ColumnsFromJSON(data string) ([]Column, error) {
	if data == "" {
		return nil, nil
	}
	var cols []Column
	if err := json.Unmarshal([]byte(data), &cols); err != nil {
		return nil, fmt.Errorf("decoding column schema: %w", err)
	}
	return cols, nil
}

// ColumnsToJSON encodes a column schema for storage.
func ColumnsToJSON(cols []Column) (string, error) {
	data, err := json.Marshal(cols)
	if err != nil {
		return "", fmt.Errorf("encoding column schema: %w", err)
	}
	return string(data), nil
}
