// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer imports legacy backend data from the MongoDB store
// the mobile app's previous Parse-based backend wrote to.
package transfer

// ImportOptions controls a legacy import run.
type ImportOptions struct {
	// MongoURI is the connection string of the legacy database.
	MongoURI string
	// Database is the legacy database name.
	Database string
	// Classes restricts the import to these class names. Empty means
	// every registered collection.
	Classes []string
	// SkipExisting leaves records whose id already exists untouched
	// instead of overwriting them.
	SkipExisting bool
	// DryRun validates and counts without writing anything.
	DryRun bool
}

// ImportError describes one failed document.
type ImportError struct {
	Class   string `json:"class"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ImportResult summarizes an import run.
type ImportResult struct {
	DryRun   bool           `json:"dry_run"`
	Imported map[string]int `json:"imported"`
	Skipped  map[string]int `json:"skipped"`
	Errors   []ImportError  `json:"errors,omitempty"`
}

// NewImportResult creates an empty result.
func NewImportResult(dryRun bool) *ImportResult {
	return &ImportResult{
		DryRun:   dryRun,
		Imported: make(map[string]int),
		Skipped:  make(map[string]int),
	}
}

// AddError records a per-document failure.
func (r *ImportResult) AddError(class, id, message string) {
	r.Errors = append(r.Errors, ImportError{Class: class, ID: id, Message: message})
}
