// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/vibelive/adminpanel/internal/model"
)

const recordColumns = `class_name, id, fields, created_at, updated_at`

func scanRecord(s scanner) (model.Record, error) {
	var r model.Record
	var fields string
	err := s.Scan(&r.ClassName, &r.ID, &fields, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return model.Record{}, err
	}
	r.Fields, err = model.FieldsFromJSON(fields)
	if err != nil {
		return model.Record{}, err
	}
	return r, nil
}

// CreateRecordParams holds parameters for CreateRecord.
type CreateRecordParams struct {
	ClassName string
	ID        string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateRecord inserts a new record and returns the stored row.
func (q *Queries) CreateRecord(ctx context.Context, arg CreateRecordParams) (model.Record, error) {
	fields, err := model.FieldsToJSON(arg.Fields)
	if err != nil {
		return model.Record{}, err
	}
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO records (class_name, id, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+recordColumns,
		arg.ClassName, arg.ID, fields, arg.CreatedAt, arg.UpdatedAt)
	return scanRecord(row)
}

// GetRecordParams identifies one record by class and id.
type GetRecordParams struct {
	ClassName string
	ID        string
}

// GetRecord returns one record.
func (q *Queries) GetRecord(ctx context.Context, arg GetRecordParams) (model.Record, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE class_name = ? AND id = ?`,
		arg.ClassName, arg.ID)
	return scanRecord(row)
}

// ListRecordsParams holds parameters for ListRecords.
type ListRecordsParams struct {
	ClassName string
	Limit     int64
	Offset    int64
}

// ListRecords returns up to Limit records of a class starting at Offset,
// oldest first so that offsets are stable while records are appended.
func (q *Queries) ListRecords(ctx context.Context, arg ListRecordsParams) ([]model.Record, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM records
		WHERE class_name = ?
		ORDER BY created_at, id
		LIMIT ? OFFSET ?`,
		arg.ClassName, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountRecords returns the number of records in a class.
func (q *Queries) CountRecords(ctx context.Context, className string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE class_name = ?`, className).Scan(&count)
	return count, err
}

// UpdateRecordFieldsParams holds parameters for UpdateRecordFields.
type UpdateRecordFieldsParams struct {
	Fields    map[string]any
	UpdatedAt time.Time
	ClassName string
	ID        string
}

// UpdateRecordFields replaces the full field map of a record. Partial
// update semantics (merging the caller's subset into the stored map) are
// handled by the service layer, which reads first.
func (q *Queries) UpdateRecordFields(ctx context.Context, arg UpdateRecordFieldsParams) (model.Record, error) {
	fields, err := model.FieldsToJSON(arg.Fields)
	if err != nil {
		return model.Record{}, err
	}
	row := q.db.QueryRowContext(ctx, `
		UPDATE records SET fields = ?, updated_at = ?
		WHERE class_name = ? AND id = ?
		RETURNING `+recordColumns,
		fields, arg.UpdatedAt, arg.ClassName, arg.ID)
	return scanRecord(row)
}

// DeleteRecordParams identifies one record by class and id.
type DeleteRecordParams struct {
	ClassName string
	ID        string
}

// DeleteRecord removes one record. Returns the number of rows deleted so
// callers can distinguish a missing record from a successful delete.
func (q *Queries) DeleteRecord(ctx context.Context, arg DeleteRecordParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM records WHERE class_name = ? AND id = ?`,
		arg.ClassName, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
