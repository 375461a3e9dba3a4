// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/vibelive/adminpanel/internal/model"
)

const fileColumns = `id, uuid, filename, original_name, mime_type, size, width, height, uploaded_by, created_at`

func scanFile(s scanner) (model.StoredFile, error) {
	var f model.StoredFile
	err := s.Scan(&f.ID, &f.UUID, &f.Filename, &f.OriginalName, &f.MimeType,
		&f.Size, &f.Width, &f.Height, &f.UploadedBy, &f.CreatedAt)
	if err != nil {
		return model.StoredFile{}, err
	}
	return f, nil
}

// CreateFileParams holds parameters for CreateFile.
type CreateFileParams struct {
	UUID         string
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Width        sql.NullInt64
	Height       sql.NullInt64
	UploadedBy   int64
	CreatedAt    time.Time
}

// CreateFile inserts a stored file row and returns it.
func (q *Queries) CreateFile(ctx context.Context, arg CreateFileParams) (model.StoredFile, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO files (uuid, filename, original_name, mime_type, size, width, height, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+fileColumns,
		arg.UUID, arg.Filename, arg.OriginalName, arg.MimeType, arg.Size,
		arg.Width, arg.Height, arg.UploadedBy, arg.CreatedAt)
	return scanFile(row)
}

// GetFileByID returns the stored file with the given id.
func (q *Queries) GetFileByID(ctx context.Context, id int64) (model.StoredFile, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id = ?`, id)
	return scanFile(row)
}

// ListFilesParams holds parameters for ListFiles.
type ListFilesParams struct {
	Limit  int64
	Offset int64
}

// ListFiles returns stored files, newest first.
func (q *Queries) ListFiles(ctx context.Context, arg ListFilesParams) ([]model.StoredFile, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+fileColumns+` FROM files ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []model.StoredFile
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// CountFiles returns the total number of stored files.
func (q *Queries) CountFiles(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&count)
	return count, err
}

// DeleteFile removes a stored file row. Returns the number of rows deleted.
func (q *Queries) DeleteFile(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
