// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vibelive/adminpanel/internal/imaging"
	"github.com/vibelive/adminpanel/internal/model"
	"github.com/vibelive/adminpanel/internal/store"
	"github.com/vibelive/adminpanel/internal/util"
)

// Upload limits
const (
	MaxUploadSize    = 20 * 1024 * 1024 // 20MB
	DefaultUploadDir = "./uploads"
)

// UploadResult contains the result of a file upload.
type UploadResult struct {
	File     model.StoredFile
	Variants []*imaging.VariantResult
}

// FileService handles uploaded file storage and processing.
type FileService struct {
	db        *sql.DB
	processor *imaging.Processor
	uploadDir string
}

// NewFileService creates a new file service.
func NewFileService(db *sql.DB, uploadDir string) *FileService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &FileService{
		db:        db,
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
	}
}

// Upload validates, stores and processes an uploaded file. The stored
// name is derived from a fresh UUID so it never collides with or leaks
// the client-supplied name; the original extension is preserved.
func (s *FileService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, uploaderID int64) (*UploadResult, error) {
	if header.Size > MaxUploadSize {
		return nil, fmt.Errorf("file size exceeds maximum allowed (%d bytes)", MaxUploadSize)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeTypeFromExtension(header.Filename)
	}
	if !model.IsSupportedMimeType(mimeType) {
		return nil, fmt.Errorf("file type %s is not allowed", mimeType)
	}

	fileUUID := uuid.New().String()
	originalName := util.SanitizeFilename(header.Filename)

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".bin"
	}
	storedName := fileUUID + ext

	queries := store.New(s.db)
	now := time.Now()

	var result UploadResult

	if s.processor.IsImage(mimeType) {
		processResult, err := s.processor.ProcessImage(file, fileUUID, storedName)
		if err != nil {
			return nil, fmt.Errorf("failed to process image: %w", err)
		}

		stored, err := queries.CreateFile(ctx, store.CreateFileParams{
			UUID:         fileUUID,
			Filename:     storedName,
			OriginalName: originalName,
			MimeType:     processResult.MimeType,
			Size:         processResult.Size,
			Width:        sql.NullInt64{Int64: int64(processResult.Width), Valid: true},
			Height:       sql.NullInt64{Int64: int64(processResult.Height), Valid: true},
			UploadedBy:   uploaderID,
			CreatedAt:    now,
		})
		if err != nil {
			_ = s.processor.DeleteFiles(fileUUID)
			return nil, fmt.Errorf("failed to create file record: %w", err)
		}
		result.File = stored

		variants, err := s.processor.CreateAllVariants(processResult.FilePath, fileUUID, storedName)
		if err != nil {
			// The original is saved, missing variants are not fatal.
			fmt.Printf("Warning: failed to create some variants: %v\n", err)
		}
		result.Variants = variants
	} else {
		filePath, size, err := s.saveRawFile(file, fileUUID, storedName)
		if err != nil {
			return nil, fmt.Errorf("failed to save file: %w", err)
		}

		stored, err := queries.CreateFile(ctx, store.CreateFileParams{
			UUID:         fileUUID,
			Filename:     storedName,
			OriginalName: originalName,
			MimeType:     mimeType,
			Size:         size,
			Width:        sql.NullInt64{Valid: false},
			Height:       sql.NullInt64{Valid: false},
			UploadedBy:   uploaderID,
			CreatedAt:    now,
		})
		if err != nil {
			_ = os.Remove(filePath)
			return nil, fmt.Errorf("failed to create file record: %w", err)
		}
		result.File = stored
	}

	return &result, nil
}

// Delete removes a stored file and its data on disk.
func (s *FileService) Delete(ctx context.Context, fileID int64) error {
	queries := store.New(s.db)

	stored, err := queries.GetFileByID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	if _, err := queries.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	if err := s.processor.DeleteFiles(stored.UUID); err != nil {
		// DB record is already gone, leave the orphan on disk.
		fmt.Printf("Warning: failed to delete files for %d: %v\n", fileID, err)
	}

	return nil
}

// URL returns the serving path for a stored file, optionally for a
// variant.
func (s *FileService) URL(f model.StoredFile, variant string) string {
	if variant == "" || variant == "original" {
		return fmt.Sprintf("/uploads/originals/%s/%s", f.UUID, f.Filename)
	}
	return fmt.Sprintf("/uploads/%s/%s/%s", variant, f.UUID, f.Filename)
}

// ThumbnailURL returns the thumbnail URL, or "" for non-images.
func (s *FileService) ThumbnailURL(f model.StoredFile) string {
	if !f.IsImage() {
		return ""
	}
	return s.URL(f, model.VariantThumbnail)
}

// Ref returns the file reference stored inside record fields.
func (s *FileService) Ref(f model.StoredFile) model.FileRef {
	return model.FileRef{
		Name: f.Filename,
		URL:  s.URL(f, ""),
	}
}

func (s *FileService) saveRawFile(file io.Reader, uuid, filename string) (string, int64, error) {
	dir := filepath.Join(s.uploadDir, "originals", uuid)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory: %w", err)
	}

	filePath := filepath.Join(dir, filename)
	out, err := os.Create(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = out.Close() }()

	size, err := io.Copy(out, file)
	if err != nil {
		_ = os.Remove(filePath)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, size, nil
}

func mimeTypeFromExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return model.MimeTypeJPEG
	case ".png":
		return model.MimeTypePNG
	case ".gif":
		return model.MimeTypeGIF
	case ".webp":
		return model.MimeTypeWebP
	case ".mp4":
		return model.MimeTypeMP4
	case ".webm":
		return model.MimeTypeWebM
	case ".mp3":
		return model.MimeTypeMP3
	default:
		return "application/octet-stream"
	}
}
