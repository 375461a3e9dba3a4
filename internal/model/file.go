// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Supported image variant types
const (
	VariantThumbnail = "thumbnail"
	VariantMedium    = "medium"
)

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypeMP4  = "video/mp4"
	MimeTypeWebM = "video/webm"
	MimeTypeMP3  = "audio/mpeg"
)

// ImageVariantConfig defines settings for generating image variants.
type ImageVariantConfig struct {
	Width   int
	Height  int
	Quality int
	Crop    bool // true = crop to exact size, false = fit within bounds
}

// ImageVariants defines the default image variant configurations.
// Thumbnails back the table's avatar/icon cells; medium backs previews.
var ImageVariants = map[string]ImageVariantConfig{
	VariantThumbnail: {Width: 150, Height: 150, Quality: 80, Crop: true},
	VariantMedium:    {Width: 800, Height: 600, Quality: 85, Crop: false},
}

// StoredFile represents an uploaded file (gift icon, avatar frame,
// ad creative, announcement image, ...).
type StoredFile struct {
	ID           int64
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

// IsImage returns true if the file is an image.
func (f *StoredFile) IsImage() bool {
	switch f.MimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

// SupportedImageTypes returns the image MIME types accepted for upload.
func SupportedImageTypes() []string {
	return []string{MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP}
}

// AllSupportedTypes returns all MIME types accepted for upload.
func AllSupportedTypes() []string {
	types := append([]string{}, SupportedImageTypes()...)
	return append(types, MimeTypeMP4, MimeTypeWebM, MimeTypeMP3)
}

// IsSupportedMimeType checks if a MIME type is accepted for upload.
func IsSupportedMimeType(mimeType string) bool {
	for _, t := range AllSupportedTypes() {
		if t == mimeType {
			return true
		}
	}
	return false
}
