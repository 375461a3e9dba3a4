// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vibelive/adminpanel/internal/store"
)

// multipartFile builds a real multipart file part the way a client
// upload arrives.
func multipartFile(t *testing.T, filename, contentType, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(MaxUploadSize)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	fh := form.File["file"][0]
	f, err := fh.Open()
	if err != nil {
		t.Fatalf("opening part: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	return f, fh
}

func TestUpload_NonImage(t *testing.T) {
	db := openRecordTestDB(t)
	ctx := context.Background()

	now := time.Now()
	uploader, err := store.New(db).CreateAccount(ctx, store.CreateAccountParams{
		Username:     "uploader",
		PasswordHash: "hash",
		Role:         "editor",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	uploadDir := t.TempDir()
	svc := NewFileService(db, uploadDir)

	file, header := multipartFile(t, "Intro JINGLE.MP3", "audio/mpeg", "not really mpeg audio")
	result, err := svc.Upload(ctx, file, header, uploader.ID)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	stored := result.File

	// The stored name is a fresh UUID plus the original extension, so
	// it never matches the client-supplied name.
	if stored.Filename == "" || stored.Filename == header.Filename {
		t.Errorf("Filename = %q, want a server-generated name", stored.Filename)
	}
	if !strings.HasSuffix(stored.Filename, ".mp3") {
		t.Errorf("Filename = %q, want the original extension preserved", stored.Filename)
	}
	if stored.Filename != stored.UUID+".mp3" {
		t.Errorf("Filename = %q, want %q", stored.Filename, stored.UUID+".mp3")
	}
	if stored.OriginalName != "intro-jingle.mp3" {
		t.Errorf("OriginalName = %q, want the sanitized client name", stored.OriginalName)
	}
	if stored.Size != int64(len("not really mpeg audio")) {
		t.Errorf("Size = %d", stored.Size)
	}
	if stored.Width.Valid || stored.Height.Valid {
		t.Error("non-images must not record dimensions")
	}

	// The bytes landed under the serving root.
	onDisk := filepath.Join(uploadDir, "originals", stored.UUID, stored.Filename)
	if _, err := os.Stat(onDisk); err != nil {
		t.Errorf("stored file missing on disk: %v", err)
	}

	url := svc.URL(stored, "")
	if url == "" {
		t.Fatal("URL must not be empty")
	}
	want := "/uploads/originals/" + stored.UUID + "/" + stored.Filename
	if url != want {
		t.Errorf("URL = %q, want %q", url, want)
	}

	ref := svc.Ref(stored)
	if ref.URL != url || ref.Name != stored.Filename {
		t.Errorf("Ref = %+v", ref)
	}

	if svc.ThumbnailURL(stored) != "" {
		t.Error("non-images have no thumbnail URL")
	}
}

func TestUpload_RejectsUnsupportedType(t *testing.T) {
	db := openRecordTestDB(t)
	svc := NewFileService(db, t.TempDir())

	file, header := multipartFile(t, "malware.exe", "application/x-msdownload", "MZ")
	if _, err := svc.Upload(context.Background(), file, header, 1); err == nil {
		t.Fatal("expected an error for an unsupported MIME type")
	}
}
