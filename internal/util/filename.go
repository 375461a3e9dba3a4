// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// SanitizeFilename converts an uploaded filename into a safe ASCII name:
// transliterated, lower-cased, with path separators and special
// characters stripped. Mobile clients upload names in any script.
func SanitizeFilename(name string) string {
	// Drop any directory components the client sent
	name = filepath.Base(name)

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	base = unidecode.Unidecode(base)
	base = strings.ToLower(strings.TrimSpace(base))
	base = strings.ReplaceAll(base, " ", "-")
	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = strings.Trim(base, "._-")
	if base == "" {
		base = "file"
	}

	// Lower-case before stripping: the unsafe-char class only admits
	// lower-case letters, so the order matters for ".JPG".
	ext = strings.ToLower(unidecode.Unidecode(ext))
	ext = unsafeFilenameChars.ReplaceAllString(ext, "")
	ext = strings.TrimPrefix(ext, ".")
	if ext != "" {
		return base + "." + ext
	}
	return base
}
