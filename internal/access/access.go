// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

// Package access decides which dashboard pages an account may see and
// whether it may mutate data. The resolver is a pure function of the
// stored role string and the page allow-list; absence of either degrades
// to "no access" rather than an error.
package access

import (
	"strings"

	"github.com/vibelive/adminpanel/internal/model"
)

// Role is a normalized account role.
type Role string

// Normalized roles.
const (
	RoleAdmin  Role = model.RoleAdmin
	RoleEditor Role = model.RoleEditor
	RoleViewer Role = model.RoleViewer
)

// adminSynonyms are role strings that mean administrator. The mobile app
// backend historically stored localized role names, so the Arabic forms
// are matched alongside the English ones.
var adminSynonyms = []string{"admin", "administrator", "مدير", "مشرف"}

// Resolve normalizes a stored role string. Any string containing an
// administrator synonym resolves to RoleAdmin; anything else passes
// through lower-cased and trimmed. Unknown roles stay unprivileged.
func Resolve(raw string) Role {
	role := strings.ToLower(strings.TrimSpace(raw))
	for _, syn := range adminSynonyms {
		if strings.Contains(role, syn) {
			return RoleAdmin
		}
	}
	return Role(role)
}

// CanAccessPage reports whether an account with the given role and page
// allow-list may view pageID.
//
// An admin with an empty allow-list sees everything. Any account with a
// non-empty allow-list is restricted to exactly that set, regardless of
// role. A non-admin with an empty allow-list sees nothing.
func CanAccessPage(role Role, allowedPages []string, pageID string) bool {
	if len(allowedPages) == 0 {
		return role == RoleAdmin
	}
	for _, p := range allowedPages {
		if p == pageID {
			return true
		}
	}
	return false
}

// CanEdit reports whether the role may create or update records.
func CanEdit(role Role) bool {
	return role == RoleAdmin || role == RoleEditor
}

// CanDelete reports whether the role may delete records.
func CanDelete(role Role) bool {
	return role == RoleAdmin
}
