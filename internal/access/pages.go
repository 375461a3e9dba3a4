// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package access

// Page identifiers. The catalog is closed: the navigation menu, the
// permission editor and the per-collection authorization checks all
// agree on exactly this set.
const (
	PageDashboard     = "dashboard"
	PageUsers         = "users"
	PageMessages      = "messages"
	PageGifts         = "gifts"
	PageAvatarFrames  = "avatar-frames"
	PageAds           = "ads"
	PageAnnouncements = "announcements"
	PageAgencies      = "agencies"
	PageWithdrawals   = "withdrawals"
	PageCategories    = "categories"
	PageFiles         = "files"
	PageEvents        = "events"
	PageAccess        = "access"
)

// pageCatalog lists every page in menu order.
var pageCatalog = []string{
	PageDashboard,
	PageUsers,
	PageMessages,
	PageGifts,
	PageAvatarFrames,
	PageAds,
	PageAnnouncements,
	PageAgencies,
	PageWithdrawals,
	PageCategories,
	PageFiles,
	PageEvents,
	PageAccess,
}

// Pages returns the full page catalog in menu order.
func Pages() []string {
	out := make([]string, len(pageCatalog))
	copy(out, pageCatalog)
	return out
}

// IsKnownPage reports whether id belongs to the catalog.
func IsKnownPage(id string) bool {
	for _, p := range pageCatalog {
		if p == id {
			return true
		}
	}
	return false
}

// VisiblePages filters the catalog down to the pages an account may see.
func VisiblePages(role Role, allowedPages []string) []string {
	var out []string
	for _, p := range pageCatalog {
		if CanAccessPage(role, allowedPages, p) {
			out = append(out, p)
		}
	}
	return out
}
