// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package access

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Role
	}{
		{"plain admin", "admin", RoleAdmin},
		{"upper case", "ADMIN", RoleAdmin},
		{"padded", "  Admin ", RoleAdmin},
		{"administrator", "Administrator", RoleAdmin},
		{"embedded", "super-admin", RoleAdmin},
		{"arabic admin", "مدير", RoleAdmin},
		{"editor", "Editor", RoleEditor},
		{"viewer", "viewer", RoleViewer},
		{"unknown passes through", "moderator", Role("moderator")},
		{"empty", "", Role("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.raw); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCanAccessPageAdminUnrestricted(t *testing.T) {
	// Admin with an empty allow-list sees every page in the catalog.
	for _, p := range Pages() {
		if !CanAccessPage(RoleAdmin, nil, p) {
			t.Errorf("admin with empty allow-list denied page %q", p)
		}
	}
}

func TestCanAccessPageAllowListWins(t *testing.T) {
	allowed := []string{PageUsers, PageGifts}

	// A non-empty allow-list restricts to exactly that set, for any role.
	for _, role := range []Role{RoleAdmin, RoleEditor, RoleViewer, Role("moderator")} {
		for _, p := range Pages() {
			want := p == PageUsers || p == PageGifts
			if got := CanAccessPage(role, allowed, p); got != want {
				t.Errorf("role %q page %q: got %v, want %v", role, p, got, want)
			}
		}
	}
}

func TestCanAccessPageNonAdminEmptyList(t *testing.T) {
	// Non-admin roles with an empty allow-list fail closed.
	for _, role := range []Role{RoleEditor, RoleViewer, Role(""), Role("moderator")} {
		for _, p := range Pages() {
			if CanAccessPage(role, nil, p) {
				t.Errorf("role %q with empty allow-list granted page %q", role, p)
			}
		}
	}
}

func TestCanEdit(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleEditor, true},
		{RoleViewer, false},
		{Role("moderator"), false},
		{Role(""), false},
	}
	for _, tt := range tests {
		if got := CanEdit(tt.role); got != tt.want {
			t.Errorf("CanEdit(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestCanDelete(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleEditor, false},
		{RoleViewer, false},
		{Role(""), false},
	}
	for _, tt := range tests {
		if got := CanDelete(tt.role); got != tt.want {
			t.Errorf("CanDelete(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestVisiblePages(t *testing.T) {
	if got := VisiblePages(RoleViewer, nil); got != nil {
		t.Errorf("viewer with empty allow-list should see no pages, got %v", got)
	}

	got := VisiblePages(RoleViewer, []string{PageGifts, PageUsers})
	// Catalog order is preserved regardless of allow-list order.
	want := []string{PageUsers, PageGifts}
	if len(got) != len(want) {
		t.Fatalf("VisiblePages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("VisiblePages[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIsKnownPage(t *testing.T) {
	if !IsKnownPage(PageDashboard) {
		t.Error("dashboard should be a known page")
	}
	if IsKnownPage("payments") {
		t.Error("unknown page id should not be in the catalog")
	}
}
