// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package tableview

import (
	"strings"
	"testing"

	"github.com/vibelive/adminpanel/internal/model"
)

func TestRenderCell_TextTruncation(t *testing.T) {
	r := NewRenderer("en")
	col := model.Column{Key: "bio", Type: model.TypeText}

	short := strings.Repeat("a", 50)
	cell := r.RenderCell(col, short)
	if cell.Value != short {
		t.Errorf("50-rune value must not be truncated, got %q", cell.Value)
	}
	if cell.Title != "" {
		t.Errorf("Title should be empty for untruncated text, got %q", cell.Title)
	}

	long := strings.Repeat("a", 51)
	cell = r.RenderCell(col, long)
	if got := []rune(cell.Value); len(got) != 51 || got[50] != '…' {
		t.Errorf("Value = %q, want 50 runes plus ellipsis", cell.Value)
	}
	if cell.Title != long {
		t.Errorf("Title must carry the full value, got %q", cell.Title)
	}
}

func TestRenderCell_TruncationCountsRunes(t *testing.T) {
	r := NewRenderer("en")
	col := model.Column{Key: "bio", Type: model.TypeText}

	// 51 multi-byte runes: truncation must cut at rune 50, not byte 50.
	long := strings.Repeat("م", 51)
	cell := r.RenderCell(col, long)
	runes := []rune(cell.Value)
	if len(runes) != 51 {
		t.Fatalf("len = %d runes, want 50 plus ellipsis", len(runes))
	}
	if runes[50] != '…' {
		t.Errorf("last rune = %q, want ellipsis", runes[50])
	}
}

func TestRenderCell_NullPlaceholder(t *testing.T) {
	r := NewRenderer("en")

	for _, colType := range []string{
		model.TypeText, model.TypeNumber, model.TypeDate,
		model.TypeBoolean, model.TypeImage, model.TypeUserReference,
	} {
		cell := r.RenderCell(model.Column{Key: "x", Type: colType}, nil)
		if cell.Value != "—" {
			t.Errorf("%s: Value = %q, want placeholder", colType, cell.Value)
		}
	}
}

func TestRenderCell_Boolean(t *testing.T) {
	r := NewRenderer("en")
	col := model.Column{Key: "active", Type: model.TypeBoolean}

	cell := r.RenderCell(col, true)
	if cell.Kind != KindBadge || cell.Value != "yes" || cell.Tone != TonePositive {
		t.Errorf("true = %+v, want positive yes badge", cell)
	}

	cell = r.RenderCell(col, false)
	if cell.Kind != KindBadge || cell.Value != "no" || cell.Tone != ToneNegative {
		t.Errorf("false = %+v, want negative no badge", cell)
	}
}

func TestRenderCell_StatusTones(t *testing.T) {
	r := NewRenderer("en")
	col := model.Column{Key: "status", Type: model.TypeStatus}

	tests := []struct {
		status string
		tone   string
	}{
		{"active", TonePositive},
		{"Approved", TonePositive},
		{"pending", ToneNeutral},
		{"rejected", ToneNegative},
		{"inactive", ToneNegative},
		{"archived", ToneNeutral}, // unknown statuses render neutral
	}

	for _, tt := range tests {
		cell := r.RenderCell(col, tt.status)
		if cell.Kind != KindBadge {
			t.Errorf("%s: Kind = %q, want badge", tt.status, cell.Kind)
		}
		if cell.Tone != tt.tone {
			t.Errorf("%s: Tone = %q, want %q", tt.status, cell.Tone, tt.tone)
		}
		if cell.Value != tt.status {
			t.Errorf("%s: Value = %q, casing must be preserved", tt.status, cell.Value)
		}
	}
}

func TestRenderCell_Number(t *testing.T) {
	r := NewRenderer("en")
	col := model.Column{Key: "coins", Type: model.TypeNumber}

	cell := r.RenderCell(col, float64(1234567))
	if cell.Kind != KindNumber {
		t.Fatalf("Kind = %q, want number", cell.Kind)
	}
	if cell.Value != "1,234,567" {
		t.Errorf("Value = %q, want grouped digits", cell.Value)
	}

	cell = r.RenderCell(col, 12.5)
	if cell.Value != "12.50" {
		t.Errorf("Value = %q, want two decimals", cell.Value)
	}
}

func TestRenderCell_Date(t *testing.T) {
	r := NewRenderer("en")
	col := model.Column{Key: "created", Type: model.TypeDate}

	cell := r.RenderCell(col, "2026-03-15T09:30:00Z")
	if cell.Kind != KindDate {
		t.Fatalf("Kind = %q, want date", cell.Kind)
	}
	if !strings.Contains(cell.Value, "2026") {
		t.Errorf("Value = %q, want a formatted date", cell.Value)
	}

	// Unparseable dates fall back to plain text.
	cell = r.RenderCell(col, "soon")
	if cell.Kind != KindText || cell.Value != "soon" {
		t.Errorf("bad date = %+v, want text passthrough", cell)
	}
}

func TestRenderCell_Image(t *testing.T) {
	r := NewRenderer("en")
	col := model.Column{Key: "icon", Type: model.TypeImage}

	cell := r.RenderCell(col, "/uploads/originals/abc/icon.png")
	if cell.Kind != KindImage || cell.Value != "view" {
		t.Errorf("cell = %+v, want image view button", cell)
	}
	if cell.URL != "/uploads/originals/abc/icon.png" {
		t.Errorf("URL = %q", cell.URL)
	}

	cell = r.RenderCell(col, map[string]any{"name": "icon.png", "url": "/uploads/x"})
	if cell.URL != "/uploads/x" {
		t.Errorf("URL = %q, want url from file reference", cell.URL)
	}
}

func TestRenderCell_User(t *testing.T) {
	r := NewRenderer("en")
	col := model.Column{Key: "sender", Type: model.TypeUserReference}

	cell := r.RenderCell(col, map[string]any{"name": "Sara Ahmed"})
	if cell.Kind != KindUser || cell.Value != "Sara Ahmed" {
		t.Errorf("cell = %+v", cell)
	}
	if cell.Initials != "SA" {
		t.Errorf("Initials = %q, want SA", cell.Initials)
	}

	cell = r.RenderCell(col, map[string]any{"username": "dj_omar", "avatar": "/uploads/a.jpg"})
	if cell.AvatarURL != "/uploads/a.jpg" {
		t.Errorf("AvatarURL = %q", cell.AvatarURL)
	}
	if cell.Initials != "" {
		t.Errorf("Initials = %q, must be empty when an avatar is set", cell.Initials)
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Sara Ahmed", "SA"},
		{"madonna", "M"},
		{"jean claude van damme", "JC"},
		{"", ""},
		{"دانة الكويت", "دا"},
	}

	for _, tt := range tests {
		if got := Initials(tt.name); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRenderRows(t *testing.T) {
	r := NewRenderer("en")
	col := model.Collection{
		Name: "Gift",
		Columns: []model.Column{
			{Key: "name", Type: model.TypeText},
			{Key: "price", Type: model.TypeNumber},
		},
	}
	records := []model.Record{
		{ID: "a", Fields: map[string]any{"name": "Rose", "price": float64(10)}},
		{ID: "b", Fields: map[string]any{"name": "Car"}},
	}

	rows := r.RenderRows(col, records)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].ID != "a" || len(rows[0].Cells) != 2 {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[1].Cells[1].Value != "—" {
		t.Errorf("missing price should render the placeholder, got %q", rows[1].Cells[1].Value)
	}
}
