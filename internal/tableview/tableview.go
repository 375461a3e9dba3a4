// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

// Package tableview turns raw record fields into display cells for the
// admin table: locale-aware dates and numbers, badges for booleans and
// statuses, image buttons and user summaries.
package tableview

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vibelive/adminpanel/internal/model"
)

// Truncation limit for text cells. Longer values keep the full text in
// the Title so clients can show it on hover.
const maxTextLength = 50

// Placeholder rendered for null or missing values.
const placeholder = "—"

// Cell kinds
const (
	KindText   = "text"
	KindBadge  = "badge"
	KindImage  = "image"
	KindUser   = "user"
	KindNumber = "number"
	KindDate   = "date"
)

// Badge tones
const (
	TonePositive = "positive"
	ToneNeutral  = "neutral"
	ToneNegative = "negative"
)

// Cell is one rendered table cell.
type Cell struct {
	Kind      string `json:"kind"`
	Value     string `json:"value"`
	Title     string `json:"title,omitempty"`     // full value for truncated text
	Tone      string `json:"tone,omitempty"`      // badge cells
	URL       string `json:"url,omitempty"`       // image cells
	Initials  string `json:"initials,omitempty"`  // user cells without an avatar
	AvatarURL string `json:"avatar_url,omitempty"` // user cells
}

// Row is one rendered record: its id plus one cell per schema column.
type Row struct {
	ID    string `json:"id"`
	Cells []Cell `json:"cells"`
}

// Renderer formats record fields according to a collection schema.
type Renderer struct {
	printer *message.Printer
	locale  language.Tag
}

// NewRenderer creates a renderer for the given BCP 47 locale. An empty
// or invalid locale falls back to English.
func NewRenderer(locale string) *Renderer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Renderer{
		printer: message.NewPrinter(tag),
		locale:  tag,
	}
}

// RenderRows renders every record against the collection's columns.
func (r *Renderer) RenderRows(col model.Collection, records []model.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{ID: rec.ID, Cells: make([]Cell, 0, len(col.Columns))}
		for _, column := range col.Columns {
			row.Cells = append(row.Cells, r.RenderCell(column, rec.Fields[column.Key]))
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderCell formats a single value by its column's semantic type.
func (r *Renderer) RenderCell(column model.Column, value any) Cell {
	if value == nil {
		return Cell{Kind: KindText, Value: placeholder}
	}

	switch column.Type {
	case model.TypeDate:
		return r.renderDate(value)
	case model.TypeBoolean:
		return renderBoolean(value)
	case model.TypeImage:
		return renderImage(value)
	case model.TypeUserReference:
		return renderUser(value)
	case model.TypeStatus:
		return renderStatus(value)
	case model.TypeNumber:
		return r.renderNumber(value)
	default:
		return renderText(stringify(value))
	}
}

func (r *Renderer) renderDate(value any) Cell {
	str, ok := value.(string)
	if !ok {
		return renderText(stringify(value))
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return renderText(str)
	}
	return Cell{
		Kind:  KindDate,
		Value: t.Local().Format("Jan 2, 2006 15:04"),
	}
}

func (r *Renderer) renderNumber(value any) Cell {
	switch v := value.(type) {
	case float64:
		if v == float64(int64(v)) {
			return Cell{Kind: KindNumber, Value: r.printer.Sprintf("%d", int64(v))}
		}
		return Cell{Kind: KindNumber, Value: r.printer.Sprintf("%.2f", v)}
	case int:
		return Cell{Kind: KindNumber, Value: r.printer.Sprintf("%d", v)}
	case int64:
		return Cell{Kind: KindNumber, Value: r.printer.Sprintf("%d", v)}
	default:
		return renderText(stringify(value))
	}
}

func renderBoolean(value any) Cell {
	b, ok := value.(bool)
	if !ok {
		return renderText(stringify(value))
	}
	if b {
		return Cell{Kind: KindBadge, Value: "yes", Tone: TonePositive}
	}
	return Cell{Kind: KindBadge, Value: "no", Tone: ToneNegative}
}

func renderImage(value any) Cell {
	switch v := value.(type) {
	case string:
		return Cell{Kind: KindImage, Value: "view", URL: v}
	case map[string]any:
		if url, ok := v["url"].(string); ok {
			return Cell{Kind: KindImage, Value: "view", URL: url}
		}
	}
	return Cell{Kind: KindText, Value: placeholder}
}

func renderUser(value any) Cell {
	switch v := value.(type) {
	case string:
		return Cell{Kind: KindUser, Value: v, Initials: Initials(v)}
	case map[string]any:
		name, _ := v["name"].(string)
		if name == "" {
			name, _ = v["username"].(string)
		}
		cell := Cell{Kind: KindUser, Value: name, Initials: Initials(name)}
		if avatar, ok := v["avatar"].(string); ok && avatar != "" {
			cell.AvatarURL = avatar
			cell.Initials = ""
		}
		if cell.Value == "" {
			cell.Value = placeholder
		}
		return cell
	}
	return Cell{Kind: KindText, Value: placeholder}
}

// statusTones maps the fixed status vocabulary to badge tones. Unknown
// statuses render neutral.
var statusTones = map[string]string{
	"active":   TonePositive,
	"approved": TonePositive,
	"pending":  ToneNeutral,
	"rejected": ToneNegative,
	"inactive": ToneNegative,
}

func renderStatus(value any) Cell {
	str, ok := value.(string)
	if !ok {
		return renderText(stringify(value))
	}
	tone, ok := statusTones[strings.ToLower(str)]
	if !ok {
		tone = ToneNeutral
	}
	return Cell{Kind: KindBadge, Value: str, Tone: tone}
}

func renderText(s string) Cell {
	if s == "" {
		return Cell{Kind: KindText, Value: placeholder}
	}
	runes := []rune(s)
	if len(runes) <= maxTextLength {
		return Cell{Kind: KindText, Value: s}
	}
	return Cell{
		Kind:  KindText,
		Value: string(runes[:maxTextLength]) + "…",
		Title: s,
	}
}

// Initials derives up to two uppercase initials from a display name.
func Initials(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				initials = append(initials, unicode.ToUpper(r))
			}
			break
		}
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
