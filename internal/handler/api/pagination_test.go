// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "testing"

// windowNumbers extracts just the non-ellipsis page numbers between the
// optional first/last links.
func windowNumbers(p Pagination) []int {
	var nums []int
	for _, page := range p.Pages {
		if !page.IsEllipsis {
			nums = append(nums, page.Number)
		}
	}
	return nums
}

func TestBuildPagination_SmallSet(t *testing.T) {
	// 3 pages total: all buttons, no ellipsis.
	p := BuildPagination(2, 60, 20)

	if p.TotalPages != 3 {
		t.Fatalf("TotalPages = %d, want 3", p.TotalPages)
	}
	if !p.HasPrev || !p.HasNext {
		t.Errorf("HasPrev = %v, HasNext = %v, want both true", p.HasPrev, p.HasNext)
	}
	for _, page := range p.Pages {
		if page.IsEllipsis {
			t.Fatalf("no ellipsis expected for 3 pages: %+v", p.Pages)
		}
	}
	got := windowNumbers(p)
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pages[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBuildPagination_WindowCenteredOnCurrent(t *testing.T) {
	// Page 10 of 20: window 8..12 plus first/last with ellipses.
	p := BuildPagination(10, 400, 20)

	if p.TotalPages != 20 {
		t.Fatalf("TotalPages = %d, want 20", p.TotalPages)
	}

	want := []int{1, 8, 9, 10, 11, 12, 20}
	got := windowNumbers(p)
	if len(got) != len(want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pages[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	// The strip is 1, …, 8..12, …, 20.
	if !p.Pages[1].IsEllipsis {
		t.Error("expected ellipsis after the first-page link")
	}
	if !p.Pages[len(p.Pages)-2].IsEllipsis {
		t.Error("expected ellipsis before the last-page link")
	}

	var current int
	for _, page := range p.Pages {
		if page.IsCurrent {
			current = page.Number
		}
	}
	if current != 10 {
		t.Errorf("current page marker on %d, want 10", current)
	}
}

func TestBuildPagination_ClampedAtStart(t *testing.T) {
	// Page 1 of 20: window pinned to 1..5.
	p := BuildPagination(1, 400, 20)

	got := windowNumbers(p)
	want := []int{1, 2, 3, 4, 5, 20}
	if len(got) != len(want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pages[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if p.HasPrev {
		t.Error("HasPrev should be false on page 1")
	}
}

func TestBuildPagination_ClampedAtEnd(t *testing.T) {
	// Page 20 of 20: window pinned to 16..20.
	p := BuildPagination(20, 400, 20)

	got := windowNumbers(p)
	want := []int{1, 16, 17, 18, 19, 20}
	if len(got) != len(want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pages[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if p.HasNext {
		t.Error("HasNext should be false on the last page")
	}
}

func TestBuildPagination_OutOfRangeInputs(t *testing.T) {
	p := BuildPagination(99, 60, 20)
	if p.CurrentPage != 3 {
		t.Errorf("CurrentPage = %d, want clamp to 3", p.CurrentPage)
	}

	p = BuildPagination(0, 60, 20)
	if p.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want clamp to 1", p.CurrentPage)
	}

	p = BuildPagination(1, 0, 20)
	if p.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1 even when empty", p.TotalPages)
	}
}
