// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package api

// Pagination describes one page window of a result set. The Pages list
// holds at most 5 page numbers centered on the current page, with
// ellipsis markers and first/last links when the window is clamped.
type Pagination struct {
	CurrentPage int              `json:"current_page"`
	TotalPages  int              `json:"total_pages"`
	TotalItems  int64            `json:"total_items"`
	PerPage     int              `json:"per_page"`
	HasPrev     bool             `json:"has_prev"`
	HasNext     bool             `json:"has_next"`
	Pages       []PaginationPage `json:"pages"`
}

// PaginationPage is one entry in the page-button strip.
type PaginationPage struct {
	Number     int  `json:"number,omitempty"`
	IsCurrent  bool `json:"is_current,omitempty"`
	IsEllipsis bool `json:"is_ellipsis,omitempty"`
}

// BuildPagination computes the 5-button page window for a result set.
func BuildPagination(currentPage int, totalItems int64, perPage int) Pagination {
	if perPage < 1 {
		perPage = 1
	}
	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	p := Pagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PerPage:     perPage,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
	}

	start := currentPage - 2
	end := currentPage + 2
	if start < 1 {
		start = 1
		end = 5
	}
	if end > totalPages {
		end = totalPages
		start = end - 4
		if start < 1 {
			start = 1
		}
	}

	if start > 1 {
		p.Pages = append(p.Pages, PaginationPage{Number: 1})
		if start > 2 {
			p.Pages = append(p.Pages, PaginationPage{IsEllipsis: true})
		}
	}

	for i := start; i <= end; i++ {
		p.Pages = append(p.Pages, PaginationPage{Number: i, IsCurrent: i == currentPage})
	}

	if end < totalPages {
		if end < totalPages-1 {
			p.Pages = append(p.Pages, PaginationPage{IsEllipsis: true})
		}
		p.Pages = append(p.Pages, PaginationPage{Number: totalPages})
	}

	return p
}
