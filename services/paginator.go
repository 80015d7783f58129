package services

import (
	"strconv"
	"strings"
)

// PostsPerPage is the fixed size of every feed page.
const PostsPerPage = 5

// Paginator splits Total items into pages of PerPage items.
// There is always at least one page, even when Total is zero.
type Paginator struct {
	Total    int64
	PerPage  int
	NumPages int
}

// PageInfo describes one resolved page of a feed.
type PageInfo struct {
	Number      int   `json:"page"`
	NumPages    int   `json:"num_pages"`
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// NewPaginator builds a paginator for total items.
func NewPaginator(total int64, perPage int) Paginator {
	if perPage <= 0 {
		perPage = PostsPerPage
	}
	if total < 0 {
		total = 0
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}
	return Paginator{Total: total, PerPage: perPage, NumPages: pages}
}

// Number resolves the raw page parameter: missing or malformed values give
// the first page, out-of-range values clamp to the nearest valid page.
func (p Paginator) Number(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	if n < 1 {
		return 1
	}
	if n > p.NumPages {
		return p.NumPages
	}
	return n
}

// Offset returns the index of the first item on page n.
func (p Paginator) Offset(n int) int {
	return (n - 1) * p.PerPage
}

// Info describes page n.
func (p Paginator) Info(n int) PageInfo {
	return PageInfo{
		Number:      n,
		NumPages:    p.NumPages,
		Total:       p.Total,
		PerPage:     p.PerPage,
		HasPrevious: n > 1,
		HasNext:     n < p.NumPages,
	}
}
