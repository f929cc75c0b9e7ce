package common

import (
	"fmt"
	"net/http"
	"strconv"
)

// CatalogPageSize is the fixed number of records per catalog page.
const CatalogPageSize = 10

// PaginationInfo contains pagination details
type PaginationInfo struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// PageParams holds the optional page and search parameters of a listing
// request. A nil field was absent from the query string.
type PageParams struct {
	Page   *int
	Search *string
}

// ExtractPageParams reads page and search from the query string. An empty
// search value is kept, since it is still sent on to the catalog.
func ExtractPageParams(r *http.Request) (PageParams, error) {
	var params PageParams
	query := r.URL.Query()

	if query.Has("page") {
		p, err := strconv.Atoi(query.Get("page"))
		if err != nil || p < 1 {
			return params, fmt.Errorf("page must be a positive integer")
		}
		params.Page = &p
	}
	if query.Has("search") {
		s := query.Get("search")
		params.Search = &s
	}
	return params, nil
}

// CalculateTotalPages calculates total number of pages
func CalculateTotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize > 0 {
		pages++
	}
	return pages
}

// BuildPaginationMeta builds pagination metadata. hasNext comes from the
// catalog cursor rather than the page arithmetic.
func BuildPaginationMeta(page, pageSize, total int, hasNext bool) *PaginationInfo {
	return &PaginationInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: CalculateTotalPages(total, pageSize),
		HasNext:    hasNext,
		HasPrev:    page > 1,
	}
}
