package shared

import (
	"math"
	"net/http"
	"strconv"
)

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, limit, total int) Pagination {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	pages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// PageParams reads 1-indexed page/limit query parameters, falling back to
// defaultLimit, and returns the page, limit and derived offset.
func PageParams(r *http.Request, defaultLimit int) (page, limit, offset int) {
	page = 1
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	offset = (page - 1) * limit
	return page, limit, offset
}
