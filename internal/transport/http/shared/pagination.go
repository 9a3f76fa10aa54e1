package shared

import (
	"net/http"
	"strconv"

	"vera/internal/domain/registro"
)

// ParsePagination reads the zero-based page and the page size. Bad values
// fall back to the defaults.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) registro.Pagination {
	limit := defaultLimit
	page := 0
	if raw := r.URL.Query().Get(registro.ParamLimit); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get(registro.ParamPage); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			page = v
		}
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return registro.Pagination{Page: page, Limit: limit}
}
