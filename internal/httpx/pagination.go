package httpx

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ParsePage reads the page and size query parameters. Pages are 0-based;
// size defaults to 20 and is capped at 100.
func ParsePage(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 0 {
		page = 0
	}
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return page, size
}
