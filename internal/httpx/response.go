package httpx

import (
	"encoding/json"
	"net/http"
)

// APIErrors is the uniform error body: one entry per field-validation
// failure, or a single entry for a business-rule or not-found failure.
type APIErrors struct {
	Errors []string `json:"errors"`
}

// Pageable echoes the pagination parameters of a page response.
type Pageable struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

// Page is the envelope for paginated list responses.
type Page struct {
	Content       any      `json:"content"`
	TotalElements int      `json:"totalElements"`
	Pageable      Pageable `json:"pageable"`
}

func NewPage(content any, total, pageNumber, pageSize int) Page {
	return Page{
		Content:       content,
		TotalElements: total,
		Pageable:      Pageable{PageNumber: pageNumber, PageSize: pageSize},
	}
}

func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, statusCode int, messages ...string) {
	JSON(w, statusCode, APIErrors{Errors: messages})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
