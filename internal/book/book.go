package book

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrDuplicateISBN is returned when creating a book whose ISBN is already registered.
var ErrDuplicateISBN = errors.New("ISBN already registered")

// ErrInvalidID is returned when an operation requires a book id and none was given.
var ErrInvalidID = errors.New("book id must not be empty")

// Book represents a book entity.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      string    `json:"isbn"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter is a query-by-example template for Find: every non-empty field must
// match the stored field as a case-insensitive substring, empty fields impose
// no constraint.
type Filter struct {
	Title  string
	Author string
	ISBN   string
	Limit  int
	Offset int
}
