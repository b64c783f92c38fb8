package loan

import (
	"errors"
	"time"

	"libraryapi/internal/book"
)

// ErrNotFound is returned when a loan is not found.
var ErrNotFound = errors.New("loan not found")

// ErrBookAlreadyLoaned is returned when the book already has an unreturned loan.
var ErrBookAlreadyLoaned = errors.New("book already loaned")

// Loan records that a book is lent to a customer. It references the book,
// it does not own it.
type Loan struct {
	ID        string    `json:"id"`
	Customer  string    `json:"customer"`
	Book      book.Book `json:"book"`
	LoanDate  time.Time `json:"loanDate"`
	Returned  bool      `json:"returned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter selects loans whose book ISBN or customer matches exactly; the two
// conditions combine disjunctively and empty fields drop out.
type Filter struct {
	ISBN     string
	Customer string
	Limit    int
	Offset   int
}
