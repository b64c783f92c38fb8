package loan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"libraryapi/internal/book"
	"libraryapi/internal/httpx"
)

// BookResolver resolves a loan request's ISBN to a book.
type BookResolver interface {
	GetByISBN(ctx context.Context, isbn string) (book.Book, error)
}

// Handler exposes the /api/loans endpoints.
type Handler struct {
	svc   *Service
	books BookResolver
}

func NewHandler(svc *Service, books BookResolver) *Handler {
	return &Handler{svc: svc, books: books}
}

// Register mounts the loan routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.Find)
	r.Patch("/{id}", h.Return)
}

type createLoanRequest struct {
	ISBN     string `json:"isbn" validate:"required"`
	Customer string `json:"customer" validate:"required"`
}

type returnLoanRequest struct {
	Returned *bool `json:"returned" validate:"required"`
}

// loanResponse mirrors the wire shape: the loan with its book nested and the
// book's ISBN lifted to the top level.
type loanResponse struct {
	ID       string    `json:"id"`
	ISBN     string    `json:"isbn"`
	Customer string    `json:"customer"`
	LoanDate string    `json:"loanDate"`
	Returned bool      `json:"returned"`
	Book     book.Book `json:"book"`
}

func toLoanResponse(l Loan) loanResponse {
	return loanResponse{
		ID:       l.ID,
		ISBN:     l.Book.ISBN,
		Customer: l.Customer,
		LoanDate: l.LoanDate.Format("2006-01-02"),
		Returned: l.Returned,
		Book:     l.Book,
	}
}

// Create lends a book, identified by ISBN, to a customer. Responds with the
// generated loan id.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := httpx.Validate(req); messages != nil {
		httpx.Error(w, http.StatusBadRequest, messages...)
		return
	}

	b, err := h.books.GetByISBN(r.Context(), req.ISBN)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			httpx.Error(w, http.StatusBadRequest, "Book not found for passed ISBN")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "server error")
		return
	}

	l := Loan{Customer: req.Customer, Book: b}
	if err := h.svc.Create(r.Context(), &l); err != nil {
		if errors.Is(err, ErrBookAlreadyLoaned) {
			httpx.Error(w, http.StatusBadRequest, "Book already loaned")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "server error")
		return
	}

	httpx.JSON(w, http.StatusCreated, l.ID)
}

// Return flips the returned flag on an existing loan.
func (h *Handler) Return(w http.ResponseWriter, r *http.Request) {
	var req returnLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := httpx.Validate(req); messages != nil {
		httpx.Error(w, http.StatusBadRequest, messages...)
		return
	}

	l, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "server error")
		return
	}

	l.Returned = *req.Returned
	if err := h.svc.Update(r.Context(), &l); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "server error")
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	page, size := httpx.ParsePage(r)
	f := Filter{
		ISBN:     r.URL.Query().Get("isbn"),
		Customer: r.URL.Query().Get("customer"),
		Limit:    size,
		Offset:   page * size,
	}

	loans, total, err := h.svc.Find(r.Context(), f)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "server error")
		return
	}

	content := make([]loanResponse, 0, len(loans))
	for _, l := range loans {
		content = append(content, toLoanResponse(l))
	}

	httpx.JSON(w, http.StatusOK, httpx.NewPage(content, total, page, size))
}
