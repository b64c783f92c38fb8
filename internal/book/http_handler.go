package book

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"libraryapi/internal/httpx"
)

// Handler exposes the /api/books endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the book routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.Find)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type createBookRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	ISBN   string `json:"isbn" validate:"required"`
}

type updateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := httpx.Validate(req); messages != nil {
		httpx.Error(w, http.StatusBadRequest, messages...)
		return
	}

	b := Book{Title: req.Title, Author: req.Author, ISBN: req.ISBN}
	if err := h.svc.Create(r.Context(), &b); err != nil {
		if errors.Is(err, ErrDuplicateISBN) {
			httpx.Error(w, http.StatusBadRequest, ErrDuplicateISBN.Error())
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "server error")
		return
	}

	httpx.JSON(w, http.StatusCreated, b)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "server error")
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Update applies title and author changes to an existing book. The ISBN is
// immutable through this endpoint.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "server error")
		return
	}

	b.Title = req.Title
	b.Author = req.Author
	if err := h.svc.Update(r.Context(), &b); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "server error")
		return
	}

	httpx.JSON(w, http.StatusOK, b)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	// Existence is checked here so a missing book surfaces as 404; the
	// service itself treats deleting by unknown id as a repository concern.
	b, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "server error")
		return
	}

	if err := h.svc.Delete(r.Context(), b.ID); err != nil && !errors.Is(err, ErrNotFound) {
		httpx.Error(w, http.StatusInternalServerError, "server error")
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	page, size := httpx.ParsePage(r)
	f := Filter{
		Title:  r.URL.Query().Get("title"),
		Author: r.URL.Query().Get("author"),
		ISBN:   r.URL.Query().Get("isbn"),
		Limit:  size,
		Offset: page * size,
	}

	books, total, err := h.svc.Find(r.Context(), f)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "server error")
		return
	}
	if books == nil {
		books = []Book{}
	}

	httpx.JSON(w, http.StatusOK, httpx.NewPage(books, total, page, size))
}
