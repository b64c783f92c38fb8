package book

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo Repository) http.Handler {
	h := NewHandler(NewService(repo))
	r := chi.NewRouter()
	r.Route("/api/books", h.Register)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestHandler_Create(t *testing.T) {
	t.Run("valid book is created", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("ExistsByISBN", mock.Anything, "121321").Return(false, nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*book.Book")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*Book).ID = "generated-id"
			}).
			Return(nil)
		router := newTestRouter(repo)

		w := doJSON(t, router, http.MethodPost, "/api/books", map[string]string{
			"title":  "Clean Code",
			"author": "Robert Cecil Martin",
			"isbn":   "121321",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "generated-id", body["id"])
		assert.Equal(t, "Clean Code", body["title"])
		assert.Equal(t, "Robert Cecil Martin", body["author"])
		assert.Equal(t, "121321", body["isbn"])
	})

	t.Run("missing fields produce one message each", func(t *testing.T) {
		repo := new(mockRepository)
		router := newTestRouter(repo)

		w := doJSON(t, router, http.MethodPost, "/api/books", map[string]string{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		errs := body["errors"].([]any)
		assert.Len(t, errs, 3)
		assert.Contains(t, errs, "title is required")
		assert.Contains(t, errs, "author is required")
		assert.Contains(t, errs, "isbn is required")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate isbn is a business error", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("ExistsByISBN", mock.Anything, "121321").Return(true, nil)
		router := newTestRouter(repo)

		w := doJSON(t, router, http.MethodPost, "/api/books", map[string]string{
			"title":  "Clean Code",
			"author": "Robert Cecil Martin",
			"isbn":   "121321",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"errors":["ISBN already registered"]}`, w.Body.String())
	})
}

func TestHandler_GetByID(t *testing.T) {
	t.Run("existing book", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", mock.Anything, "id-1").
			Return(Book{ID: "id-1", Title: "Clean Code", Author: "Robert Cecil Martin", ISBN: "121321"}, nil)
		router := newTestRouter(repo)

		w := doJSON(t, router, http.MethodGet, "/api/books/id-1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Clean Code", decodeBody(t, w)["title"])
	})

	t.Run("unknown book is 404", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", mock.Anything, "missing").Return(Book{}, ErrNotFound)
		router := newTestRouter(repo)

		w := doJSON(t, router, http.MethodGet, "/api/books/missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_Update(t *testing.T) {
	t.Run("title and author change, isbn stays", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", mock.Anything, "id-1").
			Return(Book{ID: "id-1", Title: "Clean Code", Author: "Robert Cecil Martin", ISBN: "121321"}, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(b *Book) bool {
			return b.ID == "id-1" && b.Title == "Clean Architecture" && b.ISBN == "121321"
		})).Return(nil)
		router := newTestRouter(repo)

		w := doJSON(t, router, http.MethodPut, "/api/books/id-1", map[string]string{
			"title":  "Clean Architecture",
			"author": "Robert Cecil Martin",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Clean Architecture", body["title"])
		assert.Equal(t, "121321", body["isbn"])
		repo.AssertExpectations(t)
	})

	t.Run("unknown book is 404", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", mock.Anything, "missing").Return(Book{}, ErrNotFound)
		router := newTestRouter(repo)

		w := doJSON(t, router, http.MethodPut, "/api/books/missing", map[string]string{"title": "x"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestHandler_Delete(t *testing.T) {
	t.Run("existing book is deleted", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", mock.Anything, "id-1").Return(Book{ID: "id-1"}, nil)
		repo.On("Delete", mock.Anything, "id-1").Return(nil)
		router := newTestRouter(repo)

		w := doJSON(t, router, http.MethodDelete, "/api/books/id-1", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		repo.AssertExpectations(t)
	})

	t.Run("unknown book is 404", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", mock.Anything, "missing").Return(Book{}, ErrNotFound)
		router := newTestRouter(repo)

		w := doJSON(t, router, http.MethodDelete, "/api/books/missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestHandler_Find(t *testing.T) {
	t.Run("filters and pagination reach the repository", func(t *testing.T) {
		repo := new(mockRepository)
		want := Filter{Title: "clean", Author: "", ISBN: "", Limit: 10, Offset: 20}
		repo.On("Find", mock.Anything, want).
			Return([]Book{{ID: "id-1", Title: "Clean Code"}}, 21, nil)
		router := newTestRouter(repo)

		w := doJSON(t, router, http.MethodGet, "/api/books?title=clean&page=2&size=10", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(21), body["totalElements"])
		pageable := body["pageable"].(map[string]any)
		assert.Equal(t, float64(2), pageable["pageNumber"])
		assert.Equal(t, float64(10), pageable["pageSize"])
		assert.Len(t, body["content"].([]any), 1)
		repo.AssertExpectations(t)
	})

	t.Run("no match is an empty page", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Find", mock.Anything, mock.Anything).Return(nil, 0, nil)
		router := newTestRouter(repo)

		w := doJSON(t, router, http.MethodGet, "/api/books?title=zzz", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(0), body["totalElements"])
		assert.Empty(t, body["content"])
	})
}
