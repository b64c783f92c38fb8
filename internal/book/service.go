package book

import (
	"context"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new book. The ISBN must not be registered yet.
func (s *Service) Create(ctx context.Context, b *Book) error {
	exists, err := s.repo.ExistsByISBN(ctx, b.ISBN)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateISBN
	}
	return s.repo.Create(ctx, b)
}

// GetByID returns a book by its id.
func (s *Service) GetByID(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByISBN returns a book by its ISBN (exact match).
func (s *Service) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

// Update overwrites the stored book with the supplied one.
func (s *Service) Update(ctx context.Context, b *Book) error {
	if b.ID == "" {
		return ErrInvalidID
	}
	return s.repo.Update(ctx, b)
}

// Delete removes a book by its id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

// Find returns books matching the filter plus the total match count.
func (s *Service) Find(ctx context.Context, f Filter) ([]Book, int, error) {
	return s.repo.Find(ctx, f)
}
