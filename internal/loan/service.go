package loan

import (
	"context"
	"time"
)

// Service provides loan-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new loan service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new loan. At most one unreturned loan may reference a
// given book at any time.
func (s *Service) Create(ctx context.Context, l *Loan) error {
	active, err := s.repo.HasActiveLoan(ctx, l.Book.ID)
	if err != nil {
		return err
	}
	if active {
		return ErrBookAlreadyLoaned
	}

	if l.LoanDate.IsZero() {
		l.LoanDate = time.Now()
	}
	return s.repo.Create(ctx, l)
}

// GetByID returns a loan by its id.
func (s *Service) GetByID(ctx context.Context, id string) (Loan, error) {
	return s.repo.GetByID(ctx, id)
}

// Update persists mutations to an existing loan, in practice only the
// returned flag.
func (s *Service) Update(ctx context.Context, l *Loan) error {
	return s.repo.Update(ctx, l)
}

// Find returns loans matching the filter plus the total match count.
func (s *Service) Find(ctx context.Context, f Filter) ([]Loan, int, error) {
	return s.repo.Find(ctx, f)
}
