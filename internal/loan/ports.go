package loan

import (
	"context"
)

// Repository defines the contract for loan data storage.
type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id string) (Loan, error)
	Update(ctx context.Context, l *Loan) error
	HasActiveLoan(ctx context.Context, bookID string) (bool, error)
	Find(ctx context.Context, f Filter) ([]Loan, int, error)
}
