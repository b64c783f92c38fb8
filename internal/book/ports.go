package book

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id string) (Book, error)
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, f Filter) ([]Book, int, error)
}
