package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

var dialect = goqu.Dialect("postgres")

// PostgresRepo is the pgx-backed Repository implementation.
type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	b.ID = uuid.NewString()

	const query = `
		INSERT INTO books (id, title, author, isbn)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query, b.ID, b.Title, b.Author, b.ISBN).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		// The unique index on isbn is the source of truth for the uniqueness
		// invariant; the service-level existence check only covers the
		// non-racing case.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateISBN
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	const query = `
		SELECT id, title, author, isbn, created_at, updated_at
		FROM books
		WHERE id = $1`

	var b Book
	err := r.db.QueryRow(ctx, query, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("get book by id: %w", err)
	}
	return b, nil
}

func (r *PostgresRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	const query = `
		SELECT id, title, author, isbn, created_at, updated_at
		FROM books
		WHERE isbn = $1`

	var b Book
	err := r.db.QueryRow(ctx, query, isbn).
		Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("get book by isbn: %w", err)
	}
	return b, nil
}

func (r *PostgresRepo) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE isbn = $1)`, isbn).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by isbn: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	const query = `
		UPDATE books
		SET title = $2, author = $3, isbn = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query, b.ID, b.Title, b.Author, b.ISBN).
		Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateISBN
		}
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Find runs the query-by-example search: one ILIKE clause per non-empty
// filter field, combined conjunctively, plus a COUNT over the same predicate
// for the page total.
func (r *PostgresRepo) Find(ctx context.Context, f Filter) ([]Book, int, error) {
	conds := make([]goqu.Expression, 0, 3)
	if f.Title != "" {
		conds = append(conds, goqu.C("title").ILike("%"+f.Title+"%"))
	}
	if f.Author != "" {
		conds = append(conds, goqu.C("author").ILike("%"+f.Author+"%"))
	}
	if f.ISBN != "" {
		conds = append(conds, goqu.C("isbn").ILike("%"+f.ISBN+"%"))
	}

	base := dialect.From("books").Prepared(true).Where(conds...)

	countSQL, countArgs, err := base.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	dataSQL, dataArgs, err := base.
		Select("id", "title", "author", "isbn", "created_at", "updated_at").
		Order(goqu.I("title").Asc()).
		Limit(uint(f.Limit)).
		Offset(uint(f.Offset)).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build find query: %w", err)
	}

	rows, err := r.db.Query(ctx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("find books: %w", err)
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}
