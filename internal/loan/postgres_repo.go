package loan

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

func (r *PostgresRepo) Create(ctx context.Context, l *Loan) error {
	l.ID = uuid.NewString()

	const query = `
		INSERT INTO loans (id, book_id, customer, loan_date, returned)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query, l.ID, l.Book.ID, l.Customer, l.LoanDate, l.Returned).
		Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		// The partial unique index on active loans is the source of truth
		// for the one-active-loan invariant; the service-level check only
		// covers the non-racing case.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrBookAlreadyLoaned
		}
		return fmt.Errorf("insert loan: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Loan, error) {
	const query = `
		SELECT l.id, l.customer, l.loan_date, l.returned, l.created_at, l.updated_at,
		       b.id, b.title, b.author, b.isbn, b.created_at, b.updated_at
		FROM loans l
		JOIN books b ON b.id = l.book_id
		WHERE l.id = $1`

	var l Loan
	err := r.db.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.Customer, &l.LoanDate, &l.Returned, &l.CreatedAt, &l.UpdatedAt,
		&l.Book.ID, &l.Book.Title, &l.Book.Author, &l.Book.ISBN, &l.Book.CreatedAt, &l.Book.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, ErrNotFound
		}
		return Loan{}, fmt.Errorf("get loan by id: %w", err)
	}
	return l, nil
}

func (r *PostgresRepo) Update(ctx context.Context, l *Loan) error {
	const query = `
		UPDATE loans
		SET returned = $2, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query, l.ID, l.Returned).Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update loan: %w", err)
	}
	return nil
}

func (r *PostgresRepo) HasActiveLoan(ctx context.Context, bookID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM loans WHERE book_id = $1 AND NOT returned)`, bookID).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has active loan: %w", err)
	}
	return exists, nil
}

// Find returns loans whose book ISBN or customer equals the filter values,
// joined with their book, newest first.
func (r *PostgresRepo) Find(ctx context.Context, f Filter) ([]Loan, int, error) {
	conds := make([]goqu.Expression, 0, 2)
	if f.ISBN != "" {
		conds = append(conds, goqu.I("b.isbn").Eq(f.ISBN))
	}
	if f.Customer != "" {
		conds = append(conds, goqu.I("l.customer").Eq(f.Customer))
	}

	base := dialect.
		From(goqu.T("loans").As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("l.book_id")))).
		Prepared(true)
	if len(conds) > 0 {
		base = base.Where(goqu.Or(conds...))
	}

	countSQL, countArgs, err := base.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count loans: %w", err)
	}

	dataSQL, dataArgs, err := base.
		Select(
			goqu.I("l.id"), goqu.I("l.customer"), goqu.I("l.loan_date"),
			goqu.I("l.returned"), goqu.I("l.created_at"), goqu.I("l.updated_at"),
			goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.author"), goqu.I("b.isbn"),
			goqu.I("b.created_at"), goqu.I("b.updated_at"),
		).
		Order(goqu.I("l.created_at").Desc()).
		Limit(uint(f.Limit)).
		Offset(uint(f.Offset)).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build find query: %w", err)
	}

	rows, err := r.db.Query(ctx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("find loans: %w", err)
	}
	defer rows.Close()

	var out []Loan
	for rows.Next() {
		var l Loan
		if err := rows.Scan(
			&l.ID, &l.Customer, &l.LoanDate, &l.Returned, &l.CreatedAt, &l.UpdatedAt,
			&l.Book.ID, &l.Book.Title, &l.Book.Author, &l.Book.ISBN, &l.Book.CreatedAt, &l.Book.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}
