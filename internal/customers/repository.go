package customers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrDuplicateCode indicates the customer code is already taken.
	ErrDuplicateCode = errors.New("duplicate customer code")
)

const uniqueViolation = "23505"

// Repository defines persistence operations for customers.
type Repository interface {
	List(ctx context.Context, limit int) ([]Customer, error)
	Create(ctx context.Context, c Customer) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) List(ctx context.Context, limit int) ([]Customer, error) {
	const query = `
		SELECT id, customer_code, name, remark, created_at
		FROM customers
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		var remark pgtype.Text
		if err := rows.Scan(&c.ID, &c.CustomerCode, &c.Name, &remark, &c.CreatedAt); err != nil {
			return nil, err
		}
		if remark.Valid {
			c.Remark = &remark.String
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *pgRepository) Create(ctx context.Context, c Customer) (int64, error) {
	const query = `
		INSERT INTO customers (customer_code, name, remark)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query, c.CustomerCode, c.Name, c.Remark).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, ErrDuplicateCode
		}
		return 0, err
	}
	return id, nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	return err
}
