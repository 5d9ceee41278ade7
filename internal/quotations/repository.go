package quotations

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retour-ops/retour/internal/platform/db"
	"github.com/retour-ops/retour/internal/shared"
)

// Repository defines persistence operations for the quotation store.
type Repository interface {
	ListActive(ctx context.Context) ([]Quotation, error)
	Get(ctx context.Context, id int64) (*Quotation, error)
	Create(ctx context.Context, q Quotation) (int64, error)
	Update(ctx context.Context, id int64, q Quotation) error
	SoftDelete(ctx context.Context, id int64) error
	UpsertOverride(ctx context.Context, customerID, quotationID int64, customPrice *float64) error
	ListForCustomer(ctx context.Context, customerID int64) ([]CustomerPrice, error)
	Matrix(ctx context.Context) ([]MatrixRow, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const quotationColumns = `id, name, description, price, currency, is_default, is_active, created_at`

func scanQuotation(row pgx.Row) (Quotation, error) {
	var q Quotation
	var description pgtype.Text
	err := row.Scan(&q.ID, &q.Name, &description, &q.Price, &q.Currency, &q.IsDefault, &q.IsActive, &q.CreatedAt)
	if err != nil {
		return Quotation{}, err
	}
	if description.Valid {
		q.Description = &description.String
	}
	return q, nil
}

func (r *pgRepository) ListActive(ctx context.Context) ([]Quotation, error) {
	const query = `
		SELECT ` + quotationColumns + `
		FROM quotations
		WHERE is_active = TRUE
		ORDER BY is_default DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*Quotation, error) {
	const query = `
		SELECT ` + quotationColumns + `
		FROM quotations
		WHERE id = $1 AND is_active = TRUE`

	q, err := scanQuotation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// Create inserts a quotation. When the new entry is flagged default, the
// previous default is cleared in the same transaction so at most one
// active quotation carries the flag.
func (r *pgRepository) Create(ctx context.Context, q Quotation) (int64, error) {
	var id int64
	err := db.WithRepeatableReadTx(ctx, r.pool, func(tx pgx.Tx) error {
		if q.IsDefault {
			if _, err := tx.Exec(ctx, `UPDATE quotations SET is_default = FALSE WHERE is_default = TRUE`); err != nil {
				return err
			}
		}
		const query = `
			INSERT INTO quotations (name, description, price, currency, is_default, is_active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			RETURNING id`
		return tx.QueryRow(ctx, query, q.Name, q.Description, q.Price, q.Currency, q.IsDefault).Scan(&id)
	})
	return id, err
}

// Update overwrites a quotation, clearing the old default first when the
// updated entry takes the flag.
func (r *pgRepository) Update(ctx context.Context, id int64, q Quotation) error {
	return db.WithRepeatableReadTx(ctx, r.pool, func(tx pgx.Tx) error {
		if q.IsDefault {
			if _, err := tx.Exec(ctx, `UPDATE quotations SET is_default = FALSE WHERE is_default = TRUE AND id <> $1`, id); err != nil {
				return err
			}
		}
		const query = `
			UPDATE quotations
			SET name = $1, description = $2, price = $3, currency = $4, is_default = $5
			WHERE id = $6 AND is_active = TRUE`
		tag, err := tx.Exec(ctx, query, q.Name, q.Description, q.Price, q.Currency, q.IsDefault, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *pgRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE quotations
		SET is_active = FALSE, is_default = FALSE
		WHERE id = $1 AND is_active = TRUE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpsertOverride writes a per-customer price in one statement. A racing
// second save updates the existing row instead of failing on the unique key.
func (r *pgRepository) UpsertOverride(ctx context.Context, customerID, quotationID int64, customPrice *float64) error {
	const query = `
		INSERT INTO customer_quotations (customer_id, quotation_id, custom_price)
		VALUES ($1, $2, $3)
		ON CONFLICT (customer_id, quotation_id) DO UPDATE SET
			custom_price = EXCLUDED.custom_price,
			updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query, customerID, quotationID, customPrice)
	return err
}

func (r *pgRepository) ListForCustomer(ctx context.Context, customerID int64) ([]CustomerPrice, error) {
	const query = `
		SELECT q.id, q.name, q.description, q.price, q.currency, q.is_default, q.is_active, q.created_at,
		       cq.custom_price,
		       COALESCE(cq.custom_price, q.price) AS final_price
		FROM quotations q
		LEFT JOIN customer_quotations cq
			ON cq.quotation_id = q.id AND cq.customer_id = $1
		WHERE q.is_active = TRUE
		ORDER BY q.is_default DESC, q.created_at DESC`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []CustomerPrice
	for rows.Next() {
		var cp CustomerPrice
		var description pgtype.Text
		var customPrice pgtype.Float8
		err := rows.Scan(&cp.ID, &cp.Name, &description, &cp.Price, &cp.Currency,
			&cp.IsDefault, &cp.IsActive, &cp.CreatedAt, &customPrice, &cp.FinalPrice)
		if err != nil {
			return nil, err
		}
		if description.Valid {
			cp.Description = &description.String
		}
		if customPrice.Valid {
			cp.CustomPrice = &customPrice.Float64
		}
		list = append(list, cp)
	}
	return list, rows.Err()
}

// Matrix returns every customer paired with every active quotation, the
// override applied where one exists.
func (r *pgRepository) Matrix(ctx context.Context) ([]MatrixRow, error) {
	const query = `
		SELECT c.id, c.name, q.id, q.name, q.price,
		       cq.custom_price,
		       COALESCE(cq.custom_price, q.price) AS final_price
		FROM customers c
		CROSS JOIN quotations q
		LEFT JOIN customer_quotations cq
			ON cq.customer_id = c.id AND cq.quotation_id = q.id
		WHERE q.is_active = TRUE
		ORDER BY c.name ASC, q.is_default DESC, q.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []MatrixRow
	for rows.Next() {
		var m MatrixRow
		var customPrice pgtype.Float8
		err := rows.Scan(&m.CustomerID, &m.CustomerName, &m.QuotationID, &m.QuotationName,
			&m.BasePrice, &customPrice, &m.FinalPrice)
		if err != nil {
			return nil, err
		}
		if customPrice.Valid {
			m.CustomPrice = &customPrice.Float64
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
