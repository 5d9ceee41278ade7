package shipments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retour-ops/retour/internal/platform/db"
)

// ErrNotFound indicates the shipment does not exist.
var ErrNotFound = errors.New("shipment not found")

// Repository defines persistence operations for shipments.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Shipment, int, error)
	Get(ctx context.Context, id int64) (*Shipment, error)
	Create(ctx context.Context, s Shipment) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const shipmentColumns = `id, customer_id, order_no, dhl_tracking_no, country, city, postcode, street,
	house_no, product, quantity, declared_value, classification, need_customs, status, created_at`

func (r *pgRepository) List(ctx context.Context, filter ListFilter) ([]Shipment, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filter.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *filter.CustomerID)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM shipments %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM shipments
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, shipmentColumns, whereClause, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var shipments []Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, 0, err
		}
		shipments = append(shipments, s)
	}
	return shipments, total, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*Shipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM shipments WHERE id = $1`, shipmentColumns)
	row := r.pool.QueryRow(ctx, query, id)
	s, err := scanShipment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts the shipment and seeds its settlement record in one
// transaction, so the tracking reset and aging scan always have a row.
func (r *pgRepository) Create(ctx context.Context, s Shipment) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insertShipment = `
			INSERT INTO shipments
				(customer_id, order_no, country, city, postcode, street, house_no,
				 product, quantity, declared_value, classification, need_customs, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id`
		if err := tx.QueryRow(ctx, insertShipment,
			s.CustomerID, s.OrderNo, s.Country, s.City, s.Postcode, s.Street, s.HouseNo,
			s.Product, s.Quantity, s.DeclaredValue, s.Classification, s.NeedCustoms, s.Status,
		).Scan(&id); err != nil {
			return err
		}

		const seedSettlement = `
			INSERT INTO settlement_records (shipment_id, last_tracking_date, no_tracking_days, settlement_status)
			VALUES ($1, NOW(), 0, 'normal')`
		_, err := tx.Exec(ctx, seedSettlement, id)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *pgRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE shipments SET status = $1 WHERE id = $2`, status, id)
	return err
}

func scanShipment(row pgx.Row) (Shipment, error) {
	var s Shipment
	var orderNo, trackingNo, houseNo, product pgtype.Text
	err := row.Scan(
		&s.ID, &s.CustomerID, &orderNo, &trackingNo, &s.Country, &s.City, &s.Postcode, &s.Street,
		&houseNo, &product, &s.Quantity, &s.DeclaredValue, &s.Classification, &s.NeedCustoms,
		&s.Status, &s.CreatedAt,
	)
	if err != nil {
		return Shipment{}, err
	}
	if orderNo.Valid {
		s.OrderNo = &orderNo.String
	}
	if trackingNo.Valid {
		s.DHLTrackingNo = &trackingNo.String
	}
	if houseNo.Valid {
		s.HouseNo = &houseNo.String
	}
	if product.Valid {
		s.Product = &product.String
	}
	return s, nil
}
