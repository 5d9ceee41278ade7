package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retour-ops/retour/internal/platform/db"
	"github.com/retour-ops/retour/internal/shared"
)

// Repository defines persistence operations for tracking and settlement.
type Repository interface {
	List(ctx context.Context, f ListFilter) ([]ListRow, int64, error)
	GetShipment(ctx context.Context, shipmentID int64) (*ShipmentInfo, error)
	Events(ctx context.Context, shipmentID int64) ([]Event, error)
	Settlement(ctx context.Context, shipmentID int64) (*SettlementRecord, error)
	ShipmentExists(ctx context.Context, shipmentID int64) (bool, error)
	AddEvent(ctx context.Context, e Event) (int64, error)
	SettlementPending(ctx context.Context) ([]PendingRow, error)
	GenerateRefund(ctx context.Context, shipmentID int64, amount *float64, reason *string) error
	MarkNoTracking(ctx context.Context) (int64, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) List(ctx context.Context, f ListFilter) ([]ListRow, int64, error) {
	where := ""
	var args []interface{}
	argPos := 1
	if f.SettlementStatus != nil {
		where += fmt.Sprintf(" AND sr.settlement_status = $%d", argPos)
		args = append(args, *f.SettlementStatus)
		argPos++
	}
	if f.CustomerID != nil {
		where += fmt.Sprintf(" AND s.customer_id = $%d", argPos)
		args = append(args, *f.CustomerID)
		argPos++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM shipments s
		JOIN settlement_records sr ON sr.shipment_id = s.id
		JOIN customers c ON c.id = s.customer_id
		WHERE 1=1` + where

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT s.id, s.customer_id, c.name, s.order_no, s.dhl_tracking_no, s.country, s.status,
		       sr.last_tracking_date, sr.no_tracking_days, sr.settlement_status
		FROM shipments s
		JOIN settlement_records sr ON sr.shipment_id = s.id
		JOIN customers c ON c.id = s.customer_id
		WHERE 1=1` + where + fmt.Sprintf(`
		ORDER BY s.created_at DESC
		LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []ListRow
	for rows.Next() {
		var row ListRow
		var orderNo, trackingNo pgtype.Text
		var lastTracking pgtype.Timestamptz
		err := rows.Scan(&row.ShipmentID, &row.CustomerID, &row.CustomerName, &orderNo, &trackingNo,
			&row.Country, &row.Status, &lastTracking, &row.NoTrackingDays, &row.SettlementStatus)
		if err != nil {
			return nil, 0, err
		}
		if orderNo.Valid {
			row.OrderNo = &orderNo.String
		}
		if trackingNo.Valid {
			row.DHLTrackingNo = &trackingNo.String
		}
		if lastTracking.Valid {
			row.LastTrackingDate = &lastTracking.Time
		}
		list = append(list, row)
	}
	return list, total, rows.Err()
}

func (r *pgRepository) GetShipment(ctx context.Context, shipmentID int64) (*ShipmentInfo, error) {
	const query = `
		SELECT s.id, s.customer_id, c.name, s.order_no, s.dhl_tracking_no, s.country, s.city, s.status, s.created_at
		FROM shipments s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.id = $1`

	var info ShipmentInfo
	var orderNo, trackingNo pgtype.Text
	err := r.pool.QueryRow(ctx, query, shipmentID).Scan(
		&info.ID, &info.CustomerID, &info.CustomerName, &orderNo, &trackingNo,
		&info.Country, &info.City, &info.Status, &info.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if orderNo.Valid {
		info.OrderNo = &orderNo.String
	}
	if trackingNo.Valid {
		info.DHLTrackingNo = &trackingNo.String
	}
	return &info, nil
}

func (r *pgRepository) Events(ctx context.Context, shipmentID int64) ([]Event, error) {
	const query = `
		SELECT id, shipment_id, dhl_tracking_no, event_time, status, location, description, created_at
		FROM shipment_tracking
		WHERE shipment_id = $1
		ORDER BY event_time DESC`

	rows, err := r.pool.Query(ctx, query, shipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var trackingNo, location, description pgtype.Text
		err := rows.Scan(&e.ID, &e.ShipmentID, &trackingNo, &e.EventTime, &e.Status, &location, &description, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		if trackingNo.Valid {
			e.DHLTrackingNo = &trackingNo.String
		}
		if location.Valid {
			e.Location = &location.String
		}
		if description.Valid {
			e.Description = &description.String
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *pgRepository) Settlement(ctx context.Context, shipmentID int64) (*SettlementRecord, error) {
	const query = `
		SELECT id, shipment_id, last_tracking_date, no_tracking_days, settlement_status,
		       refund_amount, refund_reason, refunded_at
		FROM settlement_records
		WHERE shipment_id = $1`

	var rec SettlementRecord
	var lastTracking, refundedAt pgtype.Timestamptz
	var refundAmount pgtype.Float8
	var refundReason pgtype.Text
	err := r.pool.QueryRow(ctx, query, shipmentID).Scan(
		&rec.ID, &rec.ShipmentID, &lastTracking, &rec.NoTrackingDays, &rec.SettlementStatus,
		&refundAmount, &refundReason, &refundedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if lastTracking.Valid {
		rec.LastTrackingDate = &lastTracking.Time
	}
	if refundAmount.Valid {
		rec.RefundAmount = &refundAmount.Float64
	}
	if refundReason.Valid {
		rec.RefundReason = &refundReason.String
	}
	if refundedAt.Valid {
		rec.RefundedAt = &refundedAt.Time
	}
	return &rec, nil
}

func (r *pgRepository) ShipmentExists(ctx context.Context, shipmentID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shipments WHERE id = $1)`, shipmentID).Scan(&exists)
	return exists, err
}

// AddEvent inserts a tracking event. A substantive event (anything but
// "pending") also clears the aging counters: last_tracking_date moves to
// the event time and the counter zeroes. The settlement status itself is
// never touched here; a closed (refunded) record stays untouched entirely.
func (r *pgRepository) AddEvent(ctx context.Context, e Event) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insert = `
			INSERT INTO shipment_tracking (shipment_id, dhl_tracking_no, event_time, status, location, description)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`
		if err := tx.QueryRow(ctx, insert, e.ShipmentID, e.DHLTrackingNo, e.EventTime, e.Status, e.Location, e.Description).Scan(&id); err != nil {
			return err
		}
		if e.Status == "pending" {
			return nil
		}
		const reset = `
			UPDATE settlement_records
			SET last_tracking_date = $1,
			    no_tracking_days = 0
			WHERE shipment_id = $2 AND settlement_status <> $3`
		_, err := tx.Exec(ctx, reset, e.EventTime, e.ShipmentID, StatusRefunded)
		return err
	})
	return id, err
}

func (r *pgRepository) SettlementPending(ctx context.Context) ([]PendingRow, error) {
	const query = `
		SELECT s.id, s.customer_id, c.name, s.order_no, s.dhl_tracking_no, s.declared_value,
		       sr.last_tracking_date,
		       EXTRACT(DAY FROM NOW() - sr.last_tracking_date)::INT AS days_without_tracking
		FROM settlement_records sr
		JOIN shipments s ON s.id = sr.shipment_id
		JOIN customers c ON c.id = s.customer_id
		WHERE sr.settlement_status = $1
		  AND sr.last_tracking_date <= NOW() - make_interval(days => $2)
		ORDER BY sr.last_tracking_date ASC`

	rows, err := r.pool.Query(ctx, query, StatusNoTracking, NoTrackingThresholdDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []PendingRow
	for rows.Next() {
		var row PendingRow
		var orderNo, trackingNo pgtype.Text
		var lastTracking pgtype.Timestamptz
		err := rows.Scan(&row.ShipmentID, &row.CustomerID, &row.CustomerName, &orderNo, &trackingNo,
			&row.DeclaredValue, &lastTracking, &row.DaysWithoutTracking)
		if err != nil {
			return nil, err
		}
		if orderNo.Valid {
			row.OrderNo = &orderNo.String
		}
		if trackingNo.Valid {
			row.DHLTrackingNo = &trackingNo.String
		}
		if lastTracking.Valid {
			row.LastTrackingDate = &lastTracking.Time
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// GenerateRefund moves a settlement record to refunded regardless of its
// current status, storing amount and reason. Refunded is terminal either
// way, so re-running only refreshes amount, reason and timestamp.
func (r *pgRepository) GenerateRefund(ctx context.Context, shipmentID int64, amount *float64, reason *string) error {
	const query = `
		UPDATE settlement_records
		SET settlement_status = $1, refund_amount = $2, refund_reason = $3, refunded_at = NOW()
		WHERE shipment_id = $4`

	tag, err := r.pool.Exec(ctx, query, StatusRefunded, amount, reason, shipmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkNoTracking flags every non-refunded record whose last tracking event
// is at least the threshold old. One conditional statement, so concurrent
// runs and re-runs converge on the same rows.
func (r *pgRepository) MarkNoTracking(ctx context.Context) (int64, error) {
	const query = `
		UPDATE settlement_records
		SET settlement_status = $1,
		    no_tracking_days = EXTRACT(DAY FROM NOW() - last_tracking_date)::INT
		WHERE settlement_status <> $2
		  AND last_tracking_date <= NOW() - make_interval(days => $3)`

	tag, err := r.pool.Exec(ctx, query, StatusNoTracking, StatusRefunded, NoTrackingThresholdDays)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
