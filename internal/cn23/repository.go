package cn23

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productSearchCap = 200

// Repository defines persistence operations for the CN23 store.
type Repository interface {
	SearchProducts(ctx context.Context, q string) ([]Product, error)
	CreateProduct(ctx context.Context, p Product) (int64, error)
	UpdateProduct(ctx context.Context, id int64, updates map[string]interface{}) error
	DeleteProduct(ctx context.Context, id int64) error
	GetForm(ctx context.Context, shipmentID int64) (*Form, error)
	SaveForm(ctx context.Context, f Form) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) SearchProducts(ctx context.Context, q string) ([]Product, error) {
	query := `
		SELECT id, name, description, hs_code, origin_country, net_weight_kg, unit_value,
		       currency, active, created_at, updated_at
		FROM cn23_product_library
		WHERE active = TRUE`
	var args []interface{}
	if q != "" {
		query += ` AND (name ILIKE $1 OR description ILIKE $1 OR hs_code ILIKE $1)`
		args = append(args, "%"+q+"%")
	}
	query += fmt.Sprintf(` ORDER BY name ASC LIMIT %d`, productSearchCap)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		var description, hsCode pgtype.Text
		var netWeight, unitValue pgtype.Float8
		if err := rows.Scan(&p.ID, &p.Name, &description, &hsCode, &p.OriginCountry,
			&netWeight, &unitValue, &p.Currency, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if description.Valid {
			p.Description = &description.String
		}
		if hsCode.Valid {
			p.HSCode = &hsCode.String
		}
		if netWeight.Valid {
			p.NetWeightKg = &netWeight.Float64
		}
		if unitValue.Valid {
			p.UnitValue = &unitValue.Float64
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *pgRepository) CreateProduct(ctx context.Context, p Product) (int64, error) {
	const query = `
		INSERT INTO cn23_product_library
			(name, description, hs_code, origin_country, net_weight_kg, unit_value, currency, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		p.Name, p.Description, p.HSCode, p.OriginCountry, p.NetWeightKg, p.UnitValue, p.Currency,
	).Scan(&id)
	return id, err
}

// productUpdateColumns is the allow-list of updatable product fields.
// Request keys outside this list are ignored, never forwarded into SQL.
var productUpdateColumns = []string{
	"name", "description", "hs_code", "origin_country", "net_weight_kg", "unit_value", "currency", "active",
}

func (r *pgRepository) UpdateProduct(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE cn23_product_library SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range productUpdateColumns {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

func (r *pgRepository) DeleteProduct(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cn23_product_library WHERE id = $1`, id)
	return err
}

func (r *pgRepository) GetForm(ctx context.Context, shipmentID int64) (*Form, error) {
	const query = `
		SELECT id, shipment_id, total_value, currency, reason_for_export, incoterm, form_data, created_at
		FROM cn23_forms
		WHERE shipment_id = $1`

	var f Form
	var totalValue pgtype.Float8
	var reason, incoterm, formData pgtype.Text
	err := r.pool.QueryRow(ctx, query, shipmentID).Scan(
		&f.ID, &f.ShipmentID, &totalValue, &f.Currency, &reason, &incoterm, &formData, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if totalValue.Valid {
		f.TotalValue = &totalValue.Float64
	}
	if reason.Valid {
		f.ReasonForExport = &reason.String
	}
	if incoterm.Valid {
		f.Incoterm = &incoterm.String
	}
	if formData.Valid {
		f.FormData = []byte(formData.String)
	}
	return &f, nil
}

// SaveForm upserts the declaration keyed by shipment id. A single statement
// so two racing saves cannot produce a duplicate-key failure.
func (r *pgRepository) SaveForm(ctx context.Context, f Form) error {
	const query = `
		INSERT INTO cn23_forms (shipment_id, total_value, currency, reason_for_export, incoterm, form_data)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (shipment_id) DO UPDATE SET
			total_value = EXCLUDED.total_value,
			currency = EXCLUDED.currency,
			reason_for_export = EXCLUDED.reason_for_export,
			incoterm = EXCLUDED.incoterm,
			form_data = EXCLUDED.form_data`

	var formData *string
	if len(f.FormData) > 0 {
		s := string(f.FormData)
		formData = &s
	}
	_, err := r.pool.Exec(ctx, query, f.ShipmentID, f.TotalValue, f.Currency, f.ReasonForExport, f.Incoterm, formData)
	return err
}
