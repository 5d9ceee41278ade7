package oplog

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for the operation log.
type Repository interface {
	Insert(ctx context.Context, e Entry) error
	List(ctx context.Context, limit, offset int) ([]Entry, int, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) Insert(ctx context.Context, e Entry) error {
	const query = `
		INSERT INTO operation_logs (user_id, action, target_type, target_id, details, ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`
	_, err := r.pool.Exec(ctx, query, e.UserID, e.Action, e.TargetType, e.TargetID, e.Details, e.IP)
	return err
}

func (r *pgRepository) List(ctx context.Context, limit, offset int) ([]Entry, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM operation_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
		SELECT ol.id, ol.user_id, ol.action, ol.target_type, ol.target_id, ol.details, ol.ip, ol.created_at,
		       COALESCE(u.full_name, '')
		FROM operation_logs ol
		LEFT JOIN users u ON ol.user_id = u.id
		ORDER BY ol.created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var targetType, details pgtype.Text
		var targetID pgtype.Int8
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &targetType, &targetID, &details, &e.IP, &e.CreatedAt, &e.FullName); err != nil {
			return nil, 0, err
		}
		if targetType.Valid {
			e.TargetType = &targetType.String
		}
		if targetID.Valid {
			e.TargetID = &targetID.Int64
		}
		if details.Valid {
			e.Details = &details.String
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
