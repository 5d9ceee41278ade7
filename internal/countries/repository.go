package countries

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads the static country rule table.
type Repository interface {
	List(ctx context.Context) ([]Rule, error)
	ListCN23Required(ctx context.Context) ([]Rule, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) List(ctx context.Context) ([]Rule, error) {
	const query = `
		SELECT iso2, iso3, english_name, localized_name, cn23_required
		FROM country_rules
		ORDER BY english_name`
	return r.query(ctx, query)
}

func (r *pgRepository) ListCN23Required(ctx context.Context) ([]Rule, error) {
	const query = `
		SELECT iso2, iso3, english_name, localized_name, cn23_required
		FROM country_rules
		WHERE cn23_required = TRUE
		ORDER BY english_name`
	return r.query(ctx, query)
}

func (r *pgRepository) query(ctx context.Context, query string) ([]Rule, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []Rule
	for rows.Next() {
		var rule Rule
		if err := rows.Scan(&rule.ISO2, &rule.ISO3, &rule.EnglishName, &rule.LocalizedName, &rule.CN23Required); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
