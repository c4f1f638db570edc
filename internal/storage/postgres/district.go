package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evermart/shop-api/internal/domain/district"
)

const (
	listDistrictsSQL  = `SELECT id, title FROM districts ORDER BY title`
	createDistrictSQL = `INSERT INTO districts (title) VALUES ($1) RETURNING id`
	deleteDistrictSQL = `DELETE FROM districts WHERE id = $1`
)

var _ district.Repository = (*DistrictRepository)(nil)

// DistrictRepository implements district.Repository backed by PostgreSQL.
type DistrictRepository struct {
	pool *pgxpool.Pool
}

// NewDistrictRepository returns a DistrictRepository that uses the given pool.
func NewDistrictRepository(pool *pgxpool.Pool) *DistrictRepository {
	return &DistrictRepository{pool: pool}
}

// List returns all districts ordered by title.
func (r *DistrictRepository) List(ctx context.Context) ([]district.District, error) {
	rows, err := r.pool.Query(ctx, listDistrictsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing districts: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (district.District, error) {
		var d district.District
		err := row.Scan(&d.ID, &d.Title)
		return d, err
	})
}

// Create persists a new district.
func (r *DistrictRepository) Create(ctx context.Context, d *district.District) error {
	if err := r.pool.QueryRow(ctx, createDistrictSQL, d.Title).Scan(&d.ID); err != nil {
		return fmt.Errorf("creating district %q: %w", d.Title, err)
	}
	return nil
}

// Delete removes a district.
func (r *DistrictRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, deleteDistrictSQL, id)
	if err != nil {
		return fmt.Errorf("deleting district %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return district.ErrNotFound
	}
	return nil
}
