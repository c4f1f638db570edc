package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evermart/shop-api/internal/domain/category"
)

const (
	listCategoriesSQL = `SELECT id, name, slug, featured, created_at FROM categories ORDER BY name`

	listFeaturedCategoriesSQL = `SELECT id, name, slug, featured, created_at FROM categories
		WHERE featured ORDER BY name`

	getCategoryBySlugSQL = `SELECT id, name, slug, featured, created_at FROM categories WHERE slug = $1`

	createCategorySQL = `INSERT INTO categories (name, slug, featured)
		VALUES ($1, $2, $3) RETURNING id, created_at`

	updateCategorySQL = `UPDATE categories SET name = $2, slug = $3, featured = $4 WHERE id = $1`

	deleteCategorySQL = `DELETE FROM categories WHERE id = $1`
)

var _ category.Repository = (*CategoryRepository)(nil)

// CategoryRepository implements category.Repository backed by PostgreSQL.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a CategoryRepository that uses the given pool.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, scanCategory)
}

// ListFeatured returns only the categories flagged for the storefront.
func (r *CategoryRepository) ListFeatured(ctx context.Context) ([]category.Category, error) {
	rows, err := r.pool.Query(ctx, listFeaturedCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing featured categories: %w", err)
	}
	return pgx.CollectRows(rows, scanCategory)
}

// GetBySlug returns the category with the given slug.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*category.Category, error) {
	rows, err := r.pool.Query(ctx, getCategoryBySlugSQL, slug)
	if err != nil {
		return nil, fmt.Errorf("getting category %q: %w", slug, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrNotFound
		}
		return nil, fmt.Errorf("getting category %q: %w", slug, err)
	}
	return &c, nil
}

// Create persists a new category.
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	err := r.pool.QueryRow(ctx, createCategorySQL, c.Name, c.Slug, c.Featured).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating category %q: %w", c.Slug, err)
	}
	return nil
}

// Update overwrites an existing category.
func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	ct, err := r.pool.Exec(ctx, updateCategorySQL, c.ID, c.Name, c.Slug, c.Featured)
	if err != nil {
		return fmt.Errorf("updating category %d: %w", c.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return category.ErrNotFound
	}
	return nil
}

// Delete removes a category.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, deleteCategorySQL, id)
	if err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return category.ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.CollectableRow) (category.Category, error) {
	var c category.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Featured, &c.CreatedAt)
	return c, err
}
