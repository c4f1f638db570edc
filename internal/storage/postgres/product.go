package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evermart/shop-api/internal/domain/product"
)

const (
	productColumns = `id, title, description, category, price, discount_percentage, rating,
		stock, brand, sku, thumbnail, availability_status, created_at, updated_at`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products ORDER BY id`

	listProductsByCategorySQL = `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY id`

	// topSellingColumns qualifies every column with the products alias; the
	// join brings in a second id column, so bare names are ambiguous.
	topSellingColumns = `p.id, p.title, p.description, p.category, p.price, p.discount_percentage, p.rating,
		p.stock, p.brand, p.sku, p.thumbnail, p.availability_status, p.created_at, p.updated_at`

	listTopSellingSQL = `SELECT ` + topSellingColumns + ` FROM products p
		JOIN top_selling_products t ON t.product_id = p.id ORDER BY t.position`

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	createProductSQL = `INSERT INTO products
		(title, description, category, price, discount_percentage, rating, stock, brand, sku, thumbnail, availability_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	updateProductSQL = `UPDATE products SET
		title = $2, description = $3, category = $4, price = $5, discount_percentage = $6,
		rating = $7, stock = $8, brand = $9, sku = $10, thumbnail = $11,
		availability_status = $12, updated_at = now()
		WHERE id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products ordered by id.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// ListByCategory returns products in the given category slug.
func (r *ProductRepository) ListByCategory(ctx context.Context, category string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsByCategorySQL, category)
	if err != nil {
		return nil, fmt.Errorf("listing products in category %q: %w", category, err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// ListTopSelling returns the curated top-selling products in position order.
func (r *ProductRepository) ListTopSelling(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listTopSellingSQL)
	if err != nil {
		return nil, fmt.Errorf("listing top selling products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &p, nil
}

// Create persists a new product and fills in its generated fields.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	err := r.pool.QueryRow(ctx, createProductSQL,
		p.Title, p.Description, p.Category, p.Price, p.DiscountPercentage,
		p.Rating, p.Stock, p.Brand, p.SKU, p.Thumbnail, p.AvailabilityStatus,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating product %q: %w", p.SKU, err)
	}
	return nil
}

// Update overwrites an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	ct, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Title, p.Description, p.Category, p.Price, p.DiscountPercentage,
		p.Rating, p.Stock, p.Brand, p.SKU, p.Thumbnail, p.AvailabilityStatus,
	)
	if err != nil {
		return fmt.Errorf("updating product %d: %w", p.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Category, &p.Price, &p.DiscountPercentage,
		&p.Rating, &p.Stock, &p.Brand, &p.SKU, &p.Thumbnail, &p.AvailabilityStatus,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
