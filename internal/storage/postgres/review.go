package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evermart/shop-api/internal/domain/review"
)

const (
	listReviewsByProductSQL = `SELECT id, product_id, rating, comment, reviewer_name, reviewer_email, created_at
		FROM product_reviews WHERE product_id = $1 ORDER BY created_at DESC`

	createReviewSQL = `INSERT INTO product_reviews (product_id, rating, comment, reviewer_name, reviewer_email)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`

	deleteReviewSQL = `DELETE FROM product_reviews WHERE id = $1`
)

var _ review.Repository = (*ReviewRepository)(nil)

// ReviewRepository implements review.Repository backed by PostgreSQL.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a ReviewRepository that uses the given pool.
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// ListByProduct returns a product's reviews, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64) ([]review.Review, error) {
	rows, err := r.pool.Query(ctx, listReviewsByProductSQL, productID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for product %d: %w", productID, err)
	}
	return pgx.CollectRows(rows, scanReview)
}

// Create persists a new review.
func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	err := r.pool.QueryRow(ctx, createReviewSQL,
		rv.ProductID, rv.Rating, rv.Comment, rv.ReviewerName, rv.ReviewerEmail,
	).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating review for product %d: %w", rv.ProductID, err)
	}
	return nil
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, deleteReviewSQL, id)
	if err != nil {
		return fmt.Errorf("deleting review %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return review.ErrNotFound
	}
	return nil
}

func scanReview(row pgx.CollectableRow) (review.Review, error) {
	var rv review.Review
	err := row.Scan(&rv.ID, &rv.ProductID, &rv.Rating, &rv.Comment,
		&rv.ReviewerName, &rv.ReviewerEmail, &rv.CreatedAt)
	return rv, err
}
