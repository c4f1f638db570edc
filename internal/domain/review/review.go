package review

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when a requested review does not exist.
	ErrNotFound = errors.New("review not found")
	// ErrInvalidRating is returned for ratings outside the 1-5 range.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Review is a customer review attached to a product.
type Review struct {
	ID            int64
	ProductID     int64
	Rating        int
	Comment       string
	ReviewerName  string
	ReviewerEmail string
	CreatedAt     time.Time
}

// Validate checks field constraints before persistence.
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

// Repository defines persistence operations for product reviews.
type Repository interface {
	ListByProduct(ctx context.Context, productID int64) ([]Review, error)
	Create(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id int64) error
}
