// Package coupon holds the coupon reference data. Lookup is existence-only:
// discount application rules live with the caller, not here.
package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no coupon with the given code exists.
var ErrNotFound = errors.New("coupon not found")

// Coupon is a flat discount code.
type Coupon struct {
	Code      string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// Repository defines persistence operations for coupons.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context) ([]Coupon, error)
	Create(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, code string) error
}
