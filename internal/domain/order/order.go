package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultDeliveryCharge is the flat shipping fee added to every order total.
var DefaultDeliveryCharge = decimal.NewFromInt(80)

// Sentinel errors for order validation.
var (
	ErrEmptyItems      = errors.New("items required")
	ErrMissingShipping = errors.New("shipping details required")
)

// Order is a completed checkout with shipping and payment pass-through data.
// Payment gateway integration is external; the method and transaction id are
// stored as-is.
type Order struct {
	ID             uuid.UUID
	UserID         string
	FirstName      string
	LastName       string
	PhoneNumber    string
	District       string
	City           string
	Address        string
	PaymentMethod  string
	TransactionID  string
	DeliveryCharge decimal.Decimal
	Total          decimal.Decimal
	Items          []Item
	CreatedAt      time.Time
}

// Item is one priced line of an order, captured at checkout time.
type Item struct {
	ProductID int64
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}
