// Package cart implements the shopping-cart subsystem: token-carried cart
// identity, the add/update/remove protocol, and running total recalculation.
package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrCartNotFound is returned by the repository when no active cart
	// matches the given id. The service recovers by minting a new cart.
	ErrCartNotFound = errors.New("cart not found")
	// ErrItemNotInCart is returned when an update or remove targets a product
	// that has no line item in the cart.
	ErrItemNotInCart = errors.New("item not in cart")
	// ErrInvalidQuantity is returned when an add specifies a non-positive
	// quantity. On update a non-positive quantity is a delete signal instead.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// Cart is a server-side shopping cart. The aggregate fields (Subtotal,
// TaxTotal, Total) are derived from the line items and recomputed after every
// mutation; they are never trusted from input.
//
// Invariant after any completed operation:
//
//	TaxTotal == Subtotal * TaxRate
//	Total    == Subtotal + TaxTotal
type Cart struct {
	ID        uuid.UUID
	OwnerID   string // empty for anonymous carts
	Active    bool
	TaxRate   decimal.Decimal
	Subtotal  decimal.Decimal
	TaxTotal  decimal.Decimal
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item is one product's line in a cart. A product appears at most once per
// cart; Quantity tracks multiplicity. LineTotal is unit price at the time of
// the last add/update multiplied by quantity; it is not re-priced when the
// catalog price later changes.
type Item struct {
	CartID    uuid.UUID
	ProductID int64
	Quantity  int
	LineTotal decimal.Decimal
}

// Repository defines persistence operations for carts and their line items.
//
// The quantity-changing methods are single atomic statements per row: two
// concurrent mutations of the same (cart, product) line may interleave at the
// operation level, but a persisted row always reflects one complete
// operation's result.
type Repository interface {
	CreateCart(ctx context.Context, c *Cart) error
	// GetActiveCart returns the cart only when it exists and is active;
	// otherwise ErrCartNotFound.
	GetActiveCart(ctx context.Context, id uuid.UUID) (*Cart, error)
	UpdateTotals(ctx context.Context, id uuid.UUID, subtotal, taxTotal, total decimal.Decimal) error

	ListItems(ctx context.Context, cartID uuid.UUID) ([]Item, error)
	// UpsertItem inserts a new line or increments an existing one by qty in a
	// single statement, re-deriving LineTotal from the resulting quantity and
	// unitPrice. The second return value reports whether a new line was
	// created.
	UpsertItem(ctx context.Context, cartID uuid.UUID, productID int64, qty int, unitPrice decimal.Decimal) (*Item, bool, error)
	// SetItemQuantity sets the absolute quantity of an existing line,
	// recomputing LineTotal from unitPrice. Returns ErrItemNotInCart when the
	// line does not exist.
	SetItemQuantity(ctx context.Context, cartID uuid.UUID, productID int64, qty int, unitPrice decimal.Decimal) (*Item, error)
	// DeleteItem removes a line, reporting whether a row was deleted.
	DeleteItem(ctx context.Context, cartID uuid.UUID, productID int64) (bool, error)

	// Atomic runs fn against a transactional view of the repository. The
	// changes made inside fn commit together or not at all; each mutating
	// cart operation plus its recalculation runs in one such scope.
	Atomic(ctx context.Context, fn func(Repository) error) error
}
