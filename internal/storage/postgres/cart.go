package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/evermart/shop-api/internal/domain/cart"
)

const (
	createCartSQL = `INSERT INTO carts (id, owner_id, active, tax_rate, subtotal, tax_total, total)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)`

	getActiveCartSQL = `SELECT id, COALESCE(owner_id, ''), active, tax_rate, subtotal, tax_total, total, created_at, updated_at
		FROM carts WHERE id = $1 AND active`

	updateCartTotalsSQL = `UPDATE carts SET subtotal = $2, tax_total = $3, total = $4, updated_at = now()
		WHERE id = $1`

	listCartItemsSQL = `SELECT cart_id, product_id, quantity, line_total
		FROM cart_items WHERE cart_id = $1 ORDER BY product_id`

	// One statement, insert-or-increment. The line total is always re-derived
	// from the resulting quantity and the unit price captured at call time.
	upsertCartItemSQL = `INSERT INTO cart_items (cart_id, product_id, quantity, line_total)
		VALUES ($1, $2, $3, $4::numeric * $3)
		ON CONFLICT (cart_id, product_id) DO UPDATE
		SET quantity   = cart_items.quantity + EXCLUDED.quantity,
		    line_total = $4::numeric * (cart_items.quantity + EXCLUDED.quantity),
		    updated_at = now()
		RETURNING cart_id, product_id, quantity, line_total, (xmax = 0) AS inserted`

	setCartItemQuantitySQL = `UPDATE cart_items
		SET quantity = $3, line_total = $4::numeric * $3, updated_at = now()
		WHERE cart_id = $1 AND product_id = $2
		RETURNING cart_id, product_id, quantity, line_total`

	deleteCartItemSQL = `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
	db   querier
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool, db: pool}
}

// Atomic runs fn inside a single transaction. A nested call reuses the
// enclosing transaction.
func (r *CartRepository) Atomic(ctx context.Context, fn func(cart.Repository) error) error {
	if _, inTx := r.db.(pgx.Tx); inTx {
		return fn(r)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&CartRepository{pool: r.pool, db: tx})
	})
}

// CreateCart persists a new cart row.
func (r *CartRepository) CreateCart(ctx context.Context, c *cart.Cart) error {
	_, err := r.db.Exec(ctx, createCartSQL,
		c.ID, c.OwnerID, c.Active, c.TaxRate, c.Subtotal, c.TaxTotal, c.Total,
	)
	if err != nil {
		return fmt.Errorf("creating cart %q: %w", c.ID, err)
	}
	return nil
}

// GetActiveCart returns the cart when it exists and is active, otherwise
// cart.ErrCartNotFound. Inactive carts are indistinguishable from missing
// ones.
func (r *CartRepository) GetActiveCart(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	rows, err := r.db.Query(ctx, getActiveCartSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting cart %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCart)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrCartNotFound
		}
		return nil, fmt.Errorf("getting cart %q: %w", id, err)
	}
	return &c, nil
}

// UpdateTotals persists the recalculated aggregate fields.
func (r *CartRepository) UpdateTotals(ctx context.Context, id uuid.UUID, subtotal, taxTotal, total decimal.Decimal) error {
	_, err := r.db.Exec(ctx, updateCartTotalsSQL, id, subtotal, taxTotal, total)
	if err != nil {
		return fmt.Errorf("updating totals for cart %q: %w", id, err)
	}
	return nil
}

// ListItems returns the cart's line items ordered by product id.
func (r *CartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]cart.Item, error) {
	rows, err := r.db.Query(ctx, listCartItemsSQL, cartID)
	if err != nil {
		return nil, fmt.Errorf("listing items for cart %q: %w", cartID, err)
	}
	return pgx.CollectRows(rows, scanCartItem)
}

// UpsertItem inserts a new line or increments an existing one atomically.
func (r *CartRepository) UpsertItem(ctx context.Context, cartID uuid.UUID, productID int64, qty int, unitPrice decimal.Decimal) (*cart.Item, bool, error) {
	var (
		it       cart.Item
		inserted bool
	)
	err := r.db.QueryRow(ctx, upsertCartItemSQL, cartID, productID, qty, unitPrice).
		Scan(&it.CartID, &it.ProductID, &it.Quantity, &it.LineTotal, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("upserting item (%q, %d): %w", cartID, productID, err)
	}
	return &it, inserted, nil
}

// SetItemQuantity sets an existing line to an absolute quantity.
func (r *CartRepository) SetItemQuantity(ctx context.Context, cartID uuid.UUID, productID int64, qty int, unitPrice decimal.Decimal) (*cart.Item, error) {
	var it cart.Item
	err := r.db.QueryRow(ctx, setCartItemQuantitySQL, cartID, productID, qty, unitPrice).
		Scan(&it.CartID, &it.ProductID, &it.Quantity, &it.LineTotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrItemNotInCart
		}
		return nil, fmt.Errorf("setting quantity for item (%q, %d): %w", cartID, productID, err)
	}
	return &it, nil
}

// DeleteItem removes a line, reporting whether a row existed.
func (r *CartRepository) DeleteItem(ctx context.Context, cartID uuid.UUID, productID int64) (bool, error) {
	ct, err := r.db.Exec(ctx, deleteCartItemSQL, cartID, productID)
	if err != nil {
		return false, fmt.Errorf("deleting item (%q, %d): %w", cartID, productID, err)
	}
	return ct.RowsAffected() > 0, nil
}

func scanCart(row pgx.CollectableRow) (cart.Cart, error) {
	var c cart.Cart
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Active, &c.TaxRate,
		&c.Subtotal, &c.TaxTotal, &c.Total,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func scanCartItem(row pgx.CollectableRow) (cart.Item, error) {
	var it cart.Item
	err := row.Scan(&it.CartID, &it.ProductID, &it.Quantity, &it.LineTotal)
	return it, err
}
