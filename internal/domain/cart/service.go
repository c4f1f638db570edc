package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evermart/shop-api/internal/credential"
	"github.com/evermart/shop-api/internal/domain/product"
)

// DefaultTaxRate is applied to newly minted carts unless configured otherwise.
var DefaultTaxRate = decimal.RequireFromString("0.075")

// Snapshot is the uniform response shape for every cart operation: the
// credential to resend, the refreshed aggregate totals, and the full line
// item list. The flags report which branch a mutation took.
type Snapshot struct {
	Token     string
	CartID    uuid.UUID
	Subtotal  decimal.Decimal
	TaxTotal  decimal.Decimal
	Total     decimal.Decimal
	TaxRate   decimal.Decimal
	ItemCount int
	Items     []Item

	Added   bool
	Updated bool
	Removed bool
}

// Service implements cart resolution, the mutation protocol, and pricing
// recalculation on top of the repositories and the credential codec.
type Service struct {
	carts    Repository
	products product.Repository
	codec    *credential.Codec
	taxRate  decimal.Decimal
}

// NewService creates a cart Service. taxRate is used for newly minted carts;
// pass DefaultTaxRate unless configured otherwise.
func NewService(carts Repository, products product.Repository, codec *credential.Codec, taxRate decimal.Decimal) *Service {
	return &Service{
		carts:    carts,
		products: products,
		codec:    codec,
		taxRate:  taxRate,
	}
}

// Resolve maps an inbound credential (possibly empty) to a guaranteed-active
// cart. A missing, invalid, or dangling credential is healed by minting a new
// cart owned by ownerID (empty for anonymous). This can write a cart row even
// on a read-only request, so the client
// receives a credential from its very first GET.
//
// The returned token is the inbound credential when it resolved, or a freshly
// issued one when a new cart was minted. Resolve never fails on bad input,
// only on storage or signing errors.
func (s *Service) Resolve(ctx context.Context, token, ownerID string) (*Cart, string, error) {
	if token != "" {
		id, err := s.codec.Decode(token)
		if err == nil {
			c, err := s.carts.GetActiveCart(ctx, id)
			if err == nil {
				return c, token, nil
			}
			if !errors.Is(err, ErrCartNotFound) {
				return nil, "", errors.Wrap(err, "get active cart")
			}
		}
		// Invalid credential or inactive/missing cart: fall through to mint.
	}

	c := &Cart{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Active:   true,
		TaxRate:  s.taxRate,
		Subtotal: decimal.Zero,
		TaxTotal: decimal.Zero,
		Total:    decimal.Zero,
	}
	if err := s.carts.CreateCart(ctx, c); err != nil {
		return nil, "", errors.Wrap(err, "create cart")
	}

	fresh, err := s.codec.Issue(c.ID)
	if err != nil {
		return nil, "", errors.Wrap(err, "issue credential")
	}
	return c, fresh, nil
}

// Get resolves the cart, runs a recalculation pass, and returns the snapshot.
// Line items are not mutated.
func (s *Service) Get(ctx context.Context, token, ownerID string) (*Snapshot, error) {
	c, token, err := s.Resolve(ctx, token, ownerID)
	if err != nil {
		return nil, err
	}

	var items []Item
	err = s.carts.Atomic(ctx, func(r Repository) error {
		items, err = s.recalculate(ctx, r, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.snapshot(c, token, items), nil
}

// Add puts qty units of a product into the cart. When the product already has
// a line, its quantity is incremented and the line total re-derived from the
// current catalog price; otherwise a new line is created. The snapshot's
// Added/Updated flag reports which branch ran.
func (s *Service) Add(ctx context.Context, token, ownerID string, productID int64, qty int) (*Snapshot, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	c, token, err := s.Resolve(ctx, token, ownerID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	var (
		created bool
		items   []Item
	)
	err = s.carts.Atomic(ctx, func(r Repository) error {
		if _, created, err = r.UpsertItem(ctx, c.ID, p.ID, qty, p.Price); err != nil {
			return errors.Wrap(err, "upsert item")
		}
		items, err = s.recalculate(ctx, r, c)
		return err
	})
	if err != nil {
		return nil, err
	}

	snap := s.snapshot(c, token, items)
	snap.Added = created
	snap.Updated = !created
	return snap, nil
}

// Update sets the absolute quantity of an existing line. A non-positive
// quantity deletes the line instead (Removed flag set). That is a valid
// signal, not an error. Updating a product that has no line in the cart
// returns ErrItemNotInCart.
func (s *Service) Update(ctx context.Context, token, ownerID string, productID int64, qty int) (*Snapshot, error) {
	c, token, err := s.Resolve(ctx, token, ownerID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	var (
		removed bool
		items   []Item
	)
	err = s.carts.Atomic(ctx, func(r Repository) error {
		if qty <= 0 {
			deleted, err := r.DeleteItem(ctx, c.ID, p.ID)
			if err != nil {
				return errors.Wrap(err, "delete item")
			}
			if !deleted {
				return ErrItemNotInCart
			}
			removed = true
		} else {
			if _, err := r.SetItemQuantity(ctx, c.ID, p.ID, qty, p.Price); err != nil {
				return err
			}
		}
		items, err = s.recalculate(ctx, r, c)
		return err
	})
	if err != nil {
		return nil, err
	}

	snap := s.snapshot(c, token, items)
	snap.Removed = removed
	return snap, nil
}

// Remove deletes a product's line unconditionally. Removing a product with no
// line returns ErrItemNotInCart. Callers treat that as a non-fatal outcome.
func (s *Service) Remove(ctx context.Context, token, ownerID string, productID int64) (*Snapshot, error) {
	c, token, err := s.Resolve(ctx, token, ownerID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	var items []Item
	err = s.carts.Atomic(ctx, func(r Repository) error {
		deleted, err := r.DeleteItem(ctx, c.ID, p.ID)
		if err != nil {
			return errors.Wrap(err, "delete item")
		}
		if !deleted {
			return ErrItemNotInCart
		}
		items, err = s.recalculate(ctx, r, c)
		return err
	})
	if err != nil {
		return nil, err
	}

	snap := s.snapshot(c, token, items)
	snap.Removed = true
	return snap, nil
}

// recalculate recomputes the cart aggregates from the current line items and
// persists them. All arithmetic stays in decimal; nothing is rounded here, so
// the invariants hold with exact fixed-point equality. An empty item set
// yields zero subtotal.
func (s *Service) recalculate(ctx context.Context, r Repository, c *Cart) ([]Item, error) {
	items, err := r.ListItems(ctx, c.ID)
	if err != nil {
		return nil, errors.Wrap(err, "list items")
	}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal)
	}
	taxTotal := subtotal.Mul(c.TaxRate)
	total := subtotal.Add(taxTotal)

	if err := r.UpdateTotals(ctx, c.ID, subtotal, taxTotal, total); err != nil {
		return nil, errors.Wrap(err, "update totals")
	}

	c.Subtotal = subtotal
	c.TaxTotal = taxTotal
	c.Total = total
	return items, nil
}

func (s *Service) snapshot(c *Cart, token string, items []Item) *Snapshot {
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	return &Snapshot{
		Token:     token,
		CartID:    c.ID,
		Subtotal:  c.Subtotal,
		TaxTotal:  c.TaxTotal,
		Total:     c.Total,
		TaxRate:   c.TaxRate,
		ItemCount: count,
		Items:     items,
	}
}
