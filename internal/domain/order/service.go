package order

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evermart/shop-api/internal/domain/product"
)

// InvalidQuantityError indicates a line item with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %d", e.ProductID)
}

// PlaceOrderRequest holds checkout input. Item prices are never taken from
// the request; each line is priced from the catalog at order time.
type PlaceOrderRequest struct {
	UserID        string
	FirstName     string
	LastName      string
	PhoneNumber   string
	District      string
	City          string
	Address       string
	PaymentMethod string
	TransactionID string
	Items         []ItemRequest
}

// ItemRequest is one requested order line.
type ItemRequest struct {
	ProductID int64
	Quantity  int
}

// Service encapsulates order placement.
type Service struct {
	products       product.Repository
	orders         Repository
	deliveryCharge decimal.Decimal
}

// NewService creates an order Service with the given flat delivery charge.
func NewService(products product.Repository, orders Repository, deliveryCharge decimal.Decimal) *Service {
	return &Service{
		products:       products,
		orders:         orders,
		deliveryCharge: deliveryCharge,
	}
}

// PlaceOrder validates the request, prices every line from the catalog,
// adds the delivery charge, and persists the order.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if req.FirstName == "" || req.PhoneNumber == "" || req.Address == "" || req.City == "" {
		return nil, ErrMissingShipping
	}

	items := make([]Item, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, ir := range req.Items {
		if ir.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: ir.ProductID}
		}
		p, err := s.products.GetByID(ctx, ir.ProductID)
		if err != nil {
			return nil, err
		}

		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(ir.Quantity)))
		items = append(items, Item{
			ProductID: p.ID,
			Title:     p.Title,
			Quantity:  ir.Quantity,
			UnitPrice: p.Price,
			LineTotal: lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	o := &Order{
		ID:             uuid.New(),
		UserID:         req.UserID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PhoneNumber:    req.PhoneNumber,
		District:       req.District,
		City:           req.City,
		Address:        req.Address,
		PaymentMethod:  req.PaymentMethod,
		TransactionID:  req.TransactionID,
		DeliveryCharge: s.deliveryCharge,
		Total:          subtotal.Add(s.deliveryCharge),
		Items:          items,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// ListByUser returns the given user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.orders.ListByUser(ctx, userID)
}
