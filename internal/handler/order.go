package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/evermart/shop-api/internal/domain/order"
	"github.com/evermart/shop-api/internal/domain/product"
)

type orderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type orderRequest struct {
	FirstName     string             `json:"first_name"`
	LastName      string             `json:"last_name"`
	PhoneNumber   string             `json:"phone_number"`
	District      string             `json:"district"`
	City          string             `json:"city"`
	Address       string             `json:"address"`
	PaymentMethod string             `json:"payment_method"`
	TransactionID string             `json:"transaction_id"`
	Items         []orderItemRequest `json:"items"`
}

type orderItemResponse struct {
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type orderResponse struct {
	ID             string              `json:"id"`
	FirstName      string              `json:"first_name"`
	LastName       string              `json:"last_name"`
	PhoneNumber    string              `json:"phone_number"`
	District       string              `json:"district"`
	City           string              `json:"city"`
	Address        string              `json:"address"`
	PaymentMethod  string              `json:"payment_method"`
	TransactionID  string              `json:"transaction_id"`
	DeliveryCharge decimal.Decimal     `json:"delivery_charge"`
	Total          decimal.Decimal     `json:"total"`
	Items          []orderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
}

// PlaceOrder runs checkout for the authenticated user.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]order.ItemRequest, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.ItemRequest{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	o, err := h.orders.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		UserID:        r.Header.Get(userIDHeader),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		PhoneNumber:   req.PhoneNumber,
		District:      req.District,
		City:          req.City,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Items:         items,
	})
	if err != nil {
		respondOrderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toOrderResponse(*o))
}

// ListOrders returns the authenticated user's order history, newest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	list, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	out := make([]orderResponse, len(list))
	for i, o := range list {
		out[i] = toOrderResponse(o)
	}
	respondJSON(w, http.StatusOK, out)
}

func respondOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidQty *order.InvalidQuantityError
	switch {
	case errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrMissingShipping),
		errors.As(err, &invalidQty):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, product.ErrNotFound):
		respondError(w, http.StatusBadRequest, "product not found")
	default:
		respondInternal(w, r, err)
	}
}

func toOrderResponse(o order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			ProductID: it.ProductID,
			Title:     it.Title,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		}
	}
	return orderResponse{
		ID:             o.ID.String(),
		FirstName:      o.FirstName,
		LastName:       o.LastName,
		PhoneNumber:    o.PhoneNumber,
		District:       o.District,
		City:           o.City,
		Address:        o.Address,
		PaymentMethod:  o.PaymentMethod,
		TransactionID:  o.TransactionID,
		DeliveryCharge: o.DeliveryCharge,
		Total:          o.Total,
		Items:          items,
		CreatedAt:      o.CreatedAt,
	}
}
