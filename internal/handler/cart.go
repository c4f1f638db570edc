package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evermart/shop-api/internal/domain/cart"
	"github.com/evermart/shop-api/internal/domain/product"
)

// cartRequest is the body shape shared by the mutating cart operations. The
// credential may ride in the body's token field or the token query parameter;
// the first non-empty one wins (query first).
type cartRequest struct {
	Token     string `json:"token"`
	ProductID *int64 `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

// cartItemResponse is one line item in a cart snapshot.
type cartItemResponse struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// cartResponse is the uniform snapshot returned by every cart operation.
// The client persists token and resends it on subsequent calls.
type cartResponse struct {
	Token     string             `json:"token"`
	CartID    uuid.UUID          `json:"cart_id"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	TaxTotal  decimal.Decimal    `json:"tax_total"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"item_count"`
	Items     []cartItemResponse `json:"items"`

	Added   *bool `json:"added,omitempty"`
	Updated *bool `json:"updated,omitempty"`
	Removed *bool `json:"removed,omitempty"`
}

// GetCart resolves (or mints) the cart, refreshes its totals, and returns the
// snapshot. Always 200: a garbage credential degrades to a fresh cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	snap, err := h.carts.Get(r.Context(), token, r.Header.Get(userIDHeader))
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshotResponse(snap, false))
}

// AddCartItem adds quantity units of a product (default 1), incrementing any
// existing line for the same product.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == nil {
		respondError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	snap, err := h.carts.Add(r.Context(), h.cartToken(r, req), r.Header.Get(userIDHeader), *req.ProductID, qty)
	if err != nil {
		h.respondCartError(w, r, err)
		return
	}
	resp := snapshotResponse(snap, true)
	respondJSON(w, http.StatusOK, resp)
}

// UpdateCartItem sets a line to an absolute quantity; zero or below deletes
// the line and reports removed=true.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == nil {
		respondError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	snap, err := h.carts.Update(r.Context(), h.cartToken(r, req), r.Header.Get(userIDHeader), *req.ProductID, *req.Quantity)
	if err != nil {
		h.respondCartError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshotResponse(snap, true))
}

// RemoveCartItem deletes a product's line unconditionally.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == nil {
		respondError(w, http.StatusBadRequest, "product_id is required")
		return
	}

	snap, err := h.carts.Remove(r.Context(), h.cartToken(r, req), r.Header.Get(userIDHeader), *req.ProductID)
	if err != nil {
		h.respondCartError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshotResponse(snap, true))
}

// cartToken extracts the credential: query parameter first, then body field.
func (h *Handler) cartToken(r *http.Request, req cartRequest) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	return req.Token
}

// respondCartError maps cart protocol failures onto the HTTP surface:
// unknown product and bad quantity are client errors; a missing line is 404;
// anything else is a store failure.
func (h *Handler) respondCartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, product.ErrNotFound):
		respondError(w, http.StatusBadRequest, "product not found")
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "quantity must be greater than 0")
	case errors.Is(err, cart.ErrItemNotInCart):
		respondError(w, http.StatusNotFound, "item not in cart")
	default:
		respondInternal(w, r, err)
	}
}

// snapshotResponse converts a domain snapshot. Mutation flags are only
// serialized for mutating operations.
func snapshotResponse(snap *cart.Snapshot, withFlags bool) cartResponse {
	items := make([]cartItemResponse, len(snap.Items))
	for i, it := range snap.Items {
		items[i] = cartItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		}
	}
	resp := cartResponse{
		Token:     snap.Token,
		CartID:    snap.CartID,
		Subtotal:  snap.Subtotal,
		TaxTotal:  snap.TaxTotal,
		Total:     snap.Total,
		ItemCount: snap.ItemCount,
		Items:     items,
	}
	if withFlags {
		resp.Added = &snap.Added
		resp.Updated = &snap.Updated
		resp.Removed = &snap.Removed
	}
	return resp
}
