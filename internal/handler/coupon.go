package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/evermart/shop-api/internal/domain/coupon"
)

type couponResponse struct {
	Code      string          `json:"code"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

type couponRequest struct {
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"amount"`
}

// GetCoupon validates a discount code, returning it when it exists.
func (h *Handler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	c, err := h.coupons.FindByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			respondError(w, http.StatusNotFound, "coupon not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCouponResponse(*c))
}

// ListCoupons returns every coupon. Admin only.
func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	list, err := h.coupons.List(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	out := make([]couponResponse, len(list))
	for i, c := range list {
		out[i] = toCouponResponse(c)
	}
	respondJSON(w, http.StatusOK, out)
}

// CreateCoupon registers a new discount code. Admin only.
func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "code is required")
		return
	}

	c := coupon.Coupon{Code: req.Code, Amount: req.Amount}
	if err := h.coupons.Create(r.Context(), &c); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCouponResponse(c))
}

// DeleteCoupon removes a discount code. Admin only.
func (h *Handler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.coupons.Delete(r.Context(), r.PathValue("code")); err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			respondError(w, http.StatusNotFound, "coupon not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toCouponResponse(c coupon.Coupon) couponResponse {
	return couponResponse{Code: c.Code, Amount: c.Amount, CreatedAt: c.CreatedAt}
}
