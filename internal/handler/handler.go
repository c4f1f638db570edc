// Package handler implements the HTTP boundary: request decoding, credential
// transport, error mapping, and response assembly. Business rules live in the
// domain services; handlers only translate.
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/evermart/shop-api/internal/cache"
	"github.com/evermart/shop-api/internal/domain/auth"
	"github.com/evermart/shop-api/internal/domain/cart"
	"github.com/evermart/shop-api/internal/domain/category"
	"github.com/evermart/shop-api/internal/domain/contact"
	"github.com/evermart/shop-api/internal/domain/coupon"
	"github.com/evermart/shop-api/internal/domain/district"
	"github.com/evermart/shop-api/internal/domain/order"
	"github.com/evermart/shop-api/internal/domain/product"
	"github.com/evermart/shop-api/internal/domain/review"
)

// userIDHeader carries the authenticated user identity set by the upstream
// auth gateway. Empty means anonymous.
const userIDHeader = "X-User-ID"

// Handler wires the HTTP routes to the domain services and repositories.
type Handler struct {
	carts      *cart.Service
	products   product.Repository
	categories category.Repository
	reviews    review.Repository
	orders     *order.Service
	coupons    coupon.Repository
	districts  district.Repository
	contacts   contact.Repository
	cache      *cache.Cache
	security   *Security
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(
	carts *cart.Service,
	products product.Repository,
	categories category.Repository,
	reviews review.Repository,
	orders *order.Service,
	coupons coupon.Repository,
	districts district.Repository,
	contacts contact.Repository,
	readCache *cache.Cache,
	apikeys auth.Repository,
	pepper []byte,
) *Handler {
	return &Handler{
		carts:      carts,
		products:   products,
		categories: categories,
		reviews:    reviews,
		orders:     orders,
		coupons:    coupons,
		districts:  districts,
		contacts:   contacts,
		cache:      readCache,
		security:   NewSecurity(apikeys, pepper),
	}
}

// Routes returns the API route table. Mutating catalog routes require an
// admin API key; cart and storefront reads are open.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	admin := h.security.Require

	// Cart protocol.
	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart", h.AddCartItem)
	mux.HandleFunc("PUT /api/cart", h.UpdateCartItem)
	mux.HandleFunc("DELETE /api/cart", h.RemoveCartItem)

	// Catalog.
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.Handle("POST /api/products", admin(h.CreateProduct))
	mux.Handle("PUT /api/products/{id}", admin(h.UpdateProduct))
	mux.Handle("DELETE /api/products/{id}", admin(h.DeleteProduct))
	mux.HandleFunc("GET /api/top-selling-products", h.ListTopSelling)

	mux.HandleFunc("GET /api/categories", h.ListCategories)
	mux.HandleFunc("GET /api/categories/featured", h.ListFeaturedCategories)
	mux.HandleFunc("GET /api/categories/{slug}/products", h.ListCategoryProducts)
	mux.Handle("POST /api/categories", admin(h.CreateCategory))
	mux.Handle("PUT /api/categories/{id}", admin(h.UpdateCategory))
	mux.Handle("DELETE /api/categories/{id}", admin(h.DeleteCategory))

	mux.HandleFunc("GET /api/products/{id}/reviews", h.ListProductReviews)
	mux.HandleFunc("POST /api/product-reviews", h.CreateReview)
	mux.Handle("DELETE /api/product-reviews/{id}", admin(h.DeleteReview))

	// Orders.
	mux.HandleFunc("POST /api/orders", h.PlaceOrder)
	mux.HandleFunc("GET /api/orders", h.ListOrders)

	// Reference data.
	mux.HandleFunc("GET /api/coupons/{code}", h.GetCoupon)
	mux.Handle("GET /api/coupons", admin(h.ListCoupons))
	mux.Handle("POST /api/coupons", admin(h.CreateCoupon))
	mux.Handle("DELETE /api/coupons/{code}", admin(h.DeleteCoupon))

	mux.HandleFunc("GET /api/districts", h.ListDistricts)
	mux.Handle("POST /api/districts", admin(h.CreateDistrict))
	mux.Handle("DELETE /api/districts/{id}", admin(h.DeleteDistrict))

	mux.HandleFunc("POST /api/contact", h.CreateContactMessage)

	return mux
}

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Code: status, Message: message})
}

// respondInternal logs the unexpected error and returns a generic 500.
// Store-level failures propagate here untranslated.
func respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// decodeBody decodes a JSON request body into dest, tolerating an empty body.
func decodeBody(r *http.Request, dest any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dest)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
