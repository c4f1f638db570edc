package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/evermart/shop-api/internal/cache"
	"github.com/evermart/shop-api/internal/domain/product"
)

// productResponse is the catalog item wire shape.
type productResponse struct {
	ID                 int64           `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Rating             decimal.Decimal `json:"rating"`
	Stock              int             `json:"stock"`
	Brand              string          `json:"brand"`
	SKU                string          `json:"sku"`
	Thumbnail          string          `json:"thumbnail"`
	AvailabilityStatus string          `json:"availability_status"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type productRequest struct {
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Rating             decimal.Decimal `json:"rating"`
	Stock              int             `json:"stock"`
	Brand              string          `json:"brand"`
	SKU                string          `json:"sku"`
	Thumbnail          string          `json:"thumbnail"`
	AvailabilityStatus string          `json:"availability_status"`
}

// ListProducts returns the full catalog, read-through cached.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached []productResponse
	if hit, _ := h.cache.GetJSON(ctx, cache.KeyProductList, &cached); hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	list, err := h.products.List(ctx)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	resp := productsResponse(list)
	h.cache.SetJSON(ctx, cache.KeyProductList, resp)
	respondJSON(w, http.StatusOK, resp)
}

// GetProduct returns a single product by id.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(*p))
}

// ListTopSelling returns the curated top sellers, read-through cached.
func (h *Handler) ListTopSelling(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached []productResponse
	if hit, _ := h.cache.GetJSON(ctx, cache.KeyTopSelling, &cached); hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	list, err := h.products.ListTopSelling(ctx)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	resp := productsResponse(list)
	h.cache.SetJSON(ctx, cache.KeyTopSelling, resp)
	respondJSON(w, http.StatusOK, resp)
}

// CreateProduct persists a new catalog item and invalidates derived caches.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.SKU == "" {
		respondError(w, http.StatusBadRequest, "title and sku are required")
		return
	}

	p := requestToProduct(req)
	if err := h.products.Create(r.Context(), &p); err != nil {
		respondInternal(w, r, err)
		return
	}
	h.cache.InvalidateProducts(r.Context())
	respondJSON(w, http.StatusCreated, toProductResponse(p))
}

// UpdateProduct overwrites a catalog item and invalidates derived caches.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := requestToProduct(req)
	p.ID = id
	if err := h.products.Update(r.Context(), &p); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	h.cache.InvalidateProducts(r.Context())
	respondJSON(w, http.StatusOK, toProductResponse(p))
}

// DeleteProduct removes a catalog item and invalidates derived caches.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	h.cache.InvalidateProducts(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func requestToProduct(req productRequest) product.Product {
	return product.Product{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		Price:              req.Price,
		DiscountPercentage: req.DiscountPercentage,
		Rating:             req.Rating,
		Stock:              req.Stock,
		Brand:              req.Brand,
		SKU:                req.SKU,
		Thumbnail:          req.Thumbnail,
		AvailabilityStatus: req.AvailabilityStatus,
	}
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Category:           p.Category,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		Rating:             p.Rating,
		Stock:              p.Stock,
		Brand:              p.Brand,
		SKU:                p.SKU,
		Thumbnail:          p.Thumbnail,
		AvailabilityStatus: p.AvailabilityStatus,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func productsResponse(list []product.Product) []productResponse {
	out := make([]productResponse, len(list))
	for i, p := range list {
		out[i] = toProductResponse(p)
	}
	return out
}
