package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/evermart/shop-api/internal/cache"
	"github.com/evermart/shop-api/internal/domain/category"
)

type categoryResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Featured bool   `json:"featured"`
}

type categoryRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Featured bool   `json:"featured"`
}

// ListCategories returns all categories, read-through cached.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached []categoryResponse
	if hit, _ := h.cache.GetJSON(ctx, cache.KeyCategoryList, &cached); hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	list, err := h.categories.List(ctx)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	resp := categoriesResponse(list)
	h.cache.SetJSON(ctx, cache.KeyCategoryList, resp)
	respondJSON(w, http.StatusOK, resp)
}

// ListFeaturedCategories returns categories flagged for the storefront
// landing page, read-through cached.
func (h *Handler) ListFeaturedCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached []categoryResponse
	if hit, _ := h.cache.GetJSON(ctx, cache.KeyFeaturedCategories, &cached); hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	list, err := h.categories.ListFeatured(ctx)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	resp := categoriesResponse(list)
	h.cache.SetJSON(ctx, cache.KeyFeaturedCategories, resp)
	respondJSON(w, http.StatusOK, resp)
}

// ListCategoryProducts returns the products of one category addressed by
// slug, cached per slug.
func (h *Handler) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.PathValue("slug")
	key := cache.KeyCategoryProducts + ":" + slug

	var cached []productResponse
	if hit, _ := h.cache.GetJSON(ctx, key, &cached); hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	c, err := h.categories.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			respondError(w, http.StatusNotFound, "category not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	list, err := h.products.ListByCategory(ctx, c.Slug)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	resp := productsResponse(list)
	h.cache.SetJSON(ctx, key, resp)
	respondJSON(w, http.StatusOK, resp)
}

// CreateCategory persists a new category and invalidates category caches.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Slug == "" {
		respondError(w, http.StatusBadRequest, "name and slug are required")
		return
	}

	c := category.Category{Name: req.Name, Slug: req.Slug, Featured: req.Featured}
	if err := h.categories.Create(r.Context(), &c); err != nil {
		respondInternal(w, r, err)
		return
	}
	h.cache.InvalidateCategories(r.Context())
	respondJSON(w, http.StatusCreated, toCategoryResponse(c))
}

// UpdateCategory overwrites a category and invalidates category caches.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := category.Category{ID: id, Name: req.Name, Slug: req.Slug, Featured: req.Featured}
	if err := h.categories.Update(r.Context(), &c); err != nil {
		if errors.Is(err, category.ErrNotFound) {
			respondError(w, http.StatusNotFound, "category not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	h.cache.InvalidateCategories(r.Context())
	respondJSON(w, http.StatusOK, toCategoryResponse(c))
}

// DeleteCategory removes a category and invalidates category caches.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		if errors.Is(err, category.ErrNotFound) {
			respondError(w, http.StatusNotFound, "category not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	h.cache.InvalidateCategories(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func toCategoryResponse(c category.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, Featured: c.Featured}
}

func categoriesResponse(list []category.Category) []categoryResponse {
	out := make([]categoryResponse, len(list))
	for i, c := range list {
		out[i] = toCategoryResponse(c)
	}
	return out
}
