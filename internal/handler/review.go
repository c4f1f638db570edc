package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"

	"github.com/evermart/shop-api/internal/domain/product"
	"github.com/evermart/shop-api/internal/domain/review"
)

type reviewResponse struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"product_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	ReviewerName  string    `json:"reviewer_name"`
	ReviewerEmail string    `json:"reviewer_email"`
	CreatedAt     time.Time `json:"created_at"`
}

type reviewRequest struct {
	ProductID     int64  `json:"product_id"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	ReviewerName  string `json:"reviewer_name"`
	ReviewerEmail string `json:"reviewer_email"`
}

// ListProductReviews returns reviews for one product.
func (h *Handler) ListProductReviews(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	list, err := h.reviews.ListByProduct(r.Context(), id)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	out := make([]reviewResponse, len(list))
	for i, rv := range list {
		out[i] = toReviewResponse(rv)
	}
	respondJSON(w, http.StatusOK, out)
}

// CreateReview records a customer review and invalidates the product caches
// that embed rating data.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rv := review.Review{
		ProductID:     req.ProductID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		ReviewerName:  req.ReviewerName,
		ReviewerEmail: req.ReviewerEmail,
	}
	if err := rv.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.products.GetByID(r.Context(), req.ProductID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusBadRequest, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	if err := h.reviews.Create(r.Context(), &rv); err != nil {
		respondInternal(w, r, err)
		return
	}
	h.cache.InvalidateReviews(r.Context())
	respondJSON(w, http.StatusCreated, toReviewResponse(rv))
}

// DeleteReview removes a review.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid review id")
		return
	}

	if err := h.reviews.Delete(r.Context(), id); err != nil {
		if errors.Is(err, review.ErrNotFound) {
			respondError(w, http.StatusNotFound, "review not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	h.cache.InvalidateReviews(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func toReviewResponse(rv review.Review) reviewResponse {
	return reviewResponse{
		ID:            rv.ID,
		ProductID:     rv.ProductID,
		Rating:        rv.Rating,
		Comment:       rv.Comment,
		ReviewerName:  rv.ReviewerName,
		ReviewerEmail: rv.ReviewerEmail,
		CreatedAt:     rv.CreatedAt,
	}
}
