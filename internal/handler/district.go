package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/evermart/shop-api/internal/domain/district"
)

type districtResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// ListDistricts returns the shipping regions.
func (h *Handler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	list, err := h.districts.List(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	out := make([]districtResponse, len(list))
	for i, d := range list {
		out[i] = districtResponse{ID: d.ID, Title: d.Title}
	}
	respondJSON(w, http.StatusOK, out)
}

// CreateDistrict adds a shipping region. Admin only.
func (h *Handler) CreateDistrict(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	d := district.District{Title: req.Title}
	if err := h.districts.Create(r.Context(), &d); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, districtResponse{ID: d.ID, Title: d.Title})
}

// DeleteDistrict removes a shipping region. Admin only.
func (h *Handler) DeleteDistrict(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid district id")
		return
	}

	if err := h.districts.Delete(r.Context(), id); err != nil {
		if errors.Is(err, district.ErrNotFound) {
			respondError(w, http.StatusNotFound, "district not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
