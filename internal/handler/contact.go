package handler

import (
	"net/http"
	"strings"

	"github.com/evermart/shop-api/internal/domain/contact"
)

type contactRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Details string `json:"details"`
}

// CreateContactMessage records a contact form submission.
func (h *Handler) CreateContactMessage(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "valid email is required")
		return
	}
	if req.Details == "" {
		respondError(w, http.StatusBadRequest, "details are required")
		return
	}

	m := contact.Message{
		Email:   req.Email,
		Subject: req.Subject,
		Details: req.Details,
		Status:  contact.StatusPending,
	}
	if err := h.contacts.Create(r.Context(), &m); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": m.ID, "status": m.Status})
}
