package handlers

import (
	"context"
	"net/http"

	"authgate/internal/validation"
)

// ContactMailer is the slice of the mail gateway the contact relay needs
type ContactMailer interface {
	IsEnabled() bool
	SendContactEmail(ctx context.Context, fromEmail, fromName, message string) error
}

// ContactHandler relays contact-form submissions to the site operator
type ContactHandler struct {
	mailer ContactMailer
}

// NewContactHandler creates a new contact handler
func NewContactHandler(mailer ContactMailer) *ContactHandler {
	return &ContactHandler{mailer: mailer}
}

// Submit handles POST /contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	values, err := parseRequestValues(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	name := values["name"]
	email := values["email"]
	message := values["message"]
	if name == "" || email == "" || message == "" {
		respondJSONError(w, http.StatusBadRequest, "Name, email and message are required", "", nil)
		return
	}
	if err := validation.ValidateEmail(email); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid email format", "", nil)
		return
	}

	if err := h.mailer.SendContactEmail(r.Context(), email, name, message); err != nil {
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError, "Contact relay failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": MsgContactThanks})
}
