package handlers

import (
	"errors"
	"net/http"

	"authgate/internal/service"
	"authgate/internal/validation"
)

// ResetHandler handles the password reset endpoints
type ResetHandler struct {
	resetService *service.ResetService
}

// NewResetHandler creates a new reset handler
func NewResetHandler(resetService *service.ResetService) *ResetHandler {
	return &ResetHandler{resetService: resetService}
}

// ForgotPassword handles POST /forgot-password. The 200 response body is
// identical whether or not the email belongs to an account; only a mail
// delivery or store failure produces a 500, and even that body stays
// generic.
func (h *ResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	values, err := parseRequestValues(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	_, err = h.resetService.Issue(r.Context(), values["email"])
	if err != nil {
		var validationErr validation.ValidationError
		switch {
		case errors.As(err, &validationErr):
			respondJSONError(w, http.StatusBadRequest, validationErr.Message, "", nil)
		default:
			respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError, "Password reset request failed", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": MsgForgotGeneric})
}

// ResetPassword handles POST /reset-password. Invalid and expired tokens
// produce the same generic 400.
func (h *ResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	values, err := parseRequestValues(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	token := values["token"]
	password := values["password"]
	if token == "" || password == "" {
		respondJSONError(w, http.StatusBadRequest, "Token and password are required", "", nil)
		return
	}

	if err := h.resetService.Consume(r.Context(), token, password); err != nil {
		var validationErr validation.ValidationError
		switch {
		case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrExpiredToken):
			respondJSONError(w, http.StatusBadRequest, ErrInvalidOrExpired, "", nil)
		case errors.As(err, &validationErr):
			respondJSONError(w, http.StatusBadRequest, validationErr.Message, "", nil)
		default:
			respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError, "Password reset failed", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": MsgResetSuccess})
}
