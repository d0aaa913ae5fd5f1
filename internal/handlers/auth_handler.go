package handlers

import (
	"errors"
	"net/http"

	"authgate/internal/security"
	"authgate/internal/service"
	"authgate/internal/validation"
)

// AuthHandler handles registration, login and logout requests
type AuthHandler struct {
	authService *service.AuthService
	signer      *security.CookieSigner
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, signer *security.CookieSigner) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		signer:      signer,
	}
}

// Register handles POST /register. Success is 201 with a plain text body;
// validation problems are 400; a duplicate email is a 409 conflict.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	values, err := parseRequestValues(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	_, err = h.authService.Register(r.Context(),
		values["name"],
		values["email"],
		values["password"],
		values["confirm_password"],
	)
	if err != nil {
		var validationErr validation.ValidationError
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondWithError(w, http.StatusBadRequest, "All fields are required", "", nil)
		case errors.Is(err, service.ErrPasswordMismatch):
			respondWithError(w, http.StatusBadRequest, "Passwords do not match", "", nil)
		case errors.As(err, &validationErr):
			respondWithError(w, http.StatusBadRequest, validationErr.Message, "", nil)
		case errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, http.StatusConflict, ErrRegisterConflict, "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Registration failed", err)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte(MsgRegistered))
}

// Login handles POST /login. Unknown emails and wrong passwords produce
// an identical 401 response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	values, err := parseRequestValues(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	session, user, err := h.authService.Login(r.Context(), values["email"], values["password"])
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondJSONError(w, http.StatusBadRequest, "Email and password are required", "", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondJSONError(w, http.StatusUnauthorized, ErrInvalidCredentials, "", nil)
		default:
			respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError, "Login failed", err)
		}
		return
	}

	cookieValue := h.signer.Sign(session.ID)
	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, cookieValue, session.ExpiresAt))

	respondJSON(w, http.StatusOK, map[string]string{
		"message":  MsgLoginSuccess,
		"redirect": "/index.html",
		"name":     user.Name,
	})
}

// Logout handles GET /logout: the session is destroyed and the client is
// sent back to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if sessionID, err := h.signer.Verify(cookie.Value); err == nil {
			_ = h.authService.Logout(r.Context(), sessionID)
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	http.Redirect(w, r, "/login.html", http.StatusSeeOther)
}
