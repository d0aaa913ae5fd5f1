package handlers

import (
	"log"
	"net/http"
	"time"

	"authgate/internal/models"
	"authgate/internal/security"
	"authgate/internal/service"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	signer      *security.CookieSigner
	limiter     *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, signer *security.CookieSigner, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		signer:      signer,
		limiter:     limiter,
	}
}

// RateLimit rejects requests from clients that exceed the configured
// request-rate ceiling
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			respondJSONError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// SessionUser returns the user behind the request's session cookie, or nil
// when there is no valid session. The cookie signature is checked before
// any store lookup.
func (m *Middleware) SessionUser(r *http.Request) *models.User {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}

	sessionID, err := m.signer.Verify(cookie.Value)
	if err != nil {
		return nil
	}

	user, err := m.authService.ValidateSession(r.Context(), sessionID)
	if err != nil {
		return nil
	}
	return user
}

// SecurityHeaders sets baseline security headers on every response
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
