package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateSessionID creates a new UUID for session identification
func GenerateSessionID() string {
	return uuid.New().String()
}

// CookieSigner signs session cookie values with HMAC-SHA256 so that forged
// session IDs are rejected before any store lookup. Signatures are derived
// deterministically from the session ID and a secret key, so no shared
// state is required across replicas.
type CookieSigner struct {
	secret []byte
}

// NewCookieSigner creates a signer from the configured session secret
func NewCookieSigner(secret string) *CookieSigner {
	return &CookieSigner{secret: []byte(secret)}
}

// Sign returns the cookie value for a session ID: "<id>.<hmac>"
func (s *CookieSigner) Sign(sessionID string) string {
	return sessionID + "." + s.signature(sessionID)
}

// Verify parses a cookie value and returns the embedded session ID if the
// signature is valid.
func (s *CookieSigner) Verify(value string) (string, error) {
	sessionID, sig, ok := strings.Cut(value, ".")
	if !ok || sessionID == "" {
		return "", fmt.Errorf("malformed session cookie")
	}
	expected := s.signature(sessionID)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return "", fmt.Errorf("invalid session cookie signature")
	}
	return sessionID, nil
}

func (s *CookieSigner) signature(sessionID string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(sessionID))
	return hex.EncodeToString(mac.Sum(nil))
}

// IsSecureRequest determines if the request is over HTTPS.
// Checks TLS connection, X-Forwarded-Proto header (for reverse proxies), and URL scheme.
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	if r.URL.Scheme == "https" {
		return true
	}
	return false
}

// CreateSessionCookie creates a session cookie with proper security flags.
// The Secure flag is set based on the request scheme.
func CreateSessionCookie(r *http.Request, name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// CreateDeleteCookie creates a cookie that clears the named cookie
func CreateDeleteCookie(r *http.Request, name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
	}
}
