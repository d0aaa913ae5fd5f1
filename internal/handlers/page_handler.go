package handlers

import (
	"net/http"
	"os"
	"path/filepath"
)

// PageHandler serves the static HTML pages and the custom 404 page
type PageHandler struct {
	staticPath string
	middleware *Middleware
}

// NewPageHandler creates a new page handler
func NewPageHandler(staticPath string, middleware *Middleware) *PageHandler {
	return &PageHandler{
		staticPath: staticPath,
		middleware: middleware,
	}
}

// Page returns a handler that serves the named static page
func (h *PageHandler) Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, name))
	}
}

// Home handles GET / by serving the login page
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.staticPath, "login.html"))
}

// Index handles GET /index.html: without an active session the client is
// redirected to the login page.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if h.middleware.SessionUser(r) == nil {
		http.Redirect(w, r, "/login.html", http.StatusSeeOther)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.staticPath, "index.html"))
}

// NotFound serves the custom 404 page for unmatched routes
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	body, err := os.ReadFile(filepath.Join(h.staticPath, "404.html"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(body)
}
