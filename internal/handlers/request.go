package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

const maxBodyBytes = 64 * 1024

// parseRequestValues reads the request body as either JSON or form data
// and returns the fields as a flat string map. All endpoint bodies here
// are shallow string objects, so one representation covers both.
func parseRequestValues(r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		values := make(map[string]string)
		if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
			return nil, err
		}
		return values, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	values := make(map[string]string, len(r.PostForm))
	for key, v := range r.PostForm {
		if len(v) > 0 {
			values[key] = v[0]
		}
	}
	return values, nil
}
