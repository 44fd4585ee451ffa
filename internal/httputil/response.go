// Package httputil holds the JSON response helpers shared by handlers and
// middleware.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bookly-project/bookly/internal/errs"
	"github.com/bookly-project/bookly/internal/models"
)

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// WriteError classifies err through the errs taxonomy and writes the
// corresponding status and machine-readable code. Unknown errors become a
// generic 500 whose body never exposes internals; the detail is logged
// server-side only.
func WriteError(w http.ResponseWriter, err error) {
	status, code, known := errs.Classify(err)
	body := models.ErrorResponse{Error: err.Error(), Code: code}
	if !known {
		slog.Error("unhandled error at http boundary", slog.String("error", err.Error()))
		body.Error = "internal server error"
	}
	WriteJSON(w, status, body)
}

// GetClientIP returns the best-effort client address, honoring proxy
// headers.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
