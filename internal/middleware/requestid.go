package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/bookly-project/bookly/internal/logging"
)

type contextKey string

// RequestID propagates an incoming X-Request-ID header or generates a fresh
// UUID, storing it in the request context and echoing it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from the context, or "" if absent.
func GetRequestID(ctx context.Context) string {
	return logging.RequestIDFromContext(ctx)
}
