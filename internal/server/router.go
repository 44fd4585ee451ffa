package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookly-project/bookly/internal/handlers"
	"github.com/bookly-project/bookly/internal/metrics"
	"github.com/bookly-project/bookly/internal/middleware"
	"github.com/bookly-project/bookly/internal/models"
)

// NewRouter constructs a ServeMux with all API routes registered. Routes
// use Go 1.22+ method routing; the guards wrap individual handlers rather
// than whole subtrees so public endpoints stay public.
func NewRouter(
	auth *handlers.AuthHandler,
	books *handlers.BookHandler,
	reviews *handlers.ReviewHandler,
	m *middleware.AuthMiddleware,
) http.Handler {
	mux := http.NewServeMux()

	// Any signed-in account may use the book and review endpoints.
	member := m.RequireRole(models.RoleAdmin, models.RoleUser)

	// Authentication endpoints
	mux.HandleFunc("POST /api/v1/auth/signup", auth.Signup)
	mux.HandleFunc("GET /api/v1/auth/verify/{token}", auth.VerifyEmail)
	mux.HandleFunc("POST /api/v1/auth/login", auth.Login)
	mux.HandleFunc("GET /api/v1/auth/refresh_token", m.RequireToken(middleware.RefreshToken, auth.RefreshToken))
	mux.HandleFunc("GET /api/v1/auth/logout", m.RequireToken(middleware.AccessToken, auth.Logout))
	mux.HandleFunc("GET /api/v1/auth/me", member(auth.Me))
	mux.HandleFunc("POST /api/v1/auth/password-reset-request", auth.PasswordResetRequest)
	mux.HandleFunc("POST /api/v1/auth/password-reset/{token}", auth.PasswordResetConfirm)

	// Book endpoints
	mux.HandleFunc("POST /api/v1/books", member(books.CreateBook))
	mux.HandleFunc("GET /api/v1/books", member(books.ListBooks))
	mux.HandleFunc("GET /api/v1/books/{uid}", member(books.GetBook))
	mux.HandleFunc("PATCH /api/v1/books/{uid}", member(books.UpdateBook))
	mux.HandleFunc("DELETE /api/v1/books/{uid}", member(books.DeleteBook))

	// Review endpoints
	mux.HandleFunc("POST /api/v1/books/{uid}/reviews", member(reviews.AddReview))
	mux.HandleFunc("GET /api/v1/books/{uid}/reviews", member(reviews.ListReviews))
	mux.HandleFunc("DELETE /api/v1/reviews/{uid}", member(reviews.DeleteReview))

	// Health check and metrics
	mux.HandleFunc("GET /healthz", auth.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := instrument(mux)
	handler = middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	})(handler)
	return middleware.RequestID(handler)
}

func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		metrics.RequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
