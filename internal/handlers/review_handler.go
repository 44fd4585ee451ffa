package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bookly-project/bookly/internal/errs"
	"github.com/bookly-project/bookly/internal/httputil"
	"github.com/bookly-project/bookly/internal/middleware"
	"github.com/bookly-project/bookly/internal/models"
	"github.com/bookly-project/bookly/internal/service"
)

type ReviewHandler struct {
	service *service.ReviewService
}

func NewReviewHandler(service *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, errs.ErrAccessTokenRequired)
		return
	}

	var req models.ReviewCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
		return
	}

	review, err := h.service.AddReview(r.Context(), user.Email, r.PathValue("uid"), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviews(r.Context(), r.PathValue("uid"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if reviews == nil {
		reviews = []*models.Review{}
	}
	httputil.WriteJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, errs.ErrAccessTokenRequired)
		return
	}

	if err := h.service.DeleteReview(r.Context(), r.PathValue("uid"), user); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Review deleted successfully"})
}
