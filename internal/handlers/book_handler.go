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

type BookHandler struct {
	service *service.BookService
}

func NewBookHandler(service *service.BookService) *BookHandler {
	return &BookHandler{service: service}
}

func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, errs.ErrAccessTokenRequired)
		return
	}

	var req models.BookCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
		return
	}

	book, err := h.service.CreateBook(r.Context(), &req, user.UID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, book)
}

func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListBooks(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if books == nil {
		books = []*models.Book{}
	}
	httputil.WriteJSON(w, http.StatusOK, books)
}

func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.GetBook(r.Context(), r.PathValue("uid"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, book)
}

func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var req models.BookUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
		return
	}

	book, err := h.service.UpdateBook(r.Context(), r.PathValue("uid"), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, book)
}

func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBook(r.Context(), r.PathValue("uid")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Book deleted successfully"})
}
