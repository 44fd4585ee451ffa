package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bookly-project/bookly/internal/errs"
	"github.com/bookly-project/bookly/internal/httputil"
	"github.com/bookly-project/bookly/internal/logging"
	"github.com/bookly-project/bookly/internal/middleware"
	"github.com/bookly-project/bookly/internal/models"
	"github.com/bookly-project/bookly/internal/service"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
		return
	}

	user, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.SignupResponse{
		Message: "User created successfully. Please verify your account.",
		User:    user,
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if err := h.service.VerifyEmail(r.Context(), token); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Account verified successfully"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		slog.Warn("login rejected",
			logging.Email(req.Email),
			logging.ClientIP(httputil.GetClientIP(r)),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// RefreshToken runs behind the refresh guard; the claims in context are
// already signature-checked, unrevoked, and refresh-kind.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		httputil.WriteError(w, errs.ErrRefreshTokenRequired)
		return
	}

	accessToken, err := h.service.Refresh(r.Context(), claims)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.RefreshResponse{AccessToken: accessToken})
}

// Logout runs behind the access guard.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		httputil.WriteError(w, errs.ErrAccessTokenRequired)
		return
	}

	if err := h.service.Logout(r.Context(), claims.ID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Logged out successfully"})
}

// Me runs behind the role guard, which has already resolved the user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, errs.ErrAccessTokenRequired)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) PasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
		return
	}

	if err := h.service.PasswordResetRequest(r.Context(), req.Email); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Password reset link sent successfully"})
}

func (h *AuthHandler) PasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	var req models.PasswordResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
		return
	}

	if err := h.service.PasswordResetConfirm(r.Context(), token, req.NewPassword, req.ConfirmNewPassword); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Password reset successfully"})
}

func (h *AuthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
