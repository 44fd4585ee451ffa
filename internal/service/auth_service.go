package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bookly-project/bookly/internal/blocklist"
	"github.com/bookly-project/bookly/internal/errs"
	"github.com/bookly-project/bookly/internal/hash"
	"github.com/bookly-project/bookly/internal/logging"
	"github.com/bookly-project/bookly/internal/mail"
	"github.com/bookly-project/bookly/internal/metrics"
	"github.com/bookly-project/bookly/internal/models"
	"github.com/bookly-project/bookly/internal/repository"
	"github.com/bookly-project/bookly/pkg/tokens"
)

// AuthService orchestrates signup, login, logout, token refresh, email
// verification, and password reset. All state lives in the repository, the
// blocklist, and the tokens themselves; the service holds only read-only
// configuration after construction.
type AuthService struct {
	repo      repository.Repository
	codec     *tokens.Codec
	links     *tokens.URLSafeSigner
	blocklist blocklist.Store
	mailer    mail.Mailer
	domain    string
}

func NewAuthService(
	repo repository.Repository,
	codec *tokens.Codec,
	links *tokens.URLSafeSigner,
	bl blocklist.Store,
	mailer mail.Mailer,
	domain string,
) *AuthService {
	return &AuthService{
		repo:      repo,
		codec:     codec,
		links:     links,
		blocklist: bl,
		mailer:    mailer,
		domain:    domain,
	}
}

// Signup creates a new account with role "user" and dispatches a
// verification link. The password hash never leaves the repository layer.
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, errs.ErrUserAlreadyExists
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	uid, _ := uuid.NewV7()
	now := time.Now()
	user := &models.User{
		UID:          uid.String(),
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleUser,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	metrics.SignupsTotal.Inc()

	token := s.links.Sign(user.Email, tokens.PurposeEmailVerification)
	link := fmt.Sprintf("http://%s/api/v1/auth/verify/%s", s.domain, token)
	body := fmt.Sprintf(`<h1>Welcome to Bookly</h1>
<p>Click the link to verify your email.</p>
<a href=%q>Verify Email</a>`, link)
	s.dispatchMail(ctx, user.Email, "Verify your email", body)

	return user, nil
}

// VerifyEmail consumes a url-safe verification token and marks the account
// verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	email, ok := s.links.Verify(token, tokens.PurposeEmailVerification)
	if !ok {
		return errs.ErrInvalidToken
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	verified := true
	return s.repo.UpdateUser(ctx, user.UID, models.UserUpdate{IsVerified: &verified})
}

// Login checks credentials and issues an access/refresh token pair. The
// refresh token omits the role claim; renewal picks the role up again from
// the user record.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, errs.ErrInvalidCredentials
	}

	if !hash.VerifyPassword(req.Password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, errs.ErrInvalidCredentials
	}

	identity := tokens.UserClaims{
		Email:   user.Email,
		UserUID: user.UID,
		Role:    user.Role,
	}

	accessToken, err := s.codec.EncodeAccess(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refreshToken, err := s.codec.EncodeRefresh(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	slog.Info("login", logging.Email(user.Email), logging.UserUID(user.UID))

	return &models.LoginResponse{
		Message:      "Login successful",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         models.LoginUserRef{Email: user.Email, UserUID: user.UID},
	}, nil
}

// Refresh issues a new access token from validated refresh-token claims.
// The embedded expiry is re-checked here as defense in depth beyond the
// codec, and the user record is re-read so the new access token carries the
// current role rather than whatever the refresh token was issued with.
func (s *AuthService) Refresh(ctx context.Context, claims *tokens.SessionClaims) (string, error) {
	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
		return "", errs.ErrTokenExpired
	}

	user, err := s.repo.GetUserByEmail(ctx, claims.User.Email)
	if err != nil {
		return "", err
	}

	return s.codec.EncodeAccess(tokens.UserClaims{
		Email:   user.Email,
		UserUID: user.UID,
		Role:    user.Role,
	})
}

// Logout records the access token's jti in the blocklist. Revoking an
// already revoked token succeeds, which keeps retries harmless.
func (s *AuthService) Logout(ctx context.Context, jti string) error {
	if err := s.blocklist.Record(ctx, jti); err != nil {
		return err
	}
	metrics.RevocationsTotal.Inc()
	slog.Info("token revoked", logging.JTI(jti))
	return nil
}

// PasswordResetRequest dispatches a reset link to a registered email.
func (s *AuthService) PasswordResetRequest(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	token := s.links.Sign(user.Email, tokens.PurposePasswordReset)
	link := fmt.Sprintf("http://%s/api/v1/auth/password-reset/%s", s.domain, token)
	body := fmt.Sprintf(`<h1>Reset your password</h1>
<p>Click the link to reset your password.</p>
<a href=%q>Reset Password</a>`, link)
	s.dispatchMail(ctx, user.Email, "Reset your password", body)

	return nil
}

// PasswordResetConfirm consumes a reset token and stores a new password
// hash.
func (s *AuthService) PasswordResetConfirm(ctx context.Context, token, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return errs.ErrPasswordMismatch
	}

	email, ok := s.links.Verify(token, tokens.PurposePasswordReset)
	if !ok {
		return errs.ErrInvalidToken
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	passwordHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.UpdateUser(ctx, user.UID, models.UserUpdate{PasswordHash: &passwordHash})
}

// CurrentUser resolves access-token claims to a stored user record. The
// role guard and the /me endpoint go through here.
func (s *AuthService) CurrentUser(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

// IsRevoked exposes the blocklist check for the token guard.
func (s *AuthService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.blocklist.IsRevoked(ctx, jti)
}

// Decode exposes the codec for the token guard.
func (s *AuthService) Decode(token string) (*tokens.SessionClaims, error) {
	return s.codec.Decode(token)
}

// Mail failures are logged and dropped: verification and reset links can be
// re-requested, and failing the parent operation would leave signup state
// half-visible to the caller.
func (s *AuthService) dispatchMail(ctx context.Context, to, subject, body string) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.Send(ctx, mail.Message{To: []string{to}, Subject: subject, Body: body}); err != nil {
		slog.Error("mail dispatch failed",
			logging.Email(to),
			slog.String("subject", subject),
			logging.Error(err),
		)
	}
}
