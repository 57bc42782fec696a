package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rentora/rentora/internal/auth"
	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/http/middleware"
	"github.com/rentora/rentora/internal/httputil"
	"github.com/rentora/rentora/internal/service"
)

// Handler handles registration, login and session endpoints.
type Handler struct {
	logger    *slog.Logger
	passwords *auth.PasswordService
	sessions  *auth.SessionService
	mfa       *auth.MFAService // nil when MFA is not configured
	activity  service.ActivityRecorder
	cookies   httputil.CookieConfig
}

// NewHandler creates a new auth handler. mfa may be nil.
func NewHandler(logger *slog.Logger, passwords *auth.PasswordService, sessions *auth.SessionService, mfa *auth.MFAService, activity service.ActivityRecorder, cookies httputil.CookieConfig) *Handler {
	return &Handler{
		logger:    logger,
		passwords: passwords,
		sessions:  sessions,
		mfa:       mfa,
		activity:  activity,
		cookies:   cookies,
	}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfa_code,omitempty"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// MFACodeRequest carries a TOTP code.
type MFACodeRequest struct {
	Code string `json:"code"`
}

// UserResponse is the JSON shape of a user.
type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role"`
	MFAEnabled bool   `json:"mfa_enabled"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		MFAEnabled: u.MFAEnabled,
	}
}

// LoginResponse bundles the token pair with the user.
type LoginResponse struct {
	*domain.TokenPair
	User UserResponse `json:"user"`
}

// Register handles user registration.
// POST /v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.passwords.Register(r.Context(), req.Email, req.Password, req.Name, domain.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail),
			errors.Is(err, domain.ErrWeakPassword),
			errors.Is(err, domain.ErrInvalidRole):
			httputil.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrUserAlreadyExists):
			httputil.Error(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("registration failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.activity.Record(r.Context(), &user.ID, "user.registered", "", map[string]string{
		"role": string(user.Role),
	})

	httputil.JSON(w, http.StatusCreated, toUserResponse(user))
}

// Login handles password login, with a TOTP step for MFA-enabled accounts.
// POST /v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.passwords.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			httputil.Error(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, domain.ErrAccountLocked):
			httputil.Error(w, http.StatusForbidden, err.Error())
		default:
			h.logger.Error("login failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	if user.MFAEnabled {
		if h.mfa == nil {
			h.logger.Error("mfa enabled for user but service not configured", "user_id", user.ID)
			httputil.Error(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if req.MFACode == "" {
			httputil.Error(w, http.StatusUnauthorized, "mfa code required")
			return
		}
		if err := h.mfa.Verify(r.Context(), user.ID, req.MFACode); err != nil {
			httputil.Error(w, http.StatusUnauthorized, domain.ErrMFACodeInvalid.Error())
			return
		}
	}

	pair, err := h.sessions.IssueSession(r.Context(), user.ID, auth.IssueSessionOpts{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.logger.Error("session issue failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.SetAuthCookies(w, pair.AccessToken, pair.RefreshToken,
		h.sessions.AccessTokenTTL(), h.sessions.RefreshTokenTTL(), h.cookies)

	h.activity.Record(r.Context(), &user.ID, "user.login", "", nil)

	httputil.JSON(w, http.StatusOK, LoginResponse{TokenPair: pair, User: toUserResponse(user)})
}

// Refresh handles access token renewal from a refresh token. The token comes
// from the body or the refresh cookie.
// POST /v1/auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	token := req.RefreshToken
	if token == "" {
		token, _ = httputil.GetRefreshTokenFromCookie(r)
	}
	if token == "" {
		httputil.Error(w, http.StatusBadRequest, "refresh token is required")
		return
	}

	pair, err := h.sessions.RefreshSession(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound),
			errors.Is(err, domain.ErrSessionExpired),
			errors.Is(err, domain.ErrSessionRevoked):
			httputil.Error(w, http.StatusUnauthorized, err.Error())
		default:
			h.logger.Error("refresh failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	httputil.SetAuthCookies(w, pair.AccessToken, pair.RefreshToken,
		h.sessions.AccessTokenTTL(), h.sessions.RefreshTokenTTL(), h.cookies)

	httputil.JSON(w, http.StatusOK, pair)
}

// Logout revokes the current session and clears cookies.
// POST /v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	token := req.RefreshToken
	if token == "" {
		token, _ = httputil.GetRefreshTokenFromCookie(r)
	}
	if token != "" {
		if err := h.sessions.RevokeSession(r.Context(), token); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			h.logger.Warn("session revoke failed", "error", err)
		}
	}

	httputil.ClearAuthCookies(w, h.cookies)
	httputil.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// LogoutAll revokes every session of the authenticated user.
// POST /v1/auth/logout-all
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	if err := h.sessions.RevokeAllSessions(r.Context(), userID); err != nil {
		h.logger.Error("revoke all sessions failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.ClearAuthCookies(w, h.cookies)
	httputil.JSON(w, http.StatusOK, map[string]string{"message": "all sessions revoked"})
}

// Me returns the authenticated user.
// GET /v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	user, err := h.passwords.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			httputil.Error(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("user lookup failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.JSON(w, http.StatusOK, toUserResponse(user))
}

// ChangePassword verifies the current password, sets the new one, and revokes
// all other sessions.
// POST /v1/auth/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.passwords.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("user lookup failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if _, err := h.passwords.Authenticate(r.Context(), user.Email, req.CurrentPassword); err != nil {
		httputil.Error(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	if err := h.passwords.ChangePassword(r.Context(), userID, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrWeakPassword) {
			httputil.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("password change failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.sessions.RevokeAllSessions(r.Context(), userID); err != nil {
		h.logger.Warn("session revocation after password change failed", "error", err)
	}

	h.activity.Record(r.Context(), &userID, "user.password_changed", "", nil)

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// MFASetup starts TOTP enrolment and returns the provisioning URL.
// POST /v1/auth/mfa/setup
func (h *Handler) MFASetup(w http.ResponseWriter, r *http.Request) {
	if h.mfa == nil {
		httputil.Error(w, http.StatusNotImplemented, "mfa is not configured")
		return
	}
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	url, err := h.mfa.Setup(r.Context(), userID)
	if err != nil {
		h.logger.Error("mfa setup failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"otpauth_url": url})
}

// MFAEnable confirms enrolment with a code from the authenticator app.
// POST /v1/auth/mfa/enable
func (h *Handler) MFAEnable(w http.ResponseWriter, r *http.Request) {
	h.mfaCodeEndpoint(w, r, "user.mfa_enabled", func(r *http.Request, code string) error {
		userID, _ := middleware.GetUserID(r.Context())
		return h.mfa.Enable(r.Context(), userID, code)
	})
}

// MFADisable removes MFA from the account after verifying a code.
// POST /v1/auth/mfa/disable
func (h *Handler) MFADisable(w http.ResponseWriter, r *http.Request) {
	h.mfaCodeEndpoint(w, r, "user.mfa_disabled", func(r *http.Request, code string) error {
		userID, _ := middleware.GetUserID(r.Context())
		return h.mfa.Disable(r.Context(), userID, code)
	})
}

func (h *Handler) mfaCodeEndpoint(w http.ResponseWriter, r *http.Request, action string, fn func(*http.Request, string) error) {
	if h.mfa == nil {
		httputil.Error(w, http.StatusNotImplemented, "mfa is not configured")
		return
	}
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	var req MFACodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		httputil.Error(w, http.StatusBadRequest, "code is required")
		return
	}

	if err := fn(r, req.Code); err != nil {
		switch {
		case errors.Is(err, domain.ErrMFACodeInvalid), errors.Is(err, domain.ErrMFANotEnrolled):
			httputil.Error(w, http.StatusUnauthorized, err.Error())
		default:
			h.logger.Error("mfa request failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.activity.Record(r.Context(), &userID, action, "", nil)

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "ok"})
}
