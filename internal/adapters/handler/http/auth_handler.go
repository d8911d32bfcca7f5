package http

import (
	"net/http"
	"time"

	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

const (
	refreshCookieName = "refreshToken"
	refreshCookiePath = "/api/auth"
)

type CookieConfig struct {
	// Secure is set in production.
	Secure bool
	MaxAge time.Duration
}

type AuthHandler struct {
	auth    ports.AuthService
	cookies CookieConfig
	logger  logging.Logger
}

func NewAuthHandler(auth ports.AuthService, cookies CookieConfig, logger logging.Logger) *AuthHandler {
	if cookies.MaxAge <= 0 {
		cookies.MaxAge = 30 * 24 * time.Hour
	}
	return &AuthHandler{auth: auth, cookies: cookies, logger: logger.With("component", "auth_handler")}
}

type signupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Username        string `json:"username"`
	Role            string `json:"role"`
	IsEmailVerified bool   `json:"is_email_verified"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	Credential string `json:"credential"`
}

type authResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type profileResponse struct {
	User *domain.User `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.auth.Signup(r.Context(), ports.SignupInput{
		Email:           req.Email,
		Password:        req.Password,
		Username:        req.Username,
		Role:            req.Role,
		IsEmailVerified: req.IsEmailVerified,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.writeAuthResult(w, http.StatusCreated, "User created successfully", result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.auth.Login(r.Context(), ports.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.writeAuthResult(w, http.StatusOK, "Login successful", result)
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Credential == "" {
		writeError(w, r, h.logger, domain.NewValidationError("credential", "Google credential is required"))
		return
	}

	result, err := h.auth.LoginWithGoogle(r.Context(), req.Credential)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.writeAuthResult(w, http.StatusOK, "Google login successful", result)
}

// RefreshToken rotates the refresh cookie and returns a new access token.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		respondError(w, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	pair, err := h.auth.RefreshAccessToken(r.Context(), cookie.Value)
	if err != nil {
		h.clearRefreshCookie(w)
		writeError(w, r, h.logger, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	respond(w, http.StatusOK, "Token refreshed successfully", tokenResponse{
		AccessToken: pair.AccessToken,
		ExpiresIn:   pair.ExpiresIn,
	})
}

func (h *AuthHandler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		respondError(w, http.StatusBadRequest, "No refresh token found")
		return
	}

	if err := h.auth.RevokeToken(r.Context(), cookie.Value); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.clearRefreshCookie(w)
	respond(w, http.StatusOK, "Token revoked successfully", nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		if err := h.auth.RevokeToken(r.Context(), cookie.Value); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}

	h.clearRefreshCookie(w)
	respond(w, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token is required")
		return
	}

	user, err := h.auth.GetProfile(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	respond(w, http.StatusOK, "Profile retrieved successfully", profileResponse{User: user})
}

func (h *AuthHandler) RevokeAllTokens(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token is required")
		return
	}

	if err := h.auth.RevokeAllTokens(r.Context(), principal.UserID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.clearRefreshCookie(w)
	respond(w, http.StatusOK, "All tokens revoked successfully", nil)
}

func (h *AuthHandler) writeAuthResult(w http.ResponseWriter, status int, message string, result *ports.AuthResult) {
	h.setRefreshCookie(w, result.Tokens.RefreshToken)
	respond(w, status, message, authResponse{
		User:        result.User,
		AccessToken: result.Tokens.AccessToken,
		ExpiresIn:   result.Tokens.ExpiresIn,
	})
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.cookies.MaxAge.Seconds()),
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
