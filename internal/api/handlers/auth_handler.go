package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/bizdirectory/internal/api/middleware"
	"github.com/zatekoja/bizdirectory/internal/application/services"
)

const (
	resetRateLimit  = 5
	resetRateWindow = time.Hour
)

// AuthHandler exposes the auth gateway of the request session
type AuthHandler struct {
	limiter *RateLimiter
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(limiter *RateLimiter) *AuthHandler {
	return &AuthHandler{limiter: limiter}
}

func sessionAuth(w http.ResponseWriter, r *http.Request) *services.AuthService {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		respondWithError(w, http.StatusInternalServerError, "session unavailable")
		return nil
	}
	return session.Auth
}

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	auth := sessionAuth(w, r)
	if auth == nil {
		return
	}

	var payload signUpRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := auth.SignUp(r.Context(), payload.Email, payload.Password, strings.TrimSpace(payload.DisplayName))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	auth := sessionAuth(w, r)
	if auth == nil {
		return
	}

	var payload signInRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := auth.SignIn(r.Context(), payload.Email, payload.Password)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// SignOut handles POST /api/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	auth := sessionAuth(w, r)
	if auth == nil {
		return
	}
	if err := auth.SignOut(r.Context()); err != nil {
		respondWithAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPassword handles POST /api/auth/reset-password. The response is the
// same whether or not an account exists for the email.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	auth := sessionAuth(w, r)
	if auth == nil {
		return
	}

	var payload resetPasswordRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if allowed, retryAfter := h.limiter.Allow(r.Context(), "reset:"+clientIP(r), resetRateLimit, resetRateWindow); !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	if err := auth.ResetPassword(r.Context(), payload.Email); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status": "if an account exists for this email, a reset link has been sent",
	})
}

type confirmResetRequest struct {
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// ConfirmPasswordReset handles POST /api/auth/reset-password/confirm
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	auth := sessionAuth(w, r)
	if auth == nil {
		return
	}

	var payload confirmResetRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := auth.ConfirmPasswordReset(r.Context(), payload.Code, payload.NewPassword); err != nil {
		respondWithAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CurrentUser handles GET /api/auth/me
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	auth := sessionAuth(w, r)
	if auth == nil {
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user": auth.CurrentUser(),
	})
}
