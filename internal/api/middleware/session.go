package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zatekoja/bizdirectory/internal/adapters/identity"
	"github.com/zatekoja/bizdirectory/internal/application/loaders"
	"github.com/zatekoja/bizdirectory/internal/application/services"
	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/internal/domain/repositories"
	apperrors "github.com/zatekoja/bizdirectory/pkg/errors"
)

type sessionKey struct{}

// Session is the identity session of one request
type Session struct {
	Auth  *services.AuthService
	State *services.AuthState
}

// User returns the signed-in user, or nil
func (s *Session) User() *entities.User {
	if s == nil || s.State == nil {
		return nil
	}
	return s.State.User()
}

// SessionFromContext returns the request session, or nil outside SessionMiddleware
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// WithSession attaches a session to ctx
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionMiddleware restores the identity session from a bearer token and
// attaches request-scoped dataloaders. Requests without a token get a
// signed-out session; an invalid token is rejected.
type SessionMiddleware struct {
	factory    *identity.Factory
	businesses repositories.BusinessRepository
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(factory *identity.Factory, businesses repositories.BusinessRepository) *SessionMiddleware {
	return &SessionMiddleware{factory: factory, businesses: businesses}
}

// Middleware wraps next with session restoration
func (m *SessionMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeUnauthorized(w, apperrors.CodeInvalidCredential, "malformed authorization header")
			return
		}

		provider, err := m.factory.Session(r.Context(), token)
		if err != nil {
			code := apperrors.AuthCode(err)
			if code == apperrors.CodeNetworkRequestFailed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadGateway)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "identity service unavailable", "code": code})
				return
			}
			writeUnauthorized(w, code, "invalid or expired session")
			return
		}

		auth := services.NewAuthService(provider)
		state := services.NewAuthState(auth)
		defer state.Close()

		ctx := WithSession(r.Context(), &Session{Auth: auth, State: state})
		ctx = loaders.WithLoaders(ctx, loaders.NewLoaders(m.businesses))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects requests without a signed-in user
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()).User() == nil {
			writeUnauthorized(w, apperrors.CodeInvalidCredential, "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token; ok is false for a malformed header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", true
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}
