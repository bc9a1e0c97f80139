package routes

import (
	"net/http"

	"github.com/zatekoja/bizdirectory/internal/api/handlers"
	"github.com/zatekoja/bizdirectory/internal/api/middleware"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	businessHandler *handlers.BusinessHandler
	favoriteHandler *handlers.FavoriteHandler
	authHandler     *handlers.AuthHandler

	session        *middleware.SessionMiddleware
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	businessHandler *handlers.BusinessHandler,
	favoriteHandler *handlers.FavoriteHandler,
	authHandler *handlers.AuthHandler,
	session *middleware.SessionMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		businessHandler: businessHandler,
		favoriteHandler: favoriteHandler,
		authHandler:     authHandler,
		session:         session,
		allowedOrigins:  allowedOrigins,
		metrics:         metrics,
	}
}

// withSession restores the caller's identity session
func (r *Router) withSession(h http.HandlerFunc) http.Handler {
	return r.session.Middleware(h)
}

// signedIn restores the session and requires a signed-in user
func (r *Router) signedIn(h http.HandlerFunc) http.Handler {
	return r.session.Middleware(middleware.RequireUser(h))
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Business endpoints
	r.mux.HandleFunc("GET /api/businesses", r.businessHandler.ListBusinesses)
	r.mux.HandleFunc("GET /api/businesses/facets", r.businessHandler.GetFacets)
	r.mux.HandleFunc("GET /api/businesses/suggest", r.businessHandler.SuggestBusinesses)
	r.mux.HandleFunc("GET /api/businesses/{id}", r.businessHandler.GetBusiness)
	r.mux.HandleFunc("GET /api/businesses/{id}/reviews", r.businessHandler.ListReviews)
	r.mux.Handle("POST /api/businesses/{id}/reviews", r.signedIn(r.businessHandler.AddReview))

	// Favorite endpoints
	r.mux.Handle("GET /api/favorites", r.signedIn(r.favoriteHandler.ListFavorites))
	r.mux.Handle("GET /api/favorites/ids", r.signedIn(r.favoriteHandler.ListFavoriteIDs))
	r.mux.Handle("GET /api/favorites/records", r.signedIn(r.favoriteHandler.ListFavoriteRecords))
	r.mux.Handle("POST /api/favorites", r.signedIn(r.favoriteHandler.AddFavorite))
	r.mux.Handle("DELETE /api/favorites/{id}", r.signedIn(r.favoriteHandler.RemoveFavorite))

	// Auth endpoints
	r.mux.Handle("POST /api/auth/signup", r.withSession(r.authHandler.SignUp))
	r.mux.Handle("POST /api/auth/signin", r.withSession(r.authHandler.SignIn))
	r.mux.Handle("POST /api/auth/signout", r.signedIn(r.authHandler.SignOut))
	r.mux.Handle("POST /api/auth/reset-password", r.withSession(r.authHandler.ResetPassword))
	r.mux.Handle("POST /api/auth/reset-password/confirm", r.withSession(r.authHandler.ConfirmPasswordReset))
	r.mux.Handle("GET /api/auth/me", r.withSession(r.authHandler.CurrentUser))

	// Apply middleware in reverse order (last middleware wraps first).
	// Logging sits next to the mux so r.Pattern is set when it logs.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
