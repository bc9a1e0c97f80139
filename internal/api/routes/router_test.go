package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/bizdirectory/internal/adapters/database"
	"github.com/zatekoja/bizdirectory/internal/adapters/identity"
	"github.com/zatekoja/bizdirectory/internal/api/handlers"
	"github.com/zatekoja/bizdirectory/internal/api/middleware"
	"github.com/zatekoja/bizdirectory/internal/application/services"
	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/pkg/config"
)

type testServer struct {
	handler http.Handler
	seeder  *services.SeedService
	catalog *services.CatalogService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := database.NewMemoryDocumentStore()
	businessRepo := database.NewBusinessAdapter(store)
	reviewRepo := database.NewReviewAdapter(store)
	favoriteRepo := database.NewFavoriteAdapter(store)
	accountRepo := database.NewAccountAdapter(store)

	authCfg := &config.AuthConfig{JWTSecret: "test-secret", Issuer: "test", TokenTTL: time.Hour, ResetTokenTTL: time.Hour}
	factory := identity.NewFactory(accountRepo, identity.NewTokenIssuer(authCfg), identity.NewRevocations(nil), nil, "http://localhost/reset")

	catalog := services.NewCatalogService(businessRepo, reviewRepo, favoriteRepo, nil, nil)
	limiter := handlers.NewRateLimiter(nil, nil)
	router := NewRouter(
		handlers.NewBusinessHandler(catalog, limiter),
		handlers.NewFavoriteHandler(catalog),
		handlers.NewAuthHandler(limiter),
		middleware.NewSessionMiddleware(factory, businessRepo),
		[]string{"*"},
		nil,
	)
	return &testServer{
		handler: router.SetupRoutes(),
		seeder:  services.NewSeedService(businessRepo, reviewRepo, nil, nil),
		catalog: catalog,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) signUp(t *testing.T, email, name string) *entities.User {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": email, "password": "secret1", "displayName": name,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var user entities.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	return &user
}

func TestRouter_Health(t *testing.T) {
	rec := newTestServer(t).do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ListBusinessesFallback(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/businesses?category=Restaurant&minRating=4", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fallback", rec.Header().Get(handlers.DataSourceHeader))
	var body struct {
		Businesses []*entities.Business `json:"businesses"`
		Count      int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "Coastal Cafe", body.Businesses[0].Name)

	bad := s.do(t, http.MethodGet, "/api/businesses?minRating=high", "", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestRouter_BusinessDetailAndReviews(t *testing.T) {
	s := newTestServer(t)
	result, err := s.seeder.Seed(t.Context())
	require.NoError(t, err)
	cafeID := result.Businesses[0]

	rec := s.do(t, http.MethodGet, "/api/businesses/"+cafeID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	missing := s.do(t, http.MethodGet, "/api/businesses/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	reviews := s.do(t, http.MethodGet, "/api/businesses/"+cafeID+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, reviews.Code)
	assert.Equal(t, "store", reviews.Header().Get(handlers.DataSourceHeader))

	anonymous := s.do(t, http.MethodPost, "/api/businesses/"+cafeID+"/reviews", "", map[string]any{"rating": 5, "comment": "Great"})
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	user := s.signUp(t, "jane@example.com", "Jane")

	short := s.do(t, http.MethodPost, "/api/businesses/"+cafeID+"/reviews", user.Token, map[string]any{"rating": 5, "comment": "ok"})
	assert.Equal(t, http.StatusBadRequest, short.Code)
	outOfRange := s.do(t, http.MethodPost, "/api/businesses/"+cafeID+"/reviews", user.Token, map[string]any{"rating": 6, "comment": "Great"})
	assert.Equal(t, http.StatusBadRequest, outOfRange.Code)

	created := s.do(t, http.MethodPost, "/api/businesses/"+cafeID+"/reviews", user.Token, map[string]any{"rating": 1, "comment": "Went downhill"})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	business, err := s.catalog.GetBusiness(t.Context(), cafeID)
	require.NoError(t, err)
	// Seeded reviews 5, 4, 5 plus the new 1.
	assert.InDelta(t, 3.75, business.Rating, 1e-9)

	stored := s.catalog.ListReviews(t.Context(), cafeID)
	require.Len(t, stored, 4)
	var names []string
	for _, r := range stored {
		names = append(names, r.UserName)
	}
	assert.Contains(t, names, "Jane")
}

func TestRouter_FavoritesFlow(t *testing.T) {
	s := newTestServer(t)
	result, err := s.seeder.Seed(t.Context())
	require.NoError(t, err)
	businessID := result.Businesses[2]

	unauthenticated := s.do(t, http.MethodGet, "/api/favorites", "", nil)
	assert.Equal(t, http.StatusUnauthorized, unauthenticated.Code)

	jane := s.signUp(t, "jane@example.com", "Jane")
	bob := s.signUp(t, "bob@example.com", "Bob")

	added := s.do(t, http.MethodPost, "/api/favorites", jane.Token, map[string]string{"businessId": businessID})
	require.Equal(t, http.StatusCreated, added.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(added.Body.Bytes(), &created))

	ids := s.do(t, http.MethodGet, "/api/favorites/ids", jane.Token, nil)
	assert.Contains(t, ids.Body.String(), businessID)

	list := s.do(t, http.MethodGet, "/api/favorites", jane.Token, nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "Green Thumb Nursery")

	notOwner := s.do(t, http.MethodDelete, "/api/favorites/"+created["id"], bob.Token, nil)
	assert.Equal(t, http.StatusNotFound, notOwner.Code)

	removed := s.do(t, http.MethodDelete, "/api/favorites/"+created["id"], jane.Token, nil)
	assert.Equal(t, http.StatusNoContent, removed.Code)

	after := s.do(t, http.MethodGet, "/api/favorites/records", jane.Token, nil)
	assert.NotContains(t, after.Body.String(), created["id"])
}

func TestRouter_AuthFlow(t *testing.T) {
	s := newTestServer(t)
	user := s.signUp(t, "jane@example.com", "Jane")
	assert.Equal(t, "Jane", user.DisplayName)

	duplicate := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "jane@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, duplicate.Code)
	assert.Contains(t, duplicate.Body.String(), "auth/email-already-in-use")

	weak := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "new@example.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, weak.Code)

	wrong := s.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{"email": "jane@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)

	signIn := s.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{"email": "jane@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, signIn.Code)
	var signedIn entities.User
	require.NoError(t, json.Unmarshal(signIn.Body.Bytes(), &signedIn))

	me := s.do(t, http.MethodGet, "/api/auth/me", signedIn.Token, nil)
	assert.Contains(t, me.Body.String(), "jane@example.com")

	anonymousMe := s.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.JSONEq(t, `{"user":null}`, anonymousMe.Body.String())

	signOut := s.do(t, http.MethodPost, "/api/auth/signout", signedIn.Token, nil)
	assert.Equal(t, http.StatusNoContent, signOut.Code)

	revoked := s.do(t, http.MethodGet, "/api/auth/me", signedIn.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, revoked.Code)
	assert.Contains(t, revoked.Body.String(), "auth/id-token-revoked")
}

func TestRouter_ResetPasswordDoesNotDisclose(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, "jane@example.com", "Jane")

	known := s.do(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{"email": "jane@example.com"})
	unknown := s.do(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{"email": "ghost@example.com"})

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, known.Code, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())

	malformed := s.do(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, malformed.Code)
}

func TestRouter_ResetPasswordRateLimited(t *testing.T) {
	s := newTestServer(t)

	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = s.do(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{"email": "ghost@example.com"})
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
}

func TestRouter_RejectsBadToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/auth/me", "not-a-token", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/businesses", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()

	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
