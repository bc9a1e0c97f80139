package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/zatekoja/bizdirectory/internal/api/middleware"
	"github.com/zatekoja/bizdirectory/internal/application/services"
	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/internal/domain/repositories"
)

const (
	reviewRateLimit  = 10
	reviewRateWindow = time.Hour
)

// CatalogReader defines the catalog read operations used by the handlers
type CatalogReader interface {
	ListBusinessesWithSource(ctx context.Context, f *entities.BusinessFilter) ([]*entities.Business, services.DataSource)
	Facets(ctx context.Context) *entities.BusinessFacets
	Suggest(ctx context.Context, query string, limit int) []*repositories.BusinessSuggestion
	GetBusiness(ctx context.Context, id string) (*entities.Business, error)
	ListReviewsWithSource(ctx context.Context, businessID string) ([]*entities.Review, services.DataSource)
	AddReview(ctx context.Context, businessID string, review *entities.Review) (string, error)
}

// BusinessHandler handles business and review requests
type BusinessHandler struct {
	catalog CatalogReader
	limiter *RateLimiter
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(catalog CatalogReader, limiter *RateLimiter) *BusinessHandler {
	return &BusinessHandler{catalog: catalog, limiter: limiter}
}

// ListBusinesses handles GET /api/businesses
func (h *BusinessHandler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f := &entities.BusinessFilter{
		SearchTerm: strings.TrimSpace(query.Get("search")),
		Category:   query.Get("category"),
		Location:   query.Get("location"),
	}
	if raw := query.Get("minRating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(minRating) || math.IsInf(minRating, 0) {
			respondWithError(w, http.StatusBadRequest, "minRating must be a number")
			return
		}
		f.MinRating = &minRating
	}

	businesses, source := h.catalog.ListBusinessesWithSource(r.Context(), f)
	setDataSource(w, source)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"businesses": businesses,
		"count":      len(businesses),
	})
}

// GetFacets handles GET /api/businesses/facets
func (h *BusinessHandler) GetFacets(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.catalog.Facets(r.Context()))
}

// SuggestBusinesses handles GET /api/businesses/suggest
func (h *BusinessHandler) SuggestBusinesses(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"suggestions": []*repositories.BusinessSuggestion{},
			"count":       0,
		})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	suggestions := h.catalog.Suggest(r.Context(), query, limit)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// GetBusiness handles GET /api/businesses/{id}
func (h *BusinessHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "business ID is required")
		return
	}

	business, err := h.catalog.GetBusiness(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if business == nil {
		respondWithError(w, http.StatusNotFound, "business not found")
		return
	}
	respondWithJSON(w, http.StatusOK, business)
}

// ListReviews handles GET /api/businesses/{id}/reviews
func (h *BusinessHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	reviews, source := h.catalog.ListReviewsWithSource(r.Context(), id)
	setDataSource(w, source)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AddReview handles POST /api/businesses/{id}/reviews
func (h *BusinessHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.SessionFromContext(r.Context()).User()
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "sign in required")
		return
	}

	var payload reviewRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.Rating < entities.MinReviewRating || payload.Rating > entities.MaxReviewRating {
		respondWithError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	payload.Comment = strings.TrimSpace(payload.Comment)
	length := utf8.RuneCountInString(payload.Comment)
	if length < entities.MinReviewCommentLength {
		respondWithError(w, http.StatusBadRequest, "review must be at least 3 characters")
		return
	}
	if length > entities.MaxReviewCommentLength {
		respondWithError(w, http.StatusBadRequest, "review cannot exceed 500 characters")
		return
	}

	if allowed, retryAfter := h.limiter.Allow(r.Context(), "review:"+user.UID, reviewRateLimit, reviewRateWindow); !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	businessID := r.PathValue("id")
	business, err := h.catalog.GetBusiness(r.Context(), businessID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if business == nil {
		respondWithError(w, http.StatusNotFound, "business not found")
		return
	}

	userName := user.DisplayName
	if userName == "" {
		userName = entities.AnonymousReviewer
	}
	review := &entities.Review{
		UserID:   user.UID,
		UserName: userName,
		Rating:   payload.Rating,
		Comment:  payload.Comment,
	}

	id, err := h.catalog.AddReview(r.Context(), businessID, review)
	if err != nil {
		if id != "" {
			// The review was stored; only the rating refresh failed.
			respondWithJSON(w, http.StatusAccepted, map[string]string{
				"id":      id,
				"warning": "review saved but the business rating could not be updated",
			})
			return
		}
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}
