package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/zatekoja/bizdirectory/internal/api/middleware"
	"github.com/zatekoja/bizdirectory/internal/domain/entities"
)

// FavoriteStore defines the favorite operations used by the handler
type FavoriteStore interface {
	AddFavorite(ctx context.Context, userID, businessID string) (string, error)
	RemoveFavorite(ctx context.Context, favoriteID string) error
	ListFavoriteIDs(ctx context.Context, userID string) []string
	ListFavoriteRecords(ctx context.Context, userID string) []*entities.FavoriteRecord
	ListFavoriteBusinesses(ctx context.Context, userID string) ([]*entities.Business, error)
}

// FavoriteHandler handles a signed-in user's favorites. Routes are wrapped in
// middleware.RequireUser.
type FavoriteHandler struct {
	favorites FavoriteStore
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favorites FavoriteStore) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

func currentUID(r *http.Request) string {
	if user := middleware.SessionFromContext(r.Context()).User(); user != nil {
		return user.UID
	}
	return ""
}

// ListFavorites handles GET /api/favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.favorites.ListFavoriteBusinesses(r.Context(), currentUID(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"businesses": businesses,
		"count":      len(businesses),
	})
}

// ListFavoriteIDs handles GET /api/favorites/ids
func (h *FavoriteHandler) ListFavoriteIDs(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"businessIds": h.favorites.ListFavoriteIDs(r.Context(), currentUID(r)),
	})
}

// ListFavoriteRecords handles GET /api/favorites/records
func (h *FavoriteHandler) ListFavoriteRecords(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"favorites": h.favorites.ListFavoriteRecords(r.Context(), currentUID(r)),
	})
}

type favoriteRequest struct {
	BusinessID string `json:"businessId"`
}

// AddFavorite handles POST /api/favorites
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var payload favoriteRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	payload.BusinessID = strings.TrimSpace(payload.BusinessID)
	if payload.BusinessID == "" {
		respondWithError(w, http.StatusBadRequest, "businessId is required")
		return
	}

	id, err := h.favorites.AddFavorite(r.Context(), currentUID(r), payload.BusinessID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// RemoveFavorite handles DELETE /api/favorites/{id}. Only the owner's
// favorite records can be removed.
func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	favoriteID := r.PathValue("id")
	owned := false
	for _, record := range h.favorites.ListFavoriteRecords(r.Context(), currentUID(r)) {
		if record.ID == favoriteID {
			owned = true
			break
		}
	}
	if !owned {
		respondWithError(w, http.StatusNotFound, "favorite not found")
		return
	}

	if err := h.favorites.RemoveFavorite(r.Context(), favoriteID); err != nil {
		respondWithAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
