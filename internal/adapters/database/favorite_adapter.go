package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	"github.com/zatekoja/bizdirectory/internal/domain/repositories"
	apperrors "github.com/zatekoja/bizdirectory/pkg/errors"
)

// FavoriteAdapter implements the FavoriteRepository interface over a document store
type FavoriteAdapter struct {
	store providers.DocumentStore
}

// NewFavoriteAdapter creates a new favorite adapter
func NewFavoriteAdapter(store providers.DocumentStore) repositories.FavoriteRepository {
	return &FavoriteAdapter{store: store}
}

// Create stores a favorite and sets its ID
func (a *FavoriteAdapter) Create(ctx context.Context, favorite *entities.Favorite) error {
	if favorite == nil {
		return apperrors.NewInternalError("favorite is nil", fmt.Errorf("favorite is nil"))
	}

	id, err := a.store.Insert(ctx, providers.CollectionFavorites, map[string]any{
		"userId":     favorite.UserID,
		"businessId": favorite.BusinessID,
		"createdAt":  providers.ServerTimestamp,
	})
	if err != nil {
		return err
	}
	favorite.ID = id
	return nil
}

// Delete removes a favorite by ID
func (a *FavoriteAdapter) Delete(ctx context.Context, id string) error {
	return a.store.Delete(ctx, providers.CollectionFavorites, id)
}

// ListByUser retrieves the favorites of a user
func (a *FavoriteAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Favorite, error) {
	docs, err := a.store.Query(ctx, providers.CollectionFavorites, "userId", userID)
	if err != nil {
		return nil, err
	}

	favorites := make([]*entities.Favorite, 0, len(docs))
	for _, doc := range docs {
		favorite, err := DecodeFavorite(doc)
		if err != nil {
			log.Warn().Err(err).Str("favorite_id", doc.ID).Msg("skipping unreadable favorite record")
			continue
		}
		favorites = append(favorites, favorite)
	}
	return favorites, nil
}
