package repositories

import (
	"context"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
)

// FavoriteRepository defines the interface for favorite operations
type FavoriteRepository interface {
	// Create stores a favorite and sets its ID
	Create(ctx context.Context, favorite *entities.Favorite) error

	// Delete removes a favorite by ID
	Delete(ctx context.Context, id string) error

	// ListByUser retrieves the favorites of a user
	ListByUser(ctx context.Context, userID string) ([]*entities.Favorite, error)
}
