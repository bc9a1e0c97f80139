package repositories

import (
	"context"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create stores a review with a server-assigned date and sets its ID
	Create(ctx context.Context, review *entities.Review) error

	// CreateWithDate stores a review keeping its Date; used for seeding
	CreateWithDate(ctx context.Context, review *entities.Review) error

	// ListByBusiness retrieves reviews for a business
	ListByBusiness(ctx context.Context, businessID string) ([]*entities.Review, error)
}
