package repositories

import (
	"context"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
)

// BusinessRepository defines the interface for business data operations
type BusinessRepository interface {
	// Create stores a business and sets its ID
	Create(ctx context.Context, business *entities.Business) error

	// GetByID retrieves a business by ID; NOT_FOUND when absent
	GetByID(ctx context.Context, id string) (*entities.Business, error)

	// GetByIDs retrieves the businesses that exist among ids
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Business, error)

	// List retrieves every business in store order
	List(ctx context.Context) ([]*entities.Business, error)

	// UpdateRating overwrites the stored average rating
	UpdateRating(ctx context.Context, id string, rating float64) error
}

// BusinessSearchRepository defines the interface for business search operations (e.g. Typesense)
type BusinessSearchRepository interface {
	// Index upserts a business into the search index
	Index(ctx context.Context, business *entities.Business) error

	// Suggest returns businesses matching a prefix query
	Suggest(ctx context.Context, query string, limit int) ([]*BusinessSuggestion, error)

	// Delete removes a business from the index
	Delete(ctx context.Context, id string) error
}

// BusinessSuggestion is a lightweight search hit
type BusinessSuggestion struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	City     string  `json:"city"`
	Rating   float64 `json:"rating"`
}

const (
	// DefaultSuggestLimit is used when no suggestion count is requested
	DefaultSuggestLimit = 5
	// MaxSuggestLimit caps the suggestion count
	MaxSuggestLimit = 20
)

// ClampSuggestLimit bounds a requested suggestion count
func ClampSuggestLimit(limit int) int {
	if limit <= 0 {
		return DefaultSuggestLimit
	}
	if limit > MaxSuggestLimit {
		return MaxSuggestLimit
	}
	return limit
}
