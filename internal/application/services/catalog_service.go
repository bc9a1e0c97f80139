package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/bizdirectory/internal/application/loaders"
	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/internal/domain/repositories"
	"github.com/zatekoja/bizdirectory/internal/domain/samples"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/observability"
	"github.com/zatekoja/bizdirectory/internal/query/filter"
	apperrors "github.com/zatekoja/bizdirectory/pkg/errors"
)

// DataSource tells whether a list came from the store or from built-in samples
type DataSource string

const (
	DataSourceStore    DataSource = "store"
	DataSourceFallback DataSource = "fallback"
)

// CatalogService is the data-access layer for businesses, reviews and favorites.
// Read paths prefer availability: list operations fall back to sample data or
// empty results instead of returning store failures.
type CatalogService struct {
	businesses repositories.BusinessRepository
	reviews    repositories.ReviewRepository
	favorites  repositories.FavoriteRepository
	search     repositories.BusinessSearchRepository
	metrics    *observability.Metrics
}

// NewCatalogService creates a new catalog service. search and metrics may be nil.
func NewCatalogService(
	businesses repositories.BusinessRepository,
	reviews repositories.ReviewRepository,
	favorites repositories.FavoriteRepository,
	search repositories.BusinessSearchRepository,
	metrics *observability.Metrics,
) *CatalogService {
	return &CatalogService{
		businesses: businesses,
		reviews:    reviews,
		favorites:  favorites,
		search:     search,
		metrics:    metrics,
	}
}

// ListBusinesses returns the businesses matching f. It never fails.
func (s *CatalogService) ListBusinesses(ctx context.Context, f *entities.BusinessFilter) []*entities.Business {
	businesses, _ := s.ListBusinessesWithSource(ctx, f)
	return businesses
}

// ListBusinessesWithSource is ListBusinesses that also reports whether the
// sample businesses were substituted.
func (s *CatalogService) ListBusinessesWithSource(ctx context.Context, f *entities.BusinessFilter) ([]*entities.Business, DataSource) {
	all, err := s.businesses.List(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("failed to list businesses, serving sample businesses")
		observability.RecordFallback(ctx, s.metrics, "list_businesses", "error")
		return filter.Apply(samples.FallbackBusinesses(), f), DataSourceFallback
	case len(all) == 0:
		log.Info().Msg("no businesses stored, serving sample businesses")
		observability.RecordFallback(ctx, s.metrics, "list_businesses", "empty")
		return filter.Apply(samples.FallbackBusinesses(), f), DataSourceFallback
	}
	return filter.Apply(all, f), DataSourceStore
}

// Facets returns the distinct categories and cities of the listed businesses
func (s *CatalogService) Facets(ctx context.Context) *entities.BusinessFacets {
	return filter.Facets(s.ListBusinesses(ctx, nil))
}

// GetBusiness returns the business with id, or nil when it does not exist
func (s *CatalogService) GetBusiness(ctx context.Context, id string) (*entities.Business, error) {
	business, err := s.businesses.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		log.Error().Err(err).Str("business_id", id).Msg("failed to get business")
		return nil, storeError("failed to get business", err)
	}
	return business, nil
}

// ListReviews returns the reviews of a business. It never fails: an empty
// result and a store failure both yield sample reviews.
func (s *CatalogService) ListReviews(ctx context.Context, businessID string) []*entities.Review {
	reviews, _ := s.ListReviewsWithSource(ctx, businessID)
	return reviews
}

// ListReviewsWithSource is ListReviews that also reports whether sample reviews were substituted
func (s *CatalogService) ListReviewsWithSource(ctx context.Context, businessID string) ([]*entities.Review, DataSource) {
	reviews, err := s.reviews.ListByBusiness(ctx, businessID)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("business_id", businessID).Msg("failed to list reviews, serving sample reviews")
		observability.RecordFallback(ctx, s.metrics, "list_reviews", "error")
		return samples.ErrorFallbackReviews(businessID), DataSourceFallback
	case len(reviews) == 0:
		observability.RecordFallback(ctx, s.metrics, "list_reviews", "empty")
		return samples.EmptyFallbackReviews(businessID), DataSourceFallback
	}
	return reviews, DataSourceStore
}

// AddReview stores a review dated by the store and recomputes the business
// rating. When the review is written but the rating update fails, the review
// id is returned together with the error; nothing is rolled back.
func (s *CatalogService) AddReview(ctx context.Context, businessID string, review *entities.Review) (string, error) {
	review.BusinessID = businessID
	if err := s.reviews.Create(ctx, review); err != nil {
		log.Error().Err(err).Str("business_id", businessID).Msg("failed to add review")
		return "", storeError("failed to add review", err)
	}

	if err := s.recomputeRating(ctx, businessID); err != nil {
		log.Error().Err(err).Str("business_id", businessID).Str("review_id", review.ID).Msg("failed to update business rating")
		return review.ID, storeError("failed to update business rating", err)
	}
	return review.ID, nil
}

// recomputeRating writes the mean review rating back to the business.
// Read-compute-write is not atomic: concurrent reviews can lose an update.
func (s *CatalogService) recomputeRating(ctx context.Context, businessID string) error {
	reviews, err := s.reviews.ListByBusiness(ctx, businessID)
	if err != nil {
		return err
	}
	mean, ok := entities.MeanRating(reviews)
	if !ok {
		return nil
	}
	if err := s.businesses.UpdateRating(ctx, businessID, mean); err != nil {
		return err
	}
	s.reindex(ctx, businessID)
	return nil
}

func (s *CatalogService) reindex(ctx context.Context, businessID string) {
	if s.search == nil {
		return
	}
	business, err := s.businesses.GetByID(ctx, businessID)
	if err == nil {
		err = s.search.Index(ctx, business)
	}
	if err != nil {
		log.Warn().Err(err).Str("business_id", businessID).Msg("failed to re-index business")
	}
}

// AddFavorite stores a favorite. Duplicates are not prevented.
func (s *CatalogService) AddFavorite(ctx context.Context, userID, businessID string) (string, error) {
	favorite := &entities.Favorite{UserID: userID, BusinessID: businessID}
	if err := s.favorites.Create(ctx, favorite); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("business_id", businessID).Msg("failed to add favorite")
		return "", storeError("failed to add favorite", err)
	}
	return favorite.ID, nil
}

// RemoveFavorite deletes a favorite record by its id
func (s *CatalogService) RemoveFavorite(ctx context.Context, favoriteID string) error {
	if err := s.favorites.Delete(ctx, favoriteID); err != nil {
		log.Error().Err(err).Str("favorite_id", favoriteID).Msg("failed to remove favorite")
		return storeError("failed to remove favorite", err)
	}
	return nil
}

// ListFavoriteIDs returns the favorited business ids of a user; empty on failure
func (s *CatalogService) ListFavoriteIDs(ctx context.Context, userID string) []string {
	records := s.ListFavoriteRecords(ctx, userID)
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.BusinessID
	}
	return ids
}

// ListFavoriteRecords returns favorite ids paired with business ids; empty on failure
func (s *CatalogService) ListFavoriteRecords(ctx context.Context, userID string) []*entities.FavoriteRecord {
	favorites, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to list favorites")
		return []*entities.FavoriteRecord{}
	}
	records := make([]*entities.FavoriteRecord, len(favorites))
	for i, f := range favorites {
		records[i] = &entities.FavoriteRecord{ID: f.ID, BusinessID: f.BusinessID}
	}
	return records
}

// ListFavoriteBusinesses resolves a user's favorites to businesses, skipping
// businesses that no longer exist
func (s *CatalogService) ListFavoriteBusinesses(ctx context.Context, userID string) ([]*entities.Business, error) {
	ids := s.ListFavoriteIDs(ctx, userID)
	if len(ids) == 0 {
		return []*entities.Business{}, nil
	}

	l := loaders.For(ctx)
	if l == nil {
		l = loaders.NewLoaders(s.businesses)
	}
	businesses, err := l.LoadBusinesses(ctx, ids)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to load favorite businesses")
		return nil, storeError("failed to load favorite businesses", err)
	}
	return businesses, nil
}

// Suggest returns up to limit businesses matching query, from the search
// index when one is configured and from the business list otherwise
func (s *CatalogService) Suggest(ctx context.Context, query string, limit int) []*repositories.BusinessSuggestion {
	limit = repositories.ClampSuggestLimit(limit)
	if s.search != nil {
		suggestions, err := s.search.Suggest(ctx, query, limit)
		if err == nil {
			return suggestions
		}
		log.Warn().Err(err).Str("query", query).Msg("search suggestions failed, matching in memory")
	}

	matches := s.ListBusinesses(ctx, &entities.BusinessFilter{SearchTerm: query})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	suggestions := make([]*repositories.BusinessSuggestion, len(matches))
	for i, b := range matches {
		suggestions[i] = &repositories.BusinessSuggestion{
			ID:       b.ID,
			Name:     b.Name,
			Category: b.Category,
			City:     b.City,
			Rating:   b.Rating,
		}
	}
	return suggestions
}

func storeError(message string, err error) error {
	if apperrors.IsType(err, apperrors.ErrorTypeStore) {
		return err
	}
	return apperrors.NewStoreError(message, err)
}
