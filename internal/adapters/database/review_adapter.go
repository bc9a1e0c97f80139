package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	"github.com/zatekoja/bizdirectory/internal/domain/repositories"
	apperrors "github.com/zatekoja/bizdirectory/pkg/errors"
)

// ReviewAdapter implements the ReviewRepository interface over a document store
type ReviewAdapter struct {
	store providers.DocumentStore
	now   func() time.Time
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(store providers.DocumentStore) repositories.ReviewRepository {
	return &ReviewAdapter{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a review dated by the store's clock
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	return a.insert(ctx, review, providers.ServerTimestamp)
}

// CreateWithDate stores a review keeping its Date
func (a *ReviewAdapter) CreateWithDate(ctx context.Context, review *entities.Review) error {
	if review == nil {
		return apperrors.NewInternalError("review is nil", fmt.Errorf("review is nil"))
	}
	return a.insert(ctx, review, review.Date.UTC().Format(time.RFC3339Nano))
}

func (a *ReviewAdapter) insert(ctx context.Context, review *entities.Review, date any) error {
	if review == nil {
		return apperrors.NewInternalError("review is nil", fmt.Errorf("review is nil"))
	}

	id, err := a.store.Insert(ctx, providers.CollectionReviews, map[string]any{
		"businessId": review.BusinessID,
		"userId":     review.UserID,
		"userName":   review.UserName,
		"rating":     review.Rating,
		"comment":    review.Comment,
		"date":       date,
	})
	if err != nil {
		return err
	}
	review.ID = id
	return nil
}

// ListByBusiness retrieves reviews for a business; undecodable records are skipped
func (a *ReviewAdapter) ListByBusiness(ctx context.Context, businessID string) ([]*entities.Review, error) {
	docs, err := a.store.Query(ctx, providers.CollectionReviews, "businessId", businessID)
	if err != nil {
		return nil, err
	}

	now := a.now()
	reviews := make([]*entities.Review, 0, len(docs))
	for _, doc := range docs {
		review, err := DecodeReview(doc, now)
		if err != nil {
			log.Warn().Err(err).Str("review_id", doc.ID).Msg("skipping unreadable review record")
			continue
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}
