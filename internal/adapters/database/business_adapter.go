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

// BusinessAdapter implements the BusinessRepository interface over a document store
type BusinessAdapter struct {
	store providers.DocumentStore
}

// NewBusinessAdapter creates a new business adapter
func NewBusinessAdapter(store providers.DocumentStore) repositories.BusinessRepository {
	return &BusinessAdapter{store: store}
}

// Create stores a business and sets its ID
func (a *BusinessAdapter) Create(ctx context.Context, business *entities.Business) error {
	if business == nil {
		return apperrors.NewInternalError("business is nil", fmt.Errorf("business is nil"))
	}

	record, err := encodeRecord(business, "id")
	if err != nil {
		return apperrors.NewInternalError("failed to encode business", err)
	}

	id, err := a.store.Insert(ctx, providers.CollectionBusinesses, record)
	if err != nil {
		return err
	}
	business.ID = id
	return nil
}

// GetByID retrieves a business by ID
func (a *BusinessAdapter) GetByID(ctx context.Context, id string) (*entities.Business, error) {
	doc, err := a.store.Get(ctx, providers.CollectionBusinesses, id)
	if err != nil {
		return nil, err
	}

	business, err := DecodeBusiness(doc)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to decode business", err)
	}
	return business, nil
}

// GetByIDs retrieves the businesses present among ids; undecodable records are skipped
func (a *BusinessAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Business, error) {
	docs, err := a.store.GetMany(ctx, providers.CollectionBusinesses, ids)
	if err != nil {
		return nil, err
	}
	return decodeBusinesses(docs), nil
}

// List retrieves every business; undecodable records are skipped
func (a *BusinessAdapter) List(ctx context.Context) ([]*entities.Business, error) {
	docs, err := a.store.List(ctx, providers.CollectionBusinesses)
	if err != nil {
		return nil, err
	}
	return decodeBusinesses(docs), nil
}

// UpdateRating overwrites the stored average rating
func (a *BusinessAdapter) UpdateRating(ctx context.Context, id string, rating float64) error {
	return a.store.Update(ctx, providers.CollectionBusinesses, id, map[string]any{"rating": rating})
}

func decodeBusinesses(docs []*providers.Document) []*entities.Business {
	businesses := make([]*entities.Business, 0, len(docs))
	for _, doc := range docs {
		business, err := DecodeBusiness(doc)
		if err != nil {
			log.Warn().Err(err).Str("business_id", doc.ID).Msg("skipping unreadable business record")
			continue
		}
		businesses = append(businesses, business)
	}
	return businesses
}
