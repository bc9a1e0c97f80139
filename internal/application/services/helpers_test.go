package services_test

import (
	"context"
	"errors"

	"github.com/zatekoja/bizdirectory/internal/adapters/database"
	"github.com/zatekoja/bizdirectory/internal/application/services"
	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	"github.com/zatekoja/bizdirectory/internal/domain/repositories"
)

var errUnavailable = errors.New("store unavailable")

// faultyStore fails the operations listed in failing ("insert", "get", ...)
// for the given collection, or for every collection when the key is "*".
type faultyStore struct {
	providers.DocumentStore
	failing map[string]string
}

func (s *faultyStore) fails(op, collection string) bool {
	c, ok := s.failing[op]
	return ok && (c == "*" || c == collection)
}

func (s *faultyStore) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	if s.fails("insert", collection) {
		return "", errUnavailable
	}
	return s.DocumentStore.Insert(ctx, collection, data)
}

func (s *faultyStore) Get(ctx context.Context, collection, id string) (*providers.Document, error) {
	if s.fails("get", collection) {
		return nil, errUnavailable
	}
	return s.DocumentStore.Get(ctx, collection, id)
}

func (s *faultyStore) GetMany(ctx context.Context, collection string, ids []string) ([]*providers.Document, error) {
	if s.fails("get_many", collection) {
		return nil, errUnavailable
	}
	return s.DocumentStore.GetMany(ctx, collection, ids)
}

func (s *faultyStore) List(ctx context.Context, collection string) ([]*providers.Document, error) {
	if s.fails("list", collection) {
		return nil, errUnavailable
	}
	return s.DocumentStore.List(ctx, collection)
}

func (s *faultyStore) Query(ctx context.Context, collection, field, value string) ([]*providers.Document, error) {
	if s.fails("query", collection) {
		return nil, errUnavailable
	}
	return s.DocumentStore.Query(ctx, collection, field, value)
}

func (s *faultyStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	if s.fails("update", collection) {
		return errUnavailable
	}
	return s.DocumentStore.Update(ctx, collection, id, patch)
}

func (s *faultyStore) Delete(ctx context.Context, collection, id string) error {
	if s.fails("delete", collection) {
		return errUnavailable
	}
	return s.DocumentStore.Delete(ctx, collection, id)
}

type catalogFixture struct {
	store      *faultyStore
	businesses repositories.BusinessRepository
	reviews    repositories.ReviewRepository
	favorites  repositories.FavoriteRepository
	catalog    *services.CatalogService
}

func newCatalogFixture() *catalogFixture {
	store := &faultyStore{DocumentStore: database.NewMemoryDocumentStore(), failing: map[string]string{}}
	f := &catalogFixture{
		store:      store,
		businesses: database.NewBusinessAdapter(store),
		reviews:    database.NewReviewAdapter(store),
		favorites:  database.NewFavoriteAdapter(store),
	}
	f.catalog = services.NewCatalogService(f.businesses, f.reviews, f.favorites, nil, nil)
	return f
}
