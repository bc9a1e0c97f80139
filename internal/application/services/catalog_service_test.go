package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/bizdirectory/internal/application/services"
	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	"github.com/zatekoja/bizdirectory/internal/domain/repositories"
	apperrors "github.com/zatekoja/bizdirectory/pkg/errors"
)

type MockBusinessSearchRepository struct {
	mock.Mock
}

func (m *MockBusinessSearchRepository) Index(ctx context.Context, business *entities.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *MockBusinessSearchRepository) Suggest(ctx context.Context, query string, limit int) ([]*repositories.BusinessSuggestion, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repositories.BusinessSuggestion), args.Error(1)
}

func (m *MockBusinessSearchRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func floatPtr(v float64) *float64 { return &v }

func TestCatalogService_ListBusinesses_EmptyStoreServesSamples(t *testing.T) {
	f := newCatalogFixture()

	businesses, source := f.catalog.ListBusinessesWithSource(context.Background(), nil)

	assert.Equal(t, services.DataSourceFallback, source)
	require.Len(t, businesses, 6)
	assert.Equal(t, "sample-0", businesses[0].ID)
	assert.Equal(t, "sample-5", businesses[5].ID)
}

func TestCatalogService_ListBusinesses_StoreFailureNeverRaises(t *testing.T) {
	f := newCatalogFixture()
	f.store.failing["list"] = "*"

	businesses, source := f.catalog.ListBusinessesWithSource(context.Background(), nil)

	assert.Equal(t, services.DataSourceFallback, source)
	assert.Len(t, businesses, 6)
}

func TestCatalogService_ListBusinesses_FiltersSamples(t *testing.T) {
	f := newCatalogFixture()

	businesses := f.catalog.ListBusinesses(context.Background(), &entities.BusinessFilter{
		Category:  "Restaurant",
		MinRating: floatPtr(4),
	})

	require.Len(t, businesses, 1)
	assert.Equal(t, "Coastal Cafe", businesses[0].Name)
}

func TestCatalogService_ListBusinesses_FromStore(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	require.NoError(t, f.businesses.Create(ctx, &entities.Business{Name: "Alpha Books", Category: "Retail", City: "Springfield"}))
	require.NoError(t, f.businesses.Create(ctx, &entities.Business{Name: "Beta Bakery", Category: "Restaurant", City: "Shelbyville"}))

	businesses, source := f.catalog.ListBusinessesWithSource(ctx, &entities.BusinessFilter{Location: "Springfield"})

	assert.Equal(t, services.DataSourceStore, source)
	require.Len(t, businesses, 1)
	assert.Equal(t, "Alpha Books", businesses[0].Name)
	assert.Equal(t, entities.ClosedHours, businesses[0].Hours.Monday)

	facets := f.catalog.Facets(ctx)
	assert.Equal(t, []string{"Restaurant", "Retail"}, facets.Categories)
	assert.Equal(t, []string{"Shelbyville", "Springfield"}, facets.Locations)
}

func TestCatalogService_GetBusiness(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	business := &entities.Business{Name: "Coastal Cafe"}
	require.NoError(t, f.businesses.Create(ctx, business))

	found, err := f.catalog.GetBusiness(ctx, business.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coastal Cafe", found.Name)

	missing, err := f.catalog.GetBusiness(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)

	f.store.failing["get"] = providers.CollectionBusinesses
	_, err = f.catalog.GetBusiness(ctx, business.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStore))
}

func TestCatalogService_ListReviews_Fallbacks(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()

	reviews, source := f.catalog.ListReviewsWithSource(ctx, "b1")
	assert.Equal(t, services.DataSourceFallback, source)
	assert.Len(t, reviews, 3)
	assert.Equal(t, "b1", reviews[0].BusinessID)

	f.store.failing["query"] = providers.CollectionReviews
	reviews, source = f.catalog.ListReviewsWithSource(ctx, "b1")
	assert.Equal(t, services.DataSourceFallback, source)
	assert.Len(t, reviews, 2)
}

func TestCatalogService_AddReview_RecomputesRating(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	cafe := &entities.Business{Name: "Coastal Cafe"}
	require.NoError(t, f.businesses.Create(ctx, cafe))

	first, err := f.catalog.AddReview(ctx, cafe.ID, &entities.Review{UserID: "u1", UserName: "Ann", Rating: 5, Comment: "Great!"})
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	_, err = f.catalog.AddReview(ctx, cafe.ID, &entities.Review{UserID: "u2", UserName: "Bob", Rating: 3, Comment: "Fine."})
	require.NoError(t, err)

	stored, err := f.catalog.GetBusiness(ctx, cafe.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, stored.Rating, 1e-9)

	reviews, source := f.catalog.ListReviewsWithSource(ctx, cafe.ID)
	assert.Equal(t, services.DataSourceStore, source)
	require.Len(t, reviews, 2)
	assert.False(t, reviews[0].Date.IsZero())
}

func TestCatalogService_AddReview_PartialFailureKeepsReview(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	cafe := &entities.Business{Name: "Coastal Cafe"}
	require.NoError(t, f.businesses.Create(ctx, cafe))
	f.store.failing["update"] = providers.CollectionBusinesses

	id, err := f.catalog.AddReview(ctx, cafe.ID, &entities.Review{Rating: 4, Comment: "Nice"})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStore))
	assert.NotEmpty(t, id)
	reviews, err := f.reviews.ListByBusiness(ctx, cafe.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestCatalogService_AddReview_WriteFailure(t *testing.T) {
	f := newCatalogFixture()
	f.store.failing["insert"] = providers.CollectionReviews

	id, err := f.catalog.AddReview(context.Background(), "b1", &entities.Review{Rating: 4, Comment: "Nice"})

	assert.Empty(t, id)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStore))
}

func TestCatalogService_AddReview_ReindexesBusiness(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	search := new(MockBusinessSearchRepository)
	catalog := services.NewCatalogService(f.businesses, f.reviews, f.favorites, search, nil)
	cafe := &entities.Business{Name: "Coastal Cafe"}
	require.NoError(t, f.businesses.Create(ctx, cafe))

	search.On("Index", mock.Anything, mock.MatchedBy(func(b *entities.Business) bool {
		return b.ID == cafe.ID && b.Rating == 5
	})).Return(nil).Once()

	_, err := catalog.AddReview(ctx, cafe.ID, &entities.Review{Rating: 5, Comment: "Superb"})

	require.NoError(t, err)
	search.AssertExpectations(t)
}

func TestCatalogService_FavoriteRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	cafe := &entities.Business{Name: "Coastal Cafe"}
	require.NoError(t, f.businesses.Create(ctx, cafe))

	_, err := f.catalog.AddFavorite(ctx, "u1", cafe.ID)
	require.NoError(t, err)
	assert.Contains(t, f.catalog.ListFavoriteIDs(ctx, "u1"), cafe.ID)

	var favoriteID string
	for _, r := range f.catalog.ListFavoriteRecords(ctx, "u1") {
		if r.BusinessID == cafe.ID {
			favoriteID = r.ID
		}
	}
	require.NotEmpty(t, favoriteID)

	require.NoError(t, f.catalog.RemoveFavorite(ctx, favoriteID))
	assert.NotContains(t, f.catalog.ListFavoriteIDs(ctx, "u1"), cafe.ID)
}

func TestCatalogService_AddFavorite_AllowsDuplicates(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()

	first, err := f.catalog.AddFavorite(ctx, "u1", "b1")
	require.NoError(t, err)
	second, err := f.catalog.AddFavorite(ctx, "u1", "b1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, []string{"b1", "b1"}, f.catalog.ListFavoriteIDs(ctx, "u1"))
}

func TestCatalogService_ListFavorites_NeverRaise(t *testing.T) {
	f := newCatalogFixture()
	f.store.failing["query"] = providers.CollectionFavorites

	assert.Empty(t, f.catalog.ListFavoriteIDs(context.Background(), "u1"))
	assert.Empty(t, f.catalog.ListFavoriteRecords(context.Background(), "u1"))
}

func TestCatalogService_ListFavoriteBusinesses_SkipsMissing(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	cafe := &entities.Business{Name: "Coastal Cafe"}
	books := &entities.Business{Name: "Page Turner Books"}
	require.NoError(t, f.businesses.Create(ctx, cafe))
	require.NoError(t, f.businesses.Create(ctx, books))

	for _, id := range []string{cafe.ID, "deleted-business", books.ID} {
		_, err := f.catalog.AddFavorite(ctx, "u1", id)
		require.NoError(t, err)
	}

	businesses, err := f.catalog.ListFavoriteBusinesses(ctx, "u1")

	require.NoError(t, err)
	require.Len(t, businesses, 2)
	assert.Equal(t, "Coastal Cafe", businesses[0].Name)
	assert.Equal(t, "Page Turner Books", businesses[1].Name)

	empty, err := f.catalog.ListFavoriteBusinesses(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCatalogService_Suggest(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()

	suggestions := f.catalog.Suggest(ctx, "cafe", 0)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "Coastal Cafe", suggestions[0].Name)

	search := new(MockBusinessSearchRepository)
	hits := []*repositories.BusinessSuggestion{{ID: "b9", Name: "Indexed Cafe"}}
	search.On("Suggest", ctx, "caf", repositories.DefaultSuggestLimit).Return(hits, nil)
	catalog := services.NewCatalogService(f.businesses, f.reviews, f.favorites, search, nil)

	assert.Equal(t, hits, catalog.Suggest(ctx, "caf", 0))
	search.AssertExpectations(t)
}
