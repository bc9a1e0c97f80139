package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/internal/domain/providers"
)

func TestDecodeBusiness_FillsDefaults(t *testing.T) {
	business, err := DecodeBusiness(&providers.Document{
		ID:   "b1",
		Data: map[string]any{"name": "Corner Deli"},
	})

	require.NoError(t, err)
	assert.Equal(t, "b1", business.ID)
	assert.Equal(t, "Corner Deli", business.Name)
	assert.Equal(t, entities.DefaultCategory, business.Category)
	assert.Equal(t, 0.0, business.Rating)
	assert.Equal(t, "", business.Phone)
	assert.Equal(t, entities.ClosedAllWeek(), business.Hours)
	assert.Equal(t, entities.Location{}, business.Location)
	assert.NotNil(t, business.Reviews)
	assert.Empty(t, business.Reviews)
	assert.Equal(t, "https://api.dicebear.com/7.x/initials/svg?seed=Corner+Deli", business.Logo)
}

func TestDecodeBusiness_PartialHoursAndLocation(t *testing.T) {
	business, err := DecodeBusiness(&providers.Document{
		ID: "b2",
		Data: map[string]any{
			"name":     "Bakery",
			"category": "",
			"rating":   4.5,
			"logo":     "https://example.com/logo.png",
			"hours":    map[string]any{"monday": "9-5", "sunday": ""},
			"location": map[string]any{"lat": 34.1},
			"reviews":  []any{"r1", map[string]any{"id": "r2"}, 7},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, entities.DefaultCategory, business.Category)
	assert.Equal(t, 4.5, business.Rating)
	assert.Equal(t, "https://example.com/logo.png", business.Logo)
	assert.Equal(t, "9-5", business.Hours.Monday)
	assert.Equal(t, "Closed", business.Hours.Tuesday)
	assert.Equal(t, "Closed", business.Hours.Sunday)
	assert.Equal(t, entities.Location{Lat: 34.1, Lng: 0}, business.Location)
	assert.Equal(t, []string{"r1", "r2"}, business.Reviews)
}

func TestDecodeBusiness_TypeMismatchIsDecodeError(t *testing.T) {
	_, err := DecodeBusiness(&providers.Document{
		ID:   "b3",
		Data: map[string]any{"name": 42},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "b3")
}

func TestDecodeReview_Defaults(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	review, err := DecodeReview(&providers.Document{
		ID:   "r1",
		Data: map[string]any{"businessId": "b1", "date": "not a date"},
	}, now)

	require.NoError(t, err)
	assert.Equal(t, entities.AnonymousReviewer, review.UserName)
	assert.Equal(t, "", review.UserID)
	assert.Equal(t, 0, review.Rating)
	assert.Equal(t, "", review.Comment)
	assert.Equal(t, now, review.Date)
}

func TestDecodeReview_ParsesStoredValues(t *testing.T) {
	review, err := DecodeReview(&providers.Document{
		ID: "r2",
		Data: map[string]any{
			"businessId": "b1",
			"userId":     "u1",
			"userName":   "Sam",
			"rating":     4.0,
			"comment":    "Nice",
			"date":       "2023-10-15T00:00:00Z",
		},
	}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "Sam", review.UserName)
	assert.Equal(t, time.Date(2023, 10, 15, 0, 0, 0, 0, time.UTC), review.Date)
}

func TestDecodeAccount_RequiresCredentials(t *testing.T) {
	_, err := DecodeAccount(&providers.Document{ID: "a1", Data: map[string]any{"email": "a@example.com"}})
	assert.Error(t, err)

	account, err := DecodeAccount(&providers.Document{ID: "a1", Data: map[string]any{
		"email":        "a@example.com",
		"passwordHash": "hash",
		"disabled":     true,
	}})
	require.NoError(t, err)
	assert.True(t, account.Disabled)
	assert.Equal(t, "a@example.com", account.ToUser().Email)
}
