package samples

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackBusinesses_IDs(t *testing.T) {
	businesses := FallbackBusinesses()
	require.Len(t, businesses, 6)
	assert.Equal(t, "sample-0", businesses[0].ID)
	assert.Equal(t, "Coastal Cafe", businesses[0].Name)
	assert.Equal(t, "sample-5", businesses[5].ID)
	assert.Equal(t, "Closed", businesses[1].Hours.Sunday)
}

func TestFallbackBusinesses_FreshCopies(t *testing.T) {
	a := FallbackBusinesses()
	a[0].Name = "changed"
	assert.Equal(t, "Coastal Cafe", FallbackBusinesses()[0].Name)
}

func TestSeedReviews_Positions(t *testing.T) {
	reviews := SeedReviews()
	require.Len(t, reviews, 5)
	positions := make([]int, len(reviews))
	for i, r := range reviews {
		positions[i] = r.BusinessIndex
	}
	assert.Equal(t, []int{0, 0, 0, 1, 2}, positions)
	assert.Equal(t, 2023, reviews[0].Review.Date.Year())
}

func TestFallbackReviews(t *testing.T) {
	empty := EmptyFallbackReviews("b1")
	require.Len(t, empty, 3)
	assert.Equal(t, "sample1", empty[0].ID)
	assert.Equal(t, "b1", empty[2].BusinessID)

	failed := ErrorFallbackReviews("b1")
	require.Len(t, failed, 2)
	assert.Equal(t, "sample2", failed[1].ID)
}
