package samples

import (
	"time"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
)

func day(value string) time.Time {
	t, _ := time.Parse(time.DateOnly, value)
	return t
}

// SeedReview is a sample review and the position of the seeded business it belongs to.
type SeedReview struct {
	BusinessIndex int
	Review        entities.Review
}

// SeedReviews returns the reviews attached to the first three seeded businesses.
func SeedReviews() []SeedReview {
	return []SeedReview{
		{BusinessIndex: 0, Review: entities.Review{
			UserID:   "user1",
			UserName: "Sarah Johnson",
			Rating:   5,
			Comment:  "Absolutely love this place! The ocean view is stunning and the avocado toast is to die for. Staff is always friendly and the coffee is excellent.",
			Date:     day("2023-10-15"),
		}},
		{BusinessIndex: 0, Review: entities.Review{
			UserID:   "user2",
			UserName: "Michael Chen",
			Rating:   4,
			Comment:  "Great spot for breakfast meetings. The wifi is reliable and the atmosphere is perfect for getting work done. Only giving 4 stars because it gets pretty crowded on weekends.",
			Date:     day("2023-09-22"),
		}},
		{BusinessIndex: 0, Review: entities.Review{
			UserID:   "user3",
			UserName: "Jessica Williams",
			Rating:   5,
			Comment:  "Their vegan options are amazing! I appreciate that they clearly label allergens on their menu. The staff was very accommodating with my dietary restrictions.",
			Date:     day("2023-11-05"),
		}},
		{BusinessIndex: 1, Review: entities.Review{
			UserID:   "user4",
			UserName: "David Rodriguez",
			Rating:   5,
			Comment:  "The technicians were extremely knowledgeable and fixed my computer issues quickly. Fair pricing and excellent customer service. Highly recommend!",
			Date:     day("2023-10-10"),
		}},
		{BusinessIndex: 2, Review: entities.Review{
			UserID:   "user5",
			UserName: "Emily Thompson",
			Rating:   4,
			Comment:  "Great selection of plants and the staff was very helpful with recommendations for my garden. Prices are a bit high but the quality is worth it.",
			Date:     day("2023-11-15"),
		}},
	}
}

func fallbackReviews() []*entities.Review {
	return []*entities.Review{
		{
			ID:       "sample1",
			UserID:   "user1",
			UserName: "Sarah Johnson",
			Rating:   5,
			Comment:  "Absolutely love this place! The service is excellent and the atmosphere is perfect.",
			Date:     day("2023-10-15"),
		},
		{
			ID:       "sample2",
			UserID:   "user2",
			UserName: "Michael Chen",
			Rating:   4,
			Comment:  "Great experience overall. Would definitely recommend to others looking for quality service.",
			Date:     day("2023-09-22"),
		},
		{
			ID:       "sample3",
			UserID:   "user3",
			UserName: "Jessica Williams",
			Rating:   5,
			Comment:  "Exceptional service and attention to detail. The staff was very accommodating with my requests.",
			Date:     day("2023-11-05"),
		},
	}
}

// EmptyFallbackReviews is shown when a business has no stored reviews.
func EmptyFallbackReviews(businessID string) []*entities.Review {
	reviews := fallbackReviews()
	for _, r := range reviews {
		r.BusinessID = businessID
	}
	return reviews
}

// ErrorFallbackReviews is shown when the reviews query fails.
func ErrorFallbackReviews(businessID string) []*entities.Review {
	return EmptyFallbackReviews(businessID)[:2]
}
