package entities

import "time"

// Review bounds enforced when a review is submitted
const (
	MinReviewRating        = 1
	MaxReviewRating        = 5
	MinReviewCommentLength = 3
	MaxReviewCommentLength = 500
)

// AnonymousReviewer is shown for reviews stored without a user name
const AnonymousReviewer = "Anonymous"

// Review represents a user review of a business
type Review struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Date       time.Time `json:"date"`
}

// MeanRating returns the arithmetic mean of the review ratings and false when there are none
func MeanRating(reviews []*Review) (float64, bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews)), true
}
