package entities

import "time"

// Favorite joins a user to a business they saved
type Favorite struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	BusinessID string    `json:"businessId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FavoriteRecord pairs a favorite's id with the business it references.
// Removal is by favorite id, so callers resolve it from here first.
type FavoriteRecord struct {
	ID         string `json:"id"`
	BusinessID string `json:"businessId"`
}
