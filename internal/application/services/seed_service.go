package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/bizdirectory/internal/domain/repositories"
	"github.com/zatekoja/bizdirectory/internal/domain/samples"
)

// CacheFlusher drops cached store reads
type CacheFlusher interface {
	Flush(ctx context.Context) error
}

// SeedResult summarizes a seed run
type SeedResult struct {
	Skipped    bool     `json:"skipped"`
	Businesses []string `json:"businesses"`
	Reviews    int      `json:"reviews"`
}

// SeedService populates an empty store with the sample catalog
type SeedService struct {
	businesses repositories.BusinessRepository
	reviews    repositories.ReviewRepository
	search     repositories.BusinessSearchRepository
	cache      CacheFlusher
}

// NewSeedService creates a seed service. search and cache may be nil.
func NewSeedService(
	businesses repositories.BusinessRepository,
	reviews repositories.ReviewRepository,
	search repositories.BusinessSearchRepository,
	cache CacheFlusher,
) *SeedService {
	return &SeedService{
		businesses: businesses,
		reviews:    reviews,
		search:     search,
		cache:      cache,
	}
}

// DataExists reports whether the business collection is non-empty
func (s *SeedService) DataExists(ctx context.Context) (bool, error) {
	businesses, err := s.businesses.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing businesses: %w", err)
	}
	return len(businesses) > 0, nil
}

// Seed inserts the sample businesses and attaches the sample reviews to the
// inserted businesses by position. It does nothing when businesses exist.
func (s *SeedService) Seed(ctx context.Context) (*SeedResult, error) {
	exists, err := s.DataExists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		log.Info().Msg("database already contains data, skipping seed")
		return &SeedResult{Skipped: true}, nil
	}

	log.Info().Msg("seeding database with sample data")
	result := &SeedResult{}
	for _, business := range samples.Businesses() {
		if err := s.businesses.Create(ctx, business); err != nil {
			return result, fmt.Errorf("failed to seed business %q: %w", business.Name, err)
		}
		result.Businesses = append(result.Businesses, business.ID)
		log.Info().Str("business_id", business.ID).Str("name", business.Name).Msg("seeded business")

		if s.search != nil {
			if err := s.search.Index(ctx, business); err != nil {
				log.Warn().Err(err).Str("business_id", business.ID).Msg("failed to index seeded business")
			}
		}
	}

	for _, seed := range samples.SeedReviews() {
		if seed.BusinessIndex >= len(result.Businesses) {
			continue
		}
		review := seed.Review
		review.BusinessID = result.Businesses[seed.BusinessIndex]
		if err := s.reviews.CreateWithDate(ctx, &review); err != nil {
			return result, fmt.Errorf("failed to seed review for business %s: %w", review.BusinessID, err)
		}
		result.Reviews++
	}

	if s.cache != nil {
		if err := s.cache.Flush(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to flush cache after seeding")
		}
	}

	log.Info().Int("businesses", len(result.Businesses)).Int("reviews", result.Reviews).Msg("database seeding completed")
	return result, nil
}
