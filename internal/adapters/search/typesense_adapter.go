package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
	"github.com/zatekoja/bizdirectory/internal/domain/repositories"
	tsclient "github.com/zatekoja/bizdirectory/internal/infrastructure/clients/typesense"
)

const (
	suggestQueryBy = "name,category,description"
)

// TypesenseAdapter implements business search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.BusinessSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a business into the search index
func (a *TypesenseAdapter) Index(ctx context.Context, business *entities.Business) error {
	_, err := a.client.Client().Collection(tsclient.BusinessesCollection).Documents().Upsert(ctx, businessDocument(business))
	if err != nil {
		return fmt.Errorf("failed to index business: %w", err)
	}
	return nil
}

// Delete removes a business from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.BusinessesCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete business from index: %w", err)
	}
	return nil
}

// Suggest returns businesses whose name, category or description match a prefix query
func (a *TypesenseAdapter) Suggest(ctx context.Context, query string, limit int) ([]*repositories.BusinessSuggestion, error) {
	result, err := a.client.Client().Collection(tsclient.BusinessesCollection).Documents().Search(ctx, suggestParams(query, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search businesses: %w", err)
	}

	suggestions := []*repositories.BusinessSuggestion{}
	if result.Hits == nil {
		return suggestions, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		suggestion, err := decodeSuggestion(*hit.Document)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions, nil
}

func businessDocument(b *entities.Business) map[string]interface{} {
	return map[string]interface{}{
		"id":          b.ID,
		"name":        b.Name,
		"description": b.Description,
		"category":    b.Category,
		"city":        b.City,
		"rating":      b.Rating,
		"location":    []float64{b.Location.Lat, b.Location.Lng},
	}
}

func suggestParams(query string, limit int) *api.SearchCollectionParams {
	q := strings.TrimSpace(query)
	if q == "" {
		q = "*"
	}
	return &api.SearchCollectionParams{
		Q:       pointer.String(q),
		QueryBy: pointer.String(suggestQueryBy),
		SortBy:  pointer.String("_text_match:desc,rating:desc"),
		Page:    pointer.Int(1),
		PerPage: pointer.Int(repositories.ClampSuggestLimit(limit)),
	}
}

func decodeSuggestion(doc map[string]interface{}) (*repositories.BusinessSuggestion, error) {
	var suggestion repositories.BusinessSuggestion
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &suggestion,
		TagName: "json",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode search hit: %w", err)
	}
	return &suggestion, nil
}
