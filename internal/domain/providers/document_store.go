package providers

import (
	"context"
	"time"
)

// Collection names in the document store
const (
	CollectionBusinesses = "businesses"
	CollectionReviews    = "reviews"
	CollectionFavorites  = "favorites"
	CollectionAccounts   = "accounts"
)

type serverTimestamp struct{}

// ServerTimestamp is replaced by the store's clock when it appears as a field value in Insert or Update.
var ServerTimestamp = serverTimestamp{}

// Document is a schemaless record read from a collection
type Document struct {
	ID        string
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentStore defines collection-scoped document operations
type DocumentStore interface {
	// Insert stores a new document and returns its assigned id
	Insert(ctx context.Context, collection string, data map[string]any) (string, error)

	// Get retrieves a document by id; a NOT_FOUND error is returned when absent
	Get(ctx context.Context, collection, id string) (*Document, error)

	// GetMany retrieves the documents that exist among ids, in the order of ids
	GetMany(ctx context.Context, collection string, ids []string) ([]*Document, error)

	// List retrieves every document in a collection in insertion order
	List(ctx context.Context, collection string) ([]*Document, error)

	// Query retrieves documents whose top-level field equals value
	Query(ctx context.Context, collection, field, value string) ([]*Document, error)

	// Update merges patch into the top-level fields of a document; NOT_FOUND when absent
	Update(ctx context.Context, collection, id string, patch map[string]any) error

	// Delete removes a document; deleting an absent id is not an error
	Delete(ctx context.Context, collection, id string) error
}

// ResolveServerTimestamps returns a copy of data with every ServerTimestamp replaced by now
func ResolveServerTimestamps(data map[string]any, now time.Time) map[string]any {
	resolved := make(map[string]any, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			resolved[k] = now.UTC().Format(time.RFC3339Nano)
			continue
		}
		resolved[k] = v
	}
	return resolved
}
