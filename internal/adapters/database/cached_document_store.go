package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/observability"
)

// Cache TTLs (in seconds)
const (
	documentByIDTTL   = 300 // 5 minutes for single documents
	documentsListTTL  = 180 // 3 minutes for whole collections
	documentKeyPrefix = "doc"
	documentListKey   = "docs:list"
)

func documentCacheKey(collection, id string) string {
	return fmt.Sprintf("%s:%s:%s", documentKeyPrefix, collection, id)
}

func documentsListCacheKey(collection string) string {
	return fmt.Sprintf("%s:%s", documentListKey, collection)
}

// CachedDocumentStore wraps a DocumentStore with a read-through cache for
// Get and List on selected collections. Writes invalidate before returning
// so a caller never reads its own write from a stale entry.
type CachedDocumentStore struct {
	store       providers.DocumentStore
	cache       providers.CacheProvider
	metrics     *observability.Metrics
	collections map[string]bool
}

// NewCachedDocumentStore creates a cached document store for the given collections
func NewCachedDocumentStore(store providers.DocumentStore, cache providers.CacheProvider, metrics *observability.Metrics, collections ...string) *CachedDocumentStore {
	cached := make(map[string]bool, len(collections))
	for _, c := range collections {
		cached[c] = true
	}
	return &CachedDocumentStore{
		store:       store,
		cache:       cache,
		metrics:     metrics,
		collections: cached,
	}
}

// Insert stores a document and invalidates the collection list
func (s *CachedDocumentStore) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	id, err := s.store.Insert(ctx, collection, data)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx, collection, "")
	return id, nil
}

// Get retrieves a document by id with caching
func (s *CachedDocumentStore) Get(ctx context.Context, collection, id string) (*providers.Document, error) {
	if !s.collections[collection] {
		return s.store.Get(ctx, collection, id)
	}

	key := documentCacheKey(collection, id)
	var doc providers.Document
	if s.lookup(ctx, collection, key, &doc) {
		return &doc, nil
	}

	fetched, err := s.store.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, key, fetched, documentByIDTTL)
	return fetched, nil
}

// GetMany delegates to the underlying store
func (s *CachedDocumentStore) GetMany(ctx context.Context, collection string, ids []string) ([]*providers.Document, error) {
	return s.store.GetMany(ctx, collection, ids)
}

// List retrieves every document in a collection with caching
func (s *CachedDocumentStore) List(ctx context.Context, collection string) ([]*providers.Document, error) {
	if !s.collections[collection] {
		return s.store.List(ctx, collection)
	}

	key := documentsListCacheKey(collection)
	var docs []*providers.Document
	if s.lookup(ctx, collection, key, &docs) {
		return docs, nil
	}

	fetched, err := s.store.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, key, fetched, documentsListTTL)
	return fetched, nil
}

// Query delegates to the underlying store
func (s *CachedDocumentStore) Query(ctx context.Context, collection, field, value string) ([]*providers.Document, error) {
	return s.store.Query(ctx, collection, field, value)
}

// Update merges a patch and invalidates the document and collection list
func (s *CachedDocumentStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	if err := s.store.Update(ctx, collection, id, patch); err != nil {
		return err
	}
	s.invalidate(ctx, collection, id)
	return nil
}

// Delete removes a document and invalidates the document and collection list
func (s *CachedDocumentStore) Delete(ctx context.Context, collection, id string) error {
	if err := s.store.Delete(ctx, collection, id); err != nil {
		return err
	}
	s.invalidate(ctx, collection, id)
	return nil
}

func (s *CachedDocumentStore) lookup(ctx context.Context, collection, key string, dest any) bool {
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		observability.RecordCacheMiss(ctx, s.metrics, collection)
		return false
	}
	if err := json.Unmarshal(cached, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to unmarshal cached documents")
		observability.RecordCacheMiss(ctx, s.metrics, collection)
		return false
	}
	observability.RecordCacheHit(ctx, s.metrics, collection)
	return true
}

func (s *CachedDocumentStore) fill(ctx context.Context, key string, value any, ttl int) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to marshal documents for cache")
		return
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to cache documents")
	}
}

func (s *CachedDocumentStore) invalidate(ctx context.Context, collection, id string) {
	if !s.collections[collection] {
		return
	}
	if err := s.cache.Delete(ctx, documentsListCacheKey(collection)); err != nil {
		log.Warn().Err(err).Str("collection", collection).Msg("failed to invalidate list cache")
	}
	if id == "" {
		return
	}
	if err := s.cache.Delete(ctx, documentCacheKey(collection, id)); err != nil {
		log.Warn().Err(err).Str("collection", collection).Str("id", id).Msg("failed to invalidate document cache")
	}
}

// Flush drops every cached document
func (s *CachedDocumentStore) Flush(ctx context.Context) error {
	if err := s.cache.DeletePattern(ctx, documentKeyPrefix+":*"); err != nil {
		return err
	}
	return s.cache.DeletePattern(ctx, documentListKey+":*")
}
