package database

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	apperrors "github.com/zatekoja/bizdirectory/pkg/errors"
)

type memoryCollection struct {
	order []string
	docs  map[string]*providers.Document
}

// MemoryDocumentStore keeps documents in process memory. Values are
// round-tripped through JSON so reads look like Postgres JSONB reads.
type MemoryDocumentStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
	now         func() time.Time
}

// NewMemoryDocumentStore creates an empty in-memory document store
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		collections: make(map[string]*memoryCollection),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var emptyCollection = &memoryCollection{docs: map[string]*providers.Document{}}

// existing returns the named collection, or an empty one, without creating it.
// Safe under the read lock.
func (s *MemoryDocumentStore) existing(name string) *memoryCollection {
	if c, ok := s.collections[name]; ok {
		return c
	}
	return emptyCollection
}

// collection returns the named collection, creating it. Requires the write lock.
func (s *MemoryDocumentStore) collection(name string) *memoryCollection {
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{docs: make(map[string]*providers.Document)}
		s.collections[name] = c
	}
	return c
}

// Insert stores a new document under a generated id
func (s *MemoryDocumentStore) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperrors.NewStoreError("insert cancelled", err)
	}

	now := s.now()
	normalized, err := normalize(providers.ResolveServerTimestamps(data, now))
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if collection == providers.CollectionAccounts {
		if email, ok := normalized["email"].(string); ok && s.emailTaken(email) {
			return "", apperrors.NewConflictError(fmt.Sprintf("account with email %s already exists", email), nil)
		}
	}

	id := uuid.New().String()
	c := s.collection(collection)
	c.order = append(c.order, id)
	c.docs[id] = &providers.Document{ID: id, Data: normalized, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (s *MemoryDocumentStore) emailTaken(email string) bool {
	for _, doc := range s.existing(providers.CollectionAccounts).docs {
		if doc.Data["email"] == email {
			return true
		}
	}
	return false
}

// Get retrieves a document by id
func (s *MemoryDocumentStore) Get(ctx context.Context, collection, id string) (*providers.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewStoreError("get cancelled", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.existing(collection).docs[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s document %s not found", collection, id))
	}
	return copyDocument(doc), nil
}

// GetMany retrieves the documents present among ids, ordered like ids
func (s *MemoryDocumentStore) GetMany(ctx context.Context, collection string, ids []string) ([]*providers.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewStoreError("get cancelled", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.existing(collection)
	docs := make([]*providers.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := c.docs[id]; ok {
			docs = append(docs, copyDocument(doc))
		}
	}
	return docs, nil
}

// List retrieves every document of a collection in insertion order
func (s *MemoryDocumentStore) List(ctx context.Context, collection string) ([]*providers.Document, error) {
	return s.filter(ctx, collection, func(*providers.Document) bool { return true })
}

// Query retrieves documents whose top-level field equals value
func (s *MemoryDocumentStore) Query(ctx context.Context, collection, field, value string) ([]*providers.Document, error) {
	return s.filter(ctx, collection, func(doc *providers.Document) bool {
		v, ok := doc.Data[field].(string)
		return ok && v == value
	})
}

func (s *MemoryDocumentStore) filter(ctx context.Context, collection string, keep func(*providers.Document) bool) ([]*providers.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewStoreError("query cancelled", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.existing(collection)
	docs := make([]*providers.Document, 0, len(c.order))
	for _, id := range c.order {
		if doc := c.docs[id]; keep(doc) {
			docs = append(docs, copyDocument(doc))
		}
	}
	return docs, nil
}

// Update merges patch into the stored document
func (s *MemoryDocumentStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewStoreError("update cancelled", err)
	}

	now := s.now()
	normalized, err := normalize(providers.ResolveServerTimestamps(patch, now))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.existing(collection).docs[id]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s document %s not found", collection, id))
	}
	maps.Copy(doc.Data, normalized)
	doc.UpdatedAt = now
	return nil
}

// Delete removes a document
func (s *MemoryDocumentStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewStoreError("delete cancelled", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.existing(collection)
	if _, ok := c.docs[id]; !ok {
		return nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func normalize(data map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode document", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperrors.NewInternalError("failed to decode document", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func copyDocument(doc *providers.Document) *providers.Document {
	// Nested values are never mutated in place, so a shallow copy is enough.
	return &providers.Document{
		ID:        doc.ID,
		Data:      maps.Clone(doc.Data),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}
