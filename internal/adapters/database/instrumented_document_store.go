package database

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/observability"
)

// InstrumentedDocumentStore records a span and a duration metric per store operation
type InstrumentedDocumentStore struct {
	store   providers.DocumentStore
	metrics *observability.Metrics
}

// NewInstrumentedDocumentStore wraps store with tracing and metrics
func NewInstrumentedDocumentStore(store providers.DocumentStore, metrics *observability.Metrics) *InstrumentedDocumentStore {
	return &InstrumentedDocumentStore{store: store, metrics: metrics}
}

func (s *InstrumentedDocumentStore) observe(ctx context.Context, op, collection string, fn func(ctx context.Context) error) {
	ctx, span := observability.StartSpan(ctx, "store."+op,
		attribute.String("db.operation", op),
		attribute.String("db.collection", collection),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	observability.RecordStoreMetric(ctx, s.metrics, op, collection, time.Since(start), err)
	observability.RecordError(span, err)
}

func (s *InstrumentedDocumentStore) Insert(ctx context.Context, collection string, data map[string]any) (id string, err error) {
	s.observe(ctx, "insert", collection, func(ctx context.Context) error {
		id, err = s.store.Insert(ctx, collection, data)
		return err
	})
	return id, err
}

func (s *InstrumentedDocumentStore) Get(ctx context.Context, collection, id string) (doc *providers.Document, err error) {
	s.observe(ctx, "get", collection, func(ctx context.Context) error {
		doc, err = s.store.Get(ctx, collection, id)
		return err
	})
	return doc, err
}

func (s *InstrumentedDocumentStore) GetMany(ctx context.Context, collection string, ids []string) (docs []*providers.Document, err error) {
	s.observe(ctx, "get_many", collection, func(ctx context.Context) error {
		docs, err = s.store.GetMany(ctx, collection, ids)
		return err
	})
	return docs, err
}

func (s *InstrumentedDocumentStore) List(ctx context.Context, collection string) (docs []*providers.Document, err error) {
	s.observe(ctx, "list", collection, func(ctx context.Context) error {
		docs, err = s.store.List(ctx, collection)
		return err
	})
	return docs, err
}

func (s *InstrumentedDocumentStore) Query(ctx context.Context, collection, field, value string) (docs []*providers.Document, err error) {
	s.observe(ctx, "query", collection, func(ctx context.Context) error {
		docs, err = s.store.Query(ctx, collection, field, value)
		return err
	})
	return docs, err
}

func (s *InstrumentedDocumentStore) Update(ctx context.Context, collection, id string, patch map[string]any) (err error) {
	s.observe(ctx, "update", collection, func(ctx context.Context) error {
		err = s.store.Update(ctx, collection, id, patch)
		return err
	})
	return err
}

func (s *InstrumentedDocumentStore) Delete(ctx context.Context, collection, id string) (err error) {
	s.observe(ctx, "delete", collection, func(ctx context.Context) error {
		err = s.store.Delete(ctx, collection, id)
		return err
	})
	return err
}
