package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/bizdirectory/pkg/errors"
)

const documentsTable = "documents"

const uniqueViolation = "23505"

var documentSchema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		seq BIGSERIAL,
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (collection, id)
	)`,
	`CREATE INDEX IF NOT EXISTS documents_collection_seq_idx ON documents (collection, seq)`,
	`CREATE INDEX IF NOT EXISTS documents_business_id_idx ON documents (collection, (data->>'businessId'))`,
	`CREATE INDEX IF NOT EXISTS documents_user_id_idx ON documents (collection, (data->>'userId'))`,
	`CREATE UNIQUE INDEX IF NOT EXISTS documents_account_email_idx ON documents ((data->>'email')) WHERE collection = 'accounts'`,
}

// PostgresDocumentStore keeps every collection in one JSONB table
type PostgresDocumentStore struct {
	client *postgres.Client
	db     *goqu.Database
	now    func() time.Time
}

// NewPostgresDocumentStore creates a new Postgres-backed document store
func NewPostgresDocumentStore(client *postgres.Client) *PostgresDocumentStore {
	return &PostgresDocumentStore{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// EnsureSchema creates the documents table and its indexes
func (s *PostgresDocumentStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range documentSchema {
		if _, err := s.client.DB().ExecContext(ctx, stmt); err != nil {
			return apperrors.NewStoreError("failed to apply document schema", err)
		}
	}
	return nil
}

// Insert stores a new document under a generated id
func (s *PostgresDocumentStore) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.New().String()
	now := s.now()

	raw, err := json.Marshal(providers.ResolveServerTimestamps(data, now))
	if err != nil {
		return "", apperrors.NewInternalError("failed to encode document", err)
	}

	query, args, err := s.db.Insert(documentsTable).Prepared(true).Rows(goqu.Record{
		"collection": collection,
		"id":         id,
		"data":       string(raw),
		"created_at": now,
		"updated_at": now,
	}).ToSQL()
	if err != nil {
		return "", apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := s.client.DB().ExecContext(ctx, query, args...); err != nil {
		return "", classifyWriteError(fmt.Sprintf("failed to insert into %s", collection), err)
	}
	return id, nil
}

// Get retrieves a document by id
func (s *PostgresDocumentStore) Get(ctx context.Context, collection, id string) (*providers.Document, error) {
	query, args, err := s.selectDocuments().
		Where(goqu.Ex{"collection": collection, "id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build select query", err)
	}

	row := s.client.DB().QueryRowContext(ctx, query, args...)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s document %s not found", collection, id))
	}
	if err != nil {
		return nil, apperrors.NewStoreError(fmt.Sprintf("failed to get %s document", collection), err)
	}
	return doc, nil
}

// GetMany retrieves the documents present among ids, ordered like ids
func (s *PostgresDocumentStore) GetMany(ctx context.Context, collection string, ids []string) ([]*providers.Document, error) {
	if len(ids) == 0 {
		return []*providers.Document{}, nil
	}

	docs, err := s.queryDocuments(ctx, collection, s.selectDocuments().
		Where(goqu.Ex{"collection": collection, "id": ids}))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*providers.Document, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}
	ordered := make([]*providers.Document, 0, len(docs))
	for _, id := range ids {
		if doc, ok := byID[id]; ok {
			ordered = append(ordered, doc)
		}
	}
	return ordered, nil
}

// List retrieves every document of a collection in insertion order
func (s *PostgresDocumentStore) List(ctx context.Context, collection string) ([]*providers.Document, error) {
	return s.queryDocuments(ctx, collection, s.selectDocuments().
		Where(goqu.Ex{"collection": collection}).
		Order(goqu.C("seq").Asc()))
}

// Query retrieves documents whose top-level field equals value
func (s *PostgresDocumentStore) Query(ctx context.Context, collection, field, value string) ([]*providers.Document, error) {
	return s.queryDocuments(ctx, collection, s.selectDocuments().
		Where(
			goqu.Ex{"collection": collection},
			goqu.L("data->>?", field).Eq(value),
		).
		Order(goqu.C("seq").Asc()))
}

// Update merges patch into the stored document
func (s *PostgresDocumentStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	now := s.now()
	raw, err := json.Marshal(providers.ResolveServerTimestamps(patch, now))
	if err != nil {
		return apperrors.NewInternalError("failed to encode document patch", err)
	}

	query, args, err := s.db.Update(documentsTable).Prepared(true).
		Set(goqu.Record{
			"data":       goqu.L("data || ?::jsonb", string(raw)),
			"updated_at": now,
		}).
		Where(goqu.Ex{"collection": collection, "id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := s.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return classifyWriteError(fmt.Sprintf("failed to update %s document", collection), err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("failed to read affected rows", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s document %s not found", collection, id))
	}
	return nil
}

// Delete removes a document
func (s *PostgresDocumentStore) Delete(ctx context.Context, collection, id string) error {
	query, args, err := s.db.Delete(documentsTable).Prepared(true).
		Where(goqu.Ex{"collection": collection, "id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err := s.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewStoreError(fmt.Sprintf("failed to delete %s document", collection), err)
	}
	return nil
}

func (s *PostgresDocumentStore) selectDocuments() *goqu.SelectDataset {
	return s.db.From(documentsTable).Prepared(true).
		Select("id", "data", "created_at", "updated_at")
}

func (s *PostgresDocumentStore) queryDocuments(ctx context.Context, collection string, ds *goqu.SelectDataset) ([]*providers.Document, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build select query", err)
	}

	rows, err := s.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError(fmt.Sprintf("failed to query %s", collection), err)
	}
	defer rows.Close()

	docs := make([]*providers.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, apperrors.NewStoreError(fmt.Sprintf("failed to scan %s document", collection), err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError(fmt.Sprintf("failed to iterate %s", collection), err)
	}
	return docs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*providers.Document, error) {
	var (
		doc providers.Document
		raw []byte
	)
	if err := row.Scan(&doc.ID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return nil, fmt.Errorf("invalid document data for %s: %w", doc.ID, err)
	}
	if doc.Data == nil {
		doc.Data = map[string]any{}
	}
	return &doc, nil
}

func classifyWriteError(message string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperrors.NewConflictError(message, err)
	}
	return apperrors.NewStoreError(message, err)
}
