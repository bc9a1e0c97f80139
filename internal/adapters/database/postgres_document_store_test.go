package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/bizdirectory/internal/domain/providers"
	"github.com/zatekoja/bizdirectory/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/bizdirectory/pkg/errors"
)

func setupPostgresStore(t *testing.T) (*PostgresDocumentStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresDocumentStore(postgres.NewClientFromDB(db)), mock
}

var documentColumns = []string{"id", "data", "created_at", "updated_at"}

func TestPostgresDocumentStore_Insert(t *testing.T) {
	store, mock := setupPostgresStore(t)

	mock.ExpectExec(`INSERT INTO "documents"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := store.Insert(context.Background(), providers.CollectionReviews, map[string]any{
		"businessId": "b1",
		"rating":     5,
		"date":       providers.ServerTimestamp,
	})

	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDocumentStore_Insert_UniqueViolationIsConflict(t *testing.T) {
	store, mock := setupPostgresStore(t)

	mock.ExpectExec(`INSERT INTO "documents"`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	_, err := store.Insert(context.Background(), providers.CollectionAccounts, map[string]any{"email": "a@b.co"})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestPostgresDocumentStore_Get(t *testing.T) {
	store, mock := setupPostgresStore(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM "documents" WHERE`).
		WillReturnRows(sqlmock.NewRows(documentColumns).
			AddRow("b1", []byte(`{"name":"Coastal Cafe","rating":4.5}`), created, created))

	doc, err := store.Get(context.Background(), providers.CollectionBusinesses, "b1")

	require.NoError(t, err)
	assert.Equal(t, "b1", doc.ID)
	assert.Equal(t, "Coastal Cafe", doc.Data["name"])
	assert.Equal(t, 4.5, doc.Data["rating"])
	assert.Equal(t, created, doc.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDocumentStore_Get_NotFound(t *testing.T) {
	store, mock := setupPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM "documents" WHERE`).
		WillReturnRows(sqlmock.NewRows(documentColumns))

	_, err := store.Get(context.Background(), providers.CollectionBusinesses, "missing")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPostgresDocumentStore_Query_TransportErrorIsStoreError(t *testing.T) {
	store, mock := setupPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM "documents" WHERE .+data->>`).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := store.Query(context.Background(), providers.CollectionReviews, "businessId", "b1")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStore))
}

func TestPostgresDocumentStore_GetMany_KeepsRequestedOrder(t *testing.T) {
	store, mock := setupPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM "documents" WHERE .+IN`).
		WillReturnRows(sqlmock.NewRows(documentColumns).
			AddRow("b1", []byte(`{"name":"One"}`), now, now).
			AddRow("b3", []byte(`{"name":"Three"}`), now, now))

	docs, err := store.GetMany(context.Background(), providers.CollectionBusinesses, []string{"b3", "b2", "b1"})

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b3", docs[0].ID)
	assert.Equal(t, "b1", docs[1].ID)
}

func TestPostgresDocumentStore_GetMany_EmptyIDsSkipsQuery(t *testing.T) {
	store, mock := setupPostgresStore(t)

	docs, err := store.GetMany(context.Background(), providers.CollectionBusinesses, nil)

	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDocumentStore_Update(t *testing.T) {
	store, mock := setupPostgresStore(t)

	mock.ExpectExec(`UPDATE "documents" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Update(context.Background(), providers.CollectionBusinesses, "b1", map[string]any{"rating": 4.0})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDocumentStore_Update_NotFound(t *testing.T) {
	store, mock := setupPostgresStore(t)

	mock.ExpectExec(`UPDATE "documents" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Update(context.Background(), providers.CollectionBusinesses, "missing", map[string]any{"rating": 4.0})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPostgresDocumentStore_Delete(t *testing.T) {
	store, mock := setupPostgresStore(t)

	mock.ExpectExec(`DELETE FROM "documents"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Delete(context.Background(), providers.CollectionFavorites, "f1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDocumentStore_EnsureSchema(t *testing.T) {
	store, mock := setupPostgresStore(t)

	for range documentSchema {
		mock.ExpectExec(`CREATE`).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
