package adapters

import (
	"context"
	"testing"
	"time"

	"sku-tracker/internal/features/skus/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	skuColumns      = []string{"id", "canonical_sku", "name", "description", "brand", "created_at", "updated_at"}
	identityColumns = []string{"id", "sku_id", "provider", "identifier", "confidence", "created_at", "updated_at"}
	eventColumns    = append([]string{"id"}, sqlParamsEvent...)
)

func newMockRepository(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresRepository_CreateSku(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO skus").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery("INSERT INTO sku_identities").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectCommit()

	sku := &domain.Sku{
		CanonicalSku: "SKU-7",
		Name:         "Widget",
		Identities:   []domain.Identity{{Provider: "UPC", Identifier: "012345678905", Confidence: 1}},
	}
	err := repo.CreateSku(context.Background(), sku)

	require.NoError(t, err)
	assert.Equal(t, int64(7), sku.ID)
	require.Len(t, sku.Identities, 1)
	assert.Equal(t, int64(3), sku.Identities[0].ID)
	assert.Equal(t, int64(7), sku.Identities[0].SkuID)
	assert.False(t, sku.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetSku(t *testing.T) {
	repo, mock := newMockRepository(t)
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM skus WHERE id").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(skuColumns).AddRow(int64(7), "SKU-7", "Widget", nil, "Acme", ts, ts))
	mock.ExpectQuery("FROM sku_identities WHERE sku_id = ANY").
		WillReturnRows(sqlmock.NewRows(identityColumns).AddRow(int64(3), int64(7), "UPC", "012345678905", 1.0, ts, ts))

	sku, err := repo.GetSku(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, "Widget", sku.Name)
	assert.Nil(t, sku.Description)
	require.NotNil(t, sku.Brand)
	assert.Equal(t, "Acme", *sku.Brand)
	require.Len(t, sku.Identities, 1)
	assert.Equal(t, "012345678905", sku.Identities[0].Identifier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetSku_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM skus WHERE id").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(skuColumns))

	_, err := repo.GetSku(context.Background(), 99)

	assert.ErrorIs(t, err, domain.ErrSkuNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SearchSkus_EscapesWildcards(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM skus WHERE name ILIKE").WithArgs(`%50\%\_off%`).
		WillReturnRows(sqlmock.NewRows(skuColumns))

	result, err := repo.SearchSkus(context.Background(), "50%_off")

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateEvents(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO sku_events").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectQuery("INSERT INTO sku_events").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))
	mock.ExpectCommit()

	events := []*domain.Event{
		{SkuID: 1, EventType: "PICKUP", Provider: "UPS", Payload: map[string]any{"a": 1}, Confidence: 1},
		{SkuID: 1, EventType: "DELIVERED", Provider: "UPS", Confidence: 1},
	}
	err := repo.CreateEvents(context.Background(), events)

	require.NoError(t, err)
	assert.Equal(t, int64(11), events[0].ID)
	assert.Equal(t, int64(12), events[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateEvents_UnknownSkuRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO sku_events").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectQuery("INSERT INTO sku_events").
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})
	mock.ExpectRollback()

	events := []*domain.Event{
		{SkuID: 1, EventType: "PICKUP", Provider: "UPS"},
		{SkuID: 404, EventType: "DELIVERED", Provider: "UPS"},
	}
	err := repo.CreateEvents(context.Background(), events)

	assert.ErrorIs(t, err, domain.ErrSkuNotFound)
	assert.Zero(t, events[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListEvents(t *testing.T) {
	repo, mock := newMockRepository(t)
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM sku_events WHERE sku_id").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(eventColumns).
			AddRow(int64(11), int64(1), "D", "UPS", "Dallas", []byte(`{"status":{"type":"D"}}`), nil, ts, 1.0, "run-1", ts, ts).
			AddRow(int64(12), int64(1), "NOTE", "warehouse", nil, []byte(`{}`), []byte(`{"raw":true}`), ts, 0.5, "", ts, ts))

	events, err := repo.ListEvents(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, events, 2)
	require.NotNil(t, events[0].Location)
	assert.Equal(t, "Dallas", *events[0].Location)
	assert.Equal(t, map[string]any{"type": "D"}, events[0].Payload["status"])
	assert.Nil(t, events[0].RawPayload)
	assert.Equal(t, "run-1", events[0].IngestionID)
	assert.Nil(t, events[1].Location)
	assert.Equal(t, true, events[1].RawPayload["raw"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
