package adapters

import (
	"context"
	"testing"
	"time"

	"sku-tracker/internal/features/skus/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndGetSku(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	sku := &domain.Sku{
		CanonicalSku: "SKU-1",
		Name:         "Blue Widget",
		Identities:   []domain.Identity{{Provider: "UPC", Identifier: "012345678905", Confidence: 1}},
	}
	require.NoError(t, repo.CreateSku(ctx, sku))

	assert.Equal(t, int64(1), sku.ID)
	assert.False(t, sku.CreatedAt.IsZero())
	require.Len(t, sku.Identities, 1)
	assert.Equal(t, int64(1), sku.Identities[0].SkuID)

	got, err := repo.GetSku(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Blue Widget", got.Name)
	assert.Equal(t, "012345678905", got.Identities[0].Identifier)

	_, err = repo.GetSku(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrSkuNotFound)
}

func TestMemoryRepository_SearchSkus(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.CreateSku(ctx, &domain.Sku{CanonicalSku: "A", Name: "Blue Widget"}))
	require.NoError(t, repo.CreateSku(ctx, &domain.Sku{CanonicalSku: "B", Name: "Red Gadget"}))
	require.NoError(t, repo.CreateSku(ctx, &domain.Sku{CanonicalSku: "C", Name: "widget pro"}))

	result, err := repo.SearchSkus(ctx, "WIDGET")
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "A", result[0].CanonicalSku)
	assert.Equal(t, "C", result[1].CanonicalSku)

	result, err = repo.SearchSkus(ctx, "nothing")
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestMemoryRepository_CreateEvents_InsertionOrder(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.CreateSku(ctx, &domain.Sku{CanonicalSku: "A", Name: "Widget"}))

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []*domain.Event{
		{SkuID: 1, EventType: "B", ObservedAt: at.Add(time.Hour)},
		{SkuID: 1, EventType: "A", ObservedAt: at},
	}
	require.NoError(t, repo.CreateEvents(ctx, events))
	assert.Equal(t, int64(1), events[0].ID)
	assert.Equal(t, int64(2), events[1].ID)

	listed, err := repo.ListEvents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "B", listed[0].EventType)
	assert.Equal(t, "A", listed[1].EventType)
}

func TestMemoryRepository_CreateEvents_AllOrNothing(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.CreateSku(ctx, &domain.Sku{CanonicalSku: "A", Name: "Widget"}))

	err := repo.CreateEvents(ctx, []*domain.Event{
		{SkuID: 1, EventType: "OK"},
		{SkuID: 42, EventType: "ORPHAN"},
	})
	assert.ErrorIs(t, err, domain.ErrSkuNotFound)

	listed, err := repo.ListEvents(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
