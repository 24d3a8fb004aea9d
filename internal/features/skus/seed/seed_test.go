package seed

import (
	"context"
	"testing"

	"sku-tracker/internal/features/skus/adapters"
	"sku-tracker/internal/features/skus/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRun verifies the samples are stored with their history and a second run creates nothing.
func TestRun(t *testing.T) {
	ctx := context.Background()
	svc := service.NewSkuService(adapters.NewMemoryRepository(), nil)

	created, err := Run(ctx, svc, Samples())
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	skus, err := svc.SearchSkus(ctx, "Earbuds")
	require.NoError(t, err)
	require.Len(t, skus, 1)
	assert.Len(t, skus[0].Identities, 2)

	timeline, err := svc.GetTimeline(ctx, skus[0].ID)
	require.NoError(t, err)
	assert.Len(t, timeline.Events, 3)
	assert.Equal(t, "DELIVERED_DC", timeline.InferredStatus)
	require.NotNil(t, timeline.LastKnownLocation)
	assert.Equal(t, "Dallas, TX", *timeline.LastKnownLocation)

	skus, err = svc.SearchSkus(ctx, "Smartwatch")
	require.NoError(t, err)
	require.Len(t, skus, 1)
	timeline, err = svc.GetTimeline(ctx, skus[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "DELIVERED_RETAIL", timeline.InferredStatus)

	created, err = Run(ctx, svc, Samples())
	require.NoError(t, err)
	assert.Zero(t, created)
}

// TestRun_InvalidSample verifies a sample without a name is rejected before anything is stored.
func TestRun_InvalidSample(t *testing.T) {
	ctx := context.Background()
	svc := service.NewSkuService(adapters.NewMemoryRepository(), nil)

	_, err := Run(ctx, svc, []SampleSku{{CanonicalSku: "GTIN-1", Name: " "}})
	assert.Error(t, err)
}
