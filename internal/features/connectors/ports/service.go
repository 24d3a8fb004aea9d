package ports

import (
	"context"

	"sku-tracker/internal/features/connectors/domain"
	skudomain "sku-tracker/internal/features/skus/domain"
)

// TrackRequest asks for the events of one shipment to be ingested for a SKU.
type TrackRequest struct {
	SkuID          int64                   `json:"sku_id"`
	TrackingNumber string                  `json:"tracking_number"`
	Provider       domain.ShipmentProvider `json:"provider"`
}

// BatchResult is the outcome of one TrackRequest in a batch. Exactly one of Events and Err is set.
type BatchResult struct {
	Events []skudomain.Event
	Err    error
}

// IngestionService defines the primary port for provider-driven operations.
type IngestionService interface {
	TrackShipment(ctx context.Context, req TrackRequest) ([]skudomain.Event, error)
	IngestBatch(ctx context.Context, reqs []TrackRequest) []BatchResult
	LookupCatalog(ctx context.Context, identifier string, provider domain.CatalogProvider) (*domain.CanonicalProduct, error)
}
