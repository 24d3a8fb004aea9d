package ports

import (
	"context"

	"sku-tracker/internal/features/connectors/domain"
)

// ShipmentConnector is implemented by every carrier integration.
// This is a Secondary Port (Driven Port).
type ShipmentConnector interface {
	// Name returns the canonical provider name (e.g., "FedEx").
	Name() string
	// Track fetches the scans for trackingNumber and maps them to canonical events,
	// in the order the provider reported them.
	Track(ctx context.Context, trackingNumber string) ([]domain.CanonicalEvent, error)
}

// CatalogConnector is implemented by every product catalog integration.
// This is a Secondary Port (Driven Port).
type CatalogConnector interface {
	// Name returns the canonical provider name (e.g., "UPCItemDB").
	Name() string
	// Lookup resolves identifier to the first matching product.
	// Unknown identifiers yield an empty product, not an error.
	Lookup(ctx context.Context, identifier string) (*domain.CanonicalProduct, error)
}

// Dispatcher resolves connectors by provider tag. Provider-specific types never leave it.
type Dispatcher interface {
	Shipment(provider domain.ShipmentProvider) (ShipmentConnector, error)
	Catalog(provider domain.CatalogProvider) (CatalogConnector, error)
}
