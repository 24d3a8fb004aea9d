package ports

import (
	"context"

	"sku-tracker/internal/features/skus/domain"
)

// SkuService defines the primary port for SKU catalogue and timeline operations.
type SkuService interface {
	CreateSku(ctx context.Context, sku *domain.Sku) (*domain.Sku, error)
	RecordEvent(ctx context.Context, event *domain.Event) (*domain.Event, error)
	GetTimeline(ctx context.Context, skuID int64) (*domain.Timeline, error)
	SearchSkus(ctx context.Context, query string) ([]domain.Sku, error)
}

// SkuRepository defines the secondary port for SKU storage.
type SkuRepository interface {
	// CreateSku stores the SKU and its identities, filling in ids and timestamps.
	CreateSku(ctx context.Context, sku *domain.Sku) error
	// GetSku returns domain.ErrSkuNotFound for unknown ids.
	GetSku(ctx context.Context, id int64) (*domain.Sku, error)
	// SearchSkus matches query as a case-insensitive substring of the name.
	SearchSkus(ctx context.Context, query string) ([]domain.Sku, error)
}

// EventRepository defines the secondary port for event storage.
type EventRepository interface {
	// CreateEvents stores every event or none of them, filling in ids and timestamps.
	// Events referencing an unknown SKU fail with domain.ErrSkuNotFound.
	CreateEvents(ctx context.Context, events []*domain.Event) error
	// ListEvents returns the events of a SKU in insertion order.
	ListEvents(ctx context.Context, skuID int64) ([]domain.Event, error)
}

// Store is a repository backing both ports.
type Store interface {
	SkuRepository
	EventRepository
}

// EventPublisher announces newly persisted events to other systems.
type EventPublisher interface {
	Publish(ctx context.Context, events []domain.Event) error
}
