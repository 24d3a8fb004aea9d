package seed

import (
	"context"
	"fmt"
	"time"

	"sku-tracker/internal/core/logger"
	"sku-tracker/internal/features/skus/domain"
	"sku-tracker/internal/features/skus/ports"

	"go.uber.org/zap"
)

// SampleEvent is one historical event of a sample SKU.
type SampleEvent struct {
	EventType  string
	Provider   string
	Location   string
	ObservedAt time.Time
	Payload    map[string]any
}

// SampleSku is a demo SKU with its identities and history.
type SampleSku struct {
	CanonicalSku string
	Name         string
	Description  string
	Brand        string
	Identities   []domain.Identity
	Events       []SampleEvent
}

// Samples returns the demo catalogue used by the seed command.
func Samples() []SampleSku {
	return []SampleSku{
		{
			CanonicalSku: "GTIN-00012345678905",
			Name:         "ACME Wireless Earbuds",
			Description:  "True wireless earbuds with ANC and 24h battery",
			Brand:        "ACME Audio",
			Identities: []domain.Identity{
				{Provider: "UPC", Identifier: "012345678905"},
				{Provider: "ASIN", Identifier: "B0TEST1234"},
			},
			Events: []SampleEvent{
				{"MANUFACTURED", "Factory ERP", "Shenzhen, CN", utc(2024, 4, 2, 8, 15), map[string]any{"batch": "2024-04-A"}},
				{"ARRIVED_PORT", "Port Authority", "Long Beach, CA", utc(2024, 4, 5, 12, 35), map[string]any{"container": "ACME-8842"}},
				{"DELIVERED_DC", "UPS", "Dallas, TX", utc(2024, 4, 9, 18, 20), map[string]any{"tracking": "1Z999AA10123456784"}},
			},
		},
		{
			CanonicalSku: "GTIN-00055566677788",
			Name:         "Nimbus Smartwatch",
			Description:  "Rugged smartwatch with LTE and biometric sensors",
			Brand:        "Nimbus Tech",
			Identities: []domain.Identity{
				{Provider: "UPC", Identifier: "055566677788"},
				{Provider: "EAN", Identifier: "00555666777788"},
			},
			Events: []SampleEvent{
				{"ASSEMBLED", "EMS", "Ho Chi Minh City, VN", utc(2024, 5, 1, 10, 0), map[string]any{"line": "HCM-4"}},
				{"IN_TRANSIT", "FedEx", "Memphis, TN", utc(2024, 5, 5, 22, 10), map[string]any{"tracking": "449044304137821"}},
				{"DELIVERED_RETAIL", "Retail POS", "Austin, TX", utc(2024, 5, 7, 15, 45), map[string]any{"store_id": "ATX-44"}},
			},
		},
	}
}

func utc(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

// Run creates every sample whose canonical SKU is not stored yet and returns how many were created.
func Run(ctx context.Context, svc ports.SkuService, samples []SampleSku) (int, error) {
	l := logger.Named("seed")
	created := 0

	for _, sample := range samples {
		exists, err := exists(ctx, svc, sample)
		if err != nil {
			return created, err
		}
		if exists {
			l.Info("Sample SKU already present", zap.String("canonical_sku", sample.CanonicalSku))
			continue
		}

		sku, err := domain.NewSku(sample.CanonicalSku, sample.Name, &sample.Description, &sample.Brand, sample.Identities)
		if err != nil {
			return created, fmt.Errorf("seed: invalid sample %s: %w", sample.CanonicalSku, err)
		}
		if sku, err = svc.CreateSku(ctx, sku); err != nil {
			return created, err
		}

		for _, e := range sample.Events {
			location := e.Location
			event, err := domain.NewManualEvent(sku.ID, e.EventType, e.Provider, &location, e.Payload, nil, e.ObservedAt, 0)
			if err != nil {
				return created, fmt.Errorf("seed: invalid event %s: %w", e.EventType, err)
			}
			if _, err := svc.RecordEvent(ctx, event); err != nil {
				return created, err
			}
		}

		created++
		l.Info("Sample SKU created", zap.Int64("sku_id", sku.ID), zap.Int("events", len(sample.Events)))
	}

	return created, nil
}

func exists(ctx context.Context, svc ports.SkuService, sample SampleSku) (bool, error) {
	matches, err := svc.SearchSkus(ctx, sample.Name)
	if err != nil {
		return false, fmt.Errorf("seed: lookup %s: %w", sample.CanonicalSku, err)
	}
	for _, m := range matches {
		if m.CanonicalSku == sample.CanonicalSku {
			return true, nil
		}
	}
	return false, nil
}
