package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sku-tracker/internal/core/logger"
	"sku-tracker/internal/features/skus/domain"
	"sku-tracker/internal/features/skus/ports"

	"go.uber.org/zap"
)

// ErrEmptyQuery is returned when a search has nothing to match.
var ErrEmptyQuery = errors.New("search query is required")

// SkuServiceImpl implements ports.SkuService.
type SkuServiceImpl struct {
	store     ports.Store
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewSkuService creates a new SkuServiceImpl. publisher may be nil.
func NewSkuService(store ports.Store, publisher ports.EventPublisher) *SkuServiceImpl {
	return &SkuServiceImpl{
		store:     store,
		publisher: publisher,
		logger:    logger.Named("skus"),
	}
}

// CreateSku stores a validated SKU with its identities.
func (s *SkuServiceImpl) CreateSku(ctx context.Context, sku *domain.Sku) (*domain.Sku, error) {
	if err := s.store.CreateSku(ctx, sku); err != nil {
		return nil, fmt.Errorf("service: failed to create sku: %w", err)
	}

	s.logger.Info("SKU created", zap.Int64("sku_id", sku.ID), zap.String("canonical_sku", sku.CanonicalSku))
	return sku, nil
}

// RecordEvent stores a manual event for an existing SKU.
func (s *SkuServiceImpl) RecordEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	if _, err := s.store.GetSku(ctx, event.SkuID); err != nil {
		if errors.Is(err, domain.ErrSkuNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service: failed to get sku: %w", err)
	}

	if err := s.store.CreateEvents(ctx, []*domain.Event{event}); err != nil {
		if errors.Is(err, domain.ErrSkuNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service: failed to record event: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, []domain.Event{*event}); err != nil {
			s.logger.Warn("Failed to publish recorded event", zap.Int64("event_id", event.ID), zap.Error(err))
		}
	}

	return event, nil
}

// GetTimeline builds the timeline of a SKU from its stored events.
func (s *SkuServiceImpl) GetTimeline(ctx context.Context, skuID int64) (*domain.Timeline, error) {
	sku, err := s.store.GetSku(ctx, skuID)
	if err != nil {
		if errors.Is(err, domain.ErrSkuNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service: failed to get sku: %w", err)
	}

	events, err := s.store.ListEvents(ctx, skuID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list events: %w", err)
	}

	return domain.BuildTimeline(sku, events), nil
}

// SearchSkus returns the SKUs whose name contains query.
func (s *SkuServiceImpl) SearchSkus(ctx context.Context, query string) ([]domain.Sku, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	skus, err := s.store.SearchSkus(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search skus: %w", err)
	}
	return skus, nil
}

var _ ports.SkuService = (*SkuServiceImpl)(nil)
