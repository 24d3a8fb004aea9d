package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sku-tracker/internal/core/logger"
	"sku-tracker/internal/core/metrics"
	"sku-tracker/internal/features/connectors/domain"
	"sku-tracker/internal/features/connectors/ports"
	skudomain "sku-tracker/internal/features/skus/domain"
	skuports "sku-tracker/internal/features/skus/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Failure reasons reported on the ingestion_failures_total metric.
const (
	reasonConfiguration   = "configuration"
	reasonUpstream        = "upstream"
	reasonUnknownProvider = "unknown_provider"
	reasonUnknownSku      = "unknown_sku"
	reasonInvalidRequest  = "invalid_request"
)

var (
	errTrackingNumberRequired = errors.New("tracking_number is required")
	errIdentifierRequired     = errors.New("identifier is required")
)

// IngestionService runs connectors and turns their output into stored SKU events.
type IngestionService struct {
	dispatcher  ports.Dispatcher
	store       skuports.Store
	publisher   skuports.EventPublisher
	concurrency int
	newID       func() string
	logger      *zap.Logger
}

// Option configures the IngestionService.
type Option func(*IngestionService)

// WithPublisher announces ingested events through p after they are stored.
func WithPublisher(p skuports.EventPublisher) Option {
	return func(s *IngestionService) {
		s.publisher = p
	}
}

// WithConcurrency bounds how many requests of a batch run at once.
func WithConcurrency(n int) Option {
	return func(s *IngestionService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewIngestionService creates a new IngestionService.
func NewIngestionService(dispatcher ports.Dispatcher, store skuports.Store, opts ...Option) *IngestionService {
	s := &IngestionService{
		dispatcher:  dispatcher,
		store:       store,
		concurrency: defaultConcurrency,
		newID:       uuid.NewString,
		logger:      logger.Named("ingestion"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TrackShipment fetches the events of one shipment and stores them for the SKU, all or nothing.
// Requests that cannot be served as given fail with a *domain.ValidationError; storage
// failures are returned as they are.
func (s *IngestionService) TrackShipment(ctx context.Context, req ports.TrackRequest) ([]skudomain.Event, error) {
	provider := string(req.Provider)

	if strings.TrimSpace(req.TrackingNumber) == "" {
		return nil, s.reject(provider, reasonInvalidRequest, errTrackingNumberRequired)
	}

	connector, err := s.dispatcher.Shipment(req.Provider)
	if err != nil {
		return nil, s.reject(provider, reasonFor(err), err)
	}

	if _, err := s.store.GetSku(ctx, req.SkuID); err != nil {
		if errors.Is(err, skudomain.ErrSkuNotFound) {
			return nil, s.reject(provider, reasonUnknownSku, fmt.Errorf("%w: %d", err, req.SkuID))
		}
		return nil, fmt.Errorf("service: failed to get sku: %w", err)
	}

	canonical, err := connector.Track(ctx, req.TrackingNumber)
	if err != nil {
		return nil, s.reject(provider, reasonFor(err), err)
	}

	ingestionID := s.newID()
	pending := make([]*skudomain.Event, 0, len(canonical))
	for _, ce := range canonical {
		pending = append(pending, toPersisted(req.SkuID, ingestionID, ce))
	}

	if err := s.store.CreateEvents(ctx, pending); err != nil {
		if errors.Is(err, skudomain.ErrSkuNotFound) {
			return nil, s.reject(provider, reasonUnknownSku, fmt.Errorf("%w: %d", err, req.SkuID))
		}
		return nil, fmt.Errorf("service: failed to store events: %w", err)
	}

	created := make([]skudomain.Event, 0, len(pending))
	for _, e := range pending {
		created = append(created, *e)
	}

	metrics.IngestedEvents.WithLabelValues(provider).Add(float64(len(created)))
	s.logger.Info("Shipment ingested",
		zap.Int64("sku_id", req.SkuID),
		zap.String("provider", connector.Name()),
		zap.String("ingestion_id", ingestionID),
		zap.Int("events", len(created)),
	)

	if s.publisher != nil && len(created) > 0 {
		if err := s.publisher.Publish(ctx, created); err != nil {
			s.logger.Warn("Failed to publish ingested events",
				zap.String("ingestion_id", ingestionID),
				zap.Error(err),
			)
		}
	}

	return created, nil
}

// IngestBatch runs TrackShipment for every request with bounded concurrency.
// Results are in request order and one failure never affects another request.
func (s *IngestionService) IngestBatch(ctx context.Context, reqs []ports.TrackRequest) []ports.BatchResult {
	results := make([]ports.BatchResult, len(reqs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			events, err := s.TrackShipment(ctx, req)
			results[i] = ports.BatchResult{Events: events, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// LookupCatalog resolves identifier through the catalog provider.
// Every failure is returned as a *domain.ValidationError.
func (s *IngestionService) LookupCatalog(ctx context.Context, identifier string, provider domain.CatalogProvider) (*domain.CanonicalProduct, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, s.reject(string(provider), reasonInvalidRequest, errIdentifierRequired)
	}

	connector, err := s.dispatcher.Catalog(provider)
	if err != nil {
		return nil, s.reject(string(provider), reasonFor(err), err)
	}

	product, err := connector.Lookup(ctx, identifier)
	if err != nil {
		return nil, s.reject(string(provider), reasonFor(err), err)
	}
	return product, nil
}

func (s *IngestionService) reject(provider, reason string, err error) error {
	metrics.IngestionFailures.WithLabelValues(provider, reason).Inc()
	s.logger.Warn("Provider request rejected",
		zap.String("provider", provider),
		zap.String("reason", reason),
		zap.Error(err),
	)
	return domain.NewValidationError(err)
}

func reasonFor(err error) string {
	var cfgErr *domain.ConfigurationError
	switch {
	case errors.Is(err, domain.ErrUnknownProvider):
		return reasonUnknownProvider
	case errors.As(err, &cfgErr):
		return reasonConfiguration
	default:
		return reasonUpstream
	}
}

func toPersisted(skuID int64, ingestionID string, ce domain.CanonicalEvent) *skudomain.Event {
	payload := ce.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return &skudomain.Event{
		SkuID:       skuID,
		EventType:   ce.EventType,
		Provider:    ce.Provider,
		Location:    ce.Location,
		Payload:     payload,
		ObservedAt:  ce.ObservedAt.UTC(),
		Confidence:  skudomain.DefaultConfidence,
		IngestionID: ingestionID,
	}
}

var _ ports.IngestionService = (*IngestionService)(nil)
