package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sku-tracker/internal/core/config"
	"sku-tracker/internal/features/connectors/domain"

	"go.uber.org/zap"
)

const (
	upsDefaultEventType = "ACTIVITY"
	upsTransactionSrc   = "sku-tracker"
)

// UPSAdapter tracks shipments through the UPS Tracking API (OAuth client credentials).
type UPSAdapter struct {
	baseURL string
	tokens  *tokenSource
	client  *http.Client
	logger  *zap.Logger
}

// NewUPSAdapter validates the UPS credentials and creates the adapter.
// It never touches the network.
func NewUPSAdapter(cfg config.UPSConfig, opts ...Option) (*UPSAdapter, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, domain.NewConfigurationError(domain.ProviderNameUPS, "credentials are not configured")
	}

	o := newOptions("ups", opts)
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	return &UPSAdapter{
		baseURL: baseURL,
		tokens: &tokenSource{
			provider:     domain.ProviderNameUPS,
			tokenURL:     baseURL + "/security/v1/oauth/token",
			clientID:     cfg.ClientID,
			clientSecret: cfg.ClientSecret,
			basicAuth:    true,
			client:       o.client,
			cache:        o.tokenCache,
			margin:       o.cacheMargin,
			logger:       o.logger,
		},
		client: o.client,
		logger: o.logger,
	}, nil
}

// upsTrackResponse represents the parts of the UPS response we read.
// Only the first shipment and its first package are considered.
type upsTrackResponse struct {
	TrackResponse struct {
		Shipment []struct {
			Package []struct {
				TrackingNumber string            `json:"trackingNumber"`
				Activity       []json.RawMessage `json:"activity"`
			} `json:"package"`
		} `json:"shipment"`
	} `json:"trackResponse"`
}

// upsActivity is the typed view of one package activity.
type upsActivity struct {
	Status struct {
		Type        string `json:"type"`
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"status"`
	DateTime flexString `json:"dateTime"`
	// Date (YYYYMMDD) and Time (HHMMSS) are what the production API returns instead of DateTime.
	Date     flexString `json:"date"`
	Time     flexString `json:"time"`
	Location struct {
		Address struct {
			City string `json:"city"`
		} `json:"address"`
	} `json:"location"`
}

// observedAt prefers dateTime, then the date/time pair, then now.
func (a upsActivity) observedAt() time.Time {
	if t, ok := domain.TryParseTimestamp(string(a.DateTime)); ok {
		return t
	}
	if a.Date != "" {
		if t, ok := domain.TryParseTimestamp(string(a.Date + a.Time)); ok {
			return t
		}
		if t, ok := domain.TryParseTimestamp(string(a.Date)); ok {
			return t
		}
	}
	return time.Now().UTC()
}

// Name returns the canonical provider name.
func (a *UPSAdapter) Name() string {
	return domain.ProviderNameUPS
}

// Track authenticates, requests the details for trackingNumber and maps the package activity.
func (a *UPSAdapter) Track(ctx context.Context, trackingNumber string) ([]domain.CanonicalEvent, error) {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := a.baseURL + "/api/track/v1/details/" + url.PathEscape(trackingNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.NewTransportError(domain.ProviderNameUPS, "track", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("transId", trackingNumber)
	req.Header.Set("transactionSrc", upsTransactionSrc)
	req.Header.Set("Accept", "application/json")

	body, err := execute(a.client, domain.ProviderNameUPS, "track", req)
	if err != nil {
		a.tokens.invalidateOnUnauthorized(ctx, err)
		return nil, err
	}

	var resp upsTrackResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewMalformedError(domain.ProviderNameUPS, "track", body, err)
	}

	events, err := a.mapResponseToDomain(resp)
	if err != nil {
		return nil, domain.NewMalformedError(domain.ProviderNameUPS, "track", body, err)
	}

	a.logger.Debug("UPS activity mapped",
		zap.String("tracking_number", trackingNumber),
		zap.Int("events", len(events)),
	)
	return events, nil
}

// mapResponseToDomain converts the first package's activity list into canonical events.
func (a *UPSAdapter) mapResponseToDomain(resp upsTrackResponse) ([]domain.CanonicalEvent, error) {
	events := make([]domain.CanonicalEvent, 0)

	shipments := resp.TrackResponse.Shipment
	if len(shipments) == 0 || len(shipments[0].Package) == 0 {
		return events, nil
	}

	for _, raw := range shipments[0].Package[0].Activity {
		var act upsActivity
		fields, err := decodeRecord(raw, &act)
		if err != nil {
			return nil, err
		}

		eventType := act.Status.Type
		if eventType == "" {
			eventType = upsDefaultEventType
		}

		events = append(events, domain.CanonicalEvent{
			EventType:  eventType,
			ObservedAt: act.observedAt(),
			Provider:   domain.ProviderNameUPS,
			Location:   domain.Optional(act.Location.Address.City),
			Payload:    fields,
		})
	}

	return events, nil
}
