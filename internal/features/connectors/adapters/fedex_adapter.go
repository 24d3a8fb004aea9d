package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"sku-tracker/internal/core/config"
	"sku-tracker/internal/features/connectors/domain"

	"go.uber.org/zap"
)

const fedexDefaultEventType = "SCAN"

// FedExAdapter tracks shipments through the FedEx Track API (OAuth client credentials).
type FedExAdapter struct {
	baseURL string
	tokens  *tokenSource
	client  *http.Client
	logger  *zap.Logger
}

// NewFedExAdapter validates the FedEx credentials and creates the adapter.
// It never touches the network.
func NewFedExAdapter(cfg config.FedExConfig, opts ...Option) (*FedExAdapter, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, domain.NewConfigurationError(domain.ProviderNameFedEx, "credentials are not configured")
	}

	o := newOptions("fedex", opts)
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	return &FedExAdapter{
		baseURL: baseURL,
		tokens: &tokenSource{
			provider:     domain.ProviderNameFedEx,
			tokenURL:     baseURL + "/oauth/token",
			clientID:     cfg.ClientID,
			clientSecret: cfg.ClientSecret,
			client:       o.client,
			cache:        o.tokenCache,
			margin:       o.cacheMargin,
			logger:       o.logger,
		},
		client: o.client,
		logger: o.logger,
	}, nil
}

// fedexTrackRequest is the body of POST /track/v1/trackingnumbers.
type fedexTrackRequest struct {
	TrackingInfo []fedexTrackingInfo `json:"trackingInfo"`
	// IncludeDetailedScans asks for the full scan history instead of the latest status only.
	IncludeDetailedScans bool `json:"includeDetailedScans"`
}

type fedexTrackingInfo struct {
	TrackingNumberInfo struct {
		TrackingNumber string `json:"trackingNumber"`
	} `json:"trackingNumberInfo"`
}

// fedexTrackResponse represents the parts of the FedEx response we read.
// Every level may be empty for freshly created shipments.
type fedexTrackResponse struct {
	Output struct {
		CompleteTrackResults []struct {
			TrackingNumber string `json:"trackingNumber"`
			TrackResults   []struct {
				ScanEvents []json.RawMessage `json:"scanEvents"`
			} `json:"trackResults"`
		} `json:"completeTrackResults"`
	} `json:"output"`
}

// fedexScanEvent is the typed view of one scan record.
type fedexScanEvent struct {
	EventType        string     `json:"eventType"`
	EventDescription string     `json:"eventDescription"`
	Date             flexString `json:"date"`
	DateTime         flexString `json:"dateTime"`
	ScanLocation     struct {
		City       string `json:"city"`
		LocationID string `json:"locationId"`
	} `json:"scanLocation"`
}

// Name returns the canonical provider name.
func (a *FedExAdapter) Name() string {
	return domain.ProviderNameFedEx
}

// Track authenticates, requests the detailed scans for trackingNumber and maps them.
func (a *FedExAdapter) Track(ctx context.Context, trackingNumber string) ([]domain.CanonicalEvent, error) {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	info := fedexTrackingInfo{}
	info.TrackingNumberInfo.TrackingNumber = trackingNumber
	payload, err := json.Marshal(fedexTrackRequest{
		TrackingInfo:         []fedexTrackingInfo{info},
		IncludeDetailedScans: true,
	})
	if err != nil {
		return nil, domain.NewTransportError(domain.ProviderNameFedEx, "track", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/track/v1/trackingnumbers", bytes.NewReader(payload))
	if err != nil {
		return nil, domain.NewTransportError(domain.ProviderNameFedEx, "track", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-locale", "en_US")

	body, err := execute(a.client, domain.ProviderNameFedEx, "track", req)
	if err != nil {
		a.tokens.invalidateOnUnauthorized(ctx, err)
		return nil, err
	}

	var resp fedexTrackResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewMalformedError(domain.ProviderNameFedEx, "track", body, err)
	}

	events, err := a.mapResponseToDomain(resp)
	if err != nil {
		return nil, domain.NewMalformedError(domain.ProviderNameFedEx, "track", body, err)
	}

	a.logger.Debug("FedEx scans mapped",
		zap.String("tracking_number", trackingNumber),
		zap.Int("events", len(events)),
	)
	return events, nil
}

// mapResponseToDomain flattens every scan of every result into canonical events, in response order.
func (a *FedExAdapter) mapResponseToDomain(resp fedexTrackResponse) ([]domain.CanonicalEvent, error) {
	events := make([]domain.CanonicalEvent, 0)

	for _, complete := range resp.Output.CompleteTrackResults {
		for _, result := range complete.TrackResults {
			for _, raw := range result.ScanEvents {
				var scan fedexScanEvent
				fields, err := decodeRecord(raw, &scan)
				if err != nil {
					return nil, err
				}

				eventType := scan.EventType
				if eventType == "" {
					eventType = fedexDefaultEventType
				}

				timestamp := scan.Date
				if timestamp == "" {
					timestamp = scan.DateTime
				}

				location := scan.ScanLocation.City
				if location == "" {
					location = scan.ScanLocation.LocationID
				}

				events = append(events, domain.CanonicalEvent{
					EventType:  eventType,
					ObservedAt: domain.ParseTimestamp(string(timestamp)),
					Provider:   domain.ProviderNameFedEx,
					Location:   domain.Optional(location),
					Payload:    fields,
				})
			}
		}
	}

	return events, nil
}
