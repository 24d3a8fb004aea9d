package adapter

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sku-tracker/internal/core/config"
	"sku-tracker/internal/features/connectors/domain"

	"go.uber.org/zap"
)

const (
	uspsEventType = "USPS_EVENT"
	uspsAPI       = "TrackV2"
)

// USPSAdapter tracks shipments through the USPS Web Tools TrackV2 XML API.
type USPSAdapter struct {
	baseURL string
	userID  string
	client  *http.Client
	logger  *zap.Logger
}

// NewUSPSAdapter validates the USPS USERID and creates the adapter.
// It never touches the network.
func NewUSPSAdapter(cfg config.USPSConfig, opts ...Option) (*USPSAdapter, error) {
	if cfg.UserID == "" {
		return nil, domain.NewConfigurationError(domain.ProviderNameUSPS, "user id is not configured")
	}

	o := newOptions("usps", opts)

	return &USPSAdapter{
		baseURL: cfg.BaseURL,
		userID:  cfg.UserID,
		client:  o.client,
		logger:  o.logger,
	}, nil
}

// uspsTrackRequest is serialized into the XML query parameter.
type uspsTrackRequest struct {
	XMLName xml.Name    `xml:"TrackRequest"`
	UserID  string      `xml:"USERID,attr"`
	TrackID uspsTrackID `xml:"TrackID"`
}

type uspsTrackID struct {
	ID string `xml:"ID,attr"`
}

// uspsError is the document USPS returns instead of a TrackResponse.
type uspsError struct {
	Number      string `xml:"Number"`
	Source      string `xml:"Source"`
	Description string `xml:"Description"`
}

// Name returns the canonical provider name.
func (a *USPSAdapter) Name() string {
	return domain.ProviderNameUSPS
}

// Track requests the tracking details for trackingNumber.
func (a *USPSAdapter) Track(ctx context.Context, trackingNumber string) ([]domain.CanonicalEvent, error) {
	doc, err := xml.Marshal(uspsTrackRequest{
		UserID:  a.userID,
		TrackID: uspsTrackID{ID: trackingNumber},
	})
	if err != nil {
		return nil, domain.NewTransportError(domain.ProviderNameUSPS, "track", err)
	}

	endpoint, err := url.Parse(a.baseURL)
	if err != nil {
		return nil, domain.NewTransportError(domain.ProviderNameUSPS, "track", err)
	}
	query := endpoint.Query()
	query.Set("API", uspsAPI)
	query.Set("XML", string(doc))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, domain.NewTransportError(domain.ProviderNameUSPS, "track", err)
	}
	req.Header.Set("Accept", "application/xml")

	body, err := execute(a.client, domain.ProviderNameUSPS, "track", req)
	if err != nil {
		return nil, err
	}

	events, err := a.mapResponseToDomain(body)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("USPS details mapped",
		zap.String("tracking_number", trackingNumber),
		zap.Int("events", len(events)),
	)
	return events, nil
}

// mapResponseToDomain walks the XML document and emits one event per TrackDetail element,
// at any depth, in document order. USPS details carry no structured time or place.
func (a *USPSAdapter) mapResponseToDomain(body []byte) ([]domain.CanonicalEvent, error) {
	events := make([]domain.CanonicalEvent, 0)
	decoder := xml.NewDecoder(bytes.NewReader(body))
	sawRoot := false

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewMalformedError(domain.ProviderNameUSPS, "track", body, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !sawRoot {
			sawRoot = true
			if start.Name.Local == "Error" {
				var uerr uspsError
				if err := decoder.DecodeElement(&uerr, &start); err != nil {
					return nil, domain.NewMalformedError(domain.ProviderNameUSPS, "track", body, err)
				}
				return nil, &domain.UpstreamError{
					Provider:  domain.ProviderNameUSPS,
					Operation: "track",
					Body:      strings.TrimSpace(uerr.Number + " " + uerr.Description),
				}
			}
			continue
		}

		if start.Name.Local != "TrackDetail" {
			continue
		}

		var detail string
		if err := decoder.DecodeElement(&detail, &start); err != nil {
			return nil, domain.NewMalformedError(domain.ProviderNameUSPS, "track", body, err)
		}

		events = append(events, domain.CanonicalEvent{
			EventType:  uspsEventType,
			ObservedAt: time.Now().UTC(),
			Provider:   domain.ProviderNameUSPS,
			Payload:    map[string]any{"detail": strings.TrimSpace(detail)},
		})
	}

	if !sawRoot {
		return nil, domain.NewMalformedError(domain.ProviderNameUSPS, "track", body, errors.New("empty document"))
	}

	return events, nil
}
