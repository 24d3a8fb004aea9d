package domain

import "time"

// CanonicalEvent is the provider-agnostic form of one tracking scan or status change.
// It is produced by shipment connectors and has not been persisted yet.
type CanonicalEvent struct {
	// EventType is the provider vocabulary tag (e.g., "DELIVERED", "SCAN", "USPS_EVENT").
	EventType string `json:"event_type"`
	// ObservedAt is when the provider saw the event. Never zero.
	ObservedAt time.Time `json:"observed_at"`
	// Provider is the canonical provider name ("FedEx", "UPS", "USPS").
	Provider string `json:"provider"`
	// Location is a free-text location, nil when the provider gave none.
	Location *string `json:"location,omitempty"`
	// Payload is the provider's raw record, kept for audit.
	Payload map[string]any `json:"payload"`
}
