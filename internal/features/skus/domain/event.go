package domain

import "time"

// Event is a persisted lifecycle event. It is created once and never changed.
type Event struct {
	ID         int64          `json:"id"`
	SkuID      int64          `json:"sku_id"`
	EventType  string         `json:"event_type"`
	Provider   string         `json:"provider"`
	Location   *string        `json:"location"`
	Payload    map[string]any `json:"payload"`
	RawPayload map[string]any `json:"raw_payload,omitempty"`
	ObservedAt time.Time      `json:"observed_at"`
	Confidence float64        `json:"confidence"`
	// IngestionID groups the events created by one provider call. Empty for manual events.
	IngestionID string    `json:"ingestion_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewManualEvent validates a manually recorded event.
// A zero observedAt means now and a zero confidence means DefaultConfidence.
func NewManualEvent(skuID int64, eventType, provider string, location *string, payload, rawPayload map[string]any, observedAt time.Time, confidence float64) (*Event, error) {
	if eventType == "" || provider == "" {
		return nil, ErrInvalidEvent
	}
	if observedAt.IsZero() {
		observedAt = time.Now().UTC()
	}
	if confidence == 0 {
		confidence = DefaultConfidence
	}
	if payload == nil {
		payload = map[string]any{}
	}

	return &Event{
		SkuID:      skuID,
		EventType:  eventType,
		Provider:   provider,
		Location:   location,
		Payload:    payload,
		RawPayload: rawPayload,
		ObservedAt: observedAt.UTC(),
		Confidence: confidence,
	}, nil
}
