package domain

import "sort"

// StatusUnknown is the inferred status of a SKU without events.
const StatusUnknown = "UNKNOWN"

// Timeline is the lifecycle view of a SKU. It is recomputed on every request.
type Timeline struct {
	Sku *Sku `json:"sku"`
	// Events are ordered most recent first.
	Events            []Event `json:"events"`
	InferredStatus    string  `json:"inferred_status"`
	LastKnownLocation *string `json:"last_known_location"`
}

// BuildTimeline orders events by ObservedAt descending and infers the status from the
// most recent one. events must be in insertion order; equal timestamps keep that order.
// The input slice is not modified.
func BuildTimeline(sku *Sku, events []Event) *Timeline {
	ordered := make([]Event, len(events))
	copy(ordered, events)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ObservedAt.After(ordered[j].ObservedAt)
	})

	t := &Timeline{
		Sku:            sku,
		Events:         ordered,
		InferredStatus: StatusUnknown,
	}
	if len(ordered) > 0 {
		t.InferredStatus = ordered[0].EventType
		t.LastKnownLocation = ordered[0].Location
	}
	return t
}
