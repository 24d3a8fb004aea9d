package domain

import (
	"errors"
	"strings"
	"time"
)

// DefaultConfidence is the confidence stamped on identities and events unless told otherwise.
const DefaultConfidence = 1.0

var (
	// ErrSkuNotFound is returned when the SKU id does not exist.
	ErrSkuNotFound = errors.New("sku not found")
	// ErrInvalidSku is returned when a SKU is missing its canonical code or name.
	ErrInvalidSku = errors.New("canonical_sku and name are required")
	// ErrInvalidEvent is returned when a manual event is missing its type or provider.
	ErrInvalidEvent = errors.New("event_type and provider are required")
)

// Sku is one tracked item.
type Sku struct {
	ID           int64      `json:"id"`
	CanonicalSku string     `json:"canonical_sku"`
	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	Brand        *string    `json:"brand"`
	Identities   []Identity `json:"identities"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Identity maps an external identifier scheme (UPC, EAN, ASIN...) to a SKU.
type Identity struct {
	ID         int64     `json:"id"`
	SkuID      int64     `json:"sku_id"`
	Provider   string    `json:"provider"`
	Identifier string    `json:"identifier"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewSku validates the input and returns an unsaved SKU.
// Identities with a zero confidence get DefaultConfidence.
func NewSku(canonicalSku, name string, description, brand *string, identities []Identity) (*Sku, error) {
	canonicalSku = strings.TrimSpace(canonicalSku)
	name = strings.TrimSpace(name)
	if canonicalSku == "" || name == "" {
		return nil, ErrInvalidSku
	}

	ids := make([]Identity, 0, len(identities))
	for _, id := range identities {
		if id.Confidence == 0 {
			id.Confidence = DefaultConfidence
		}
		ids = append(ids, id)
	}

	return &Sku{
		CanonicalSku: canonicalSku,
		Name:         name,
		Description:  description,
		Brand:        brand,
		Identities:   ids,
	}, nil
}
