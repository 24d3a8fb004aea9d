package domain

// Identifier schemes reported in CanonicalProduct.Identifiers.
const (
	IdentifierUPC     = "upc"
	IdentifierEAN     = "ean"
	IdentifierBarcode = "barcode"
)

// CanonicalProduct is the provider-agnostic form of one catalog lookup result.
type CanonicalProduct struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Brand       *string `json:"brand"`
	// Identifiers only holds schemes the provider actually returned with a value.
	Identifiers map[string]string `json:"identifiers"`
	// Raw is the first matched provider record.
	Raw map[string]any `json:"raw"`
}

// NewEmptyProduct returns the result for an identifier the provider does not know.
func NewEmptyProduct() *CanonicalProduct {
	return &CanonicalProduct{
		Identifiers: map[string]string{},
		Raw:         map[string]any{},
	}
}

// Optional returns nil for an empty string and a pointer to s otherwise.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
