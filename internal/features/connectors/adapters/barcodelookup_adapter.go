package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"sku-tracker/internal/core/config"
	"sku-tracker/internal/features/connectors/domain"

	"go.uber.org/zap"
)

// BarcodeLookupAdapter looks up products on barcodelookup.com.
type BarcodeLookupAdapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewBarcodeLookupAdapter validates the API key and creates the adapter.
func NewBarcodeLookupAdapter(cfg config.BarcodeLookupConfig, opts ...Option) (*BarcodeLookupAdapter, error) {
	if cfg.APIKey == "" {
		return nil, domain.NewConfigurationError(domain.ProviderNameBarcodeLookup, "api key is not configured")
	}

	o := newOptions("barcodelookup", opts)

	return &BarcodeLookupAdapter{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  o.client,
		logger:  o.logger,
	}, nil
}

type barcodeLookupResponse struct {
	Products []json.RawMessage `json:"products"`
}

type barcodeLookupProduct struct {
	ProductName   string     `json:"product_name"`
	Description   string     `json:"description"`
	Brand         string     `json:"brand"`
	BarcodeNumber flexString `json:"barcode_number"`
}

// Name returns the canonical provider name.
func (a *BarcodeLookupAdapter) Name() string {
	return domain.ProviderNameBarcodeLookup
}

// Lookup fetches the product for barcode. Unknown barcodes yield an empty product.
func (a *BarcodeLookupAdapter) Lookup(ctx context.Context, barcode string) (*domain.CanonicalProduct, error) {
	query := url.Values{
		"barcode":   {barcode},
		"formatted": {"y"},
		"key":       {a.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/products?"+query.Encode(), nil)
	if err != nil {
		return nil, domain.NewTransportError(domain.ProviderNameBarcodeLookup, "lookup", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := execute(a.client, domain.ProviderNameBarcodeLookup, "lookup", req)
	if err != nil {
		return nil, err
	}

	var resp barcodeLookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewMalformedError(domain.ProviderNameBarcodeLookup, "lookup", body, err)
	}

	product, err := a.mapResponseToDomain(resp)
	if err != nil {
		return nil, domain.NewMalformedError(domain.ProviderNameBarcodeLookup, "lookup", body, err)
	}

	a.logger.Debug("Barcode Lookup mapped",
		zap.String("barcode", barcode),
		zap.Int("products", len(resp.Products)),
	)
	return product, nil
}

// mapResponseToDomain uses the first product only.
func (a *BarcodeLookupAdapter) mapResponseToDomain(resp barcodeLookupResponse) (*domain.CanonicalProduct, error) {
	if len(resp.Products) == 0 {
		return domain.NewEmptyProduct(), nil
	}

	var p barcodeLookupProduct
	fields, err := decodeRecord(resp.Products[0], &p)
	if err != nil {
		return nil, err
	}

	identifiers := map[string]string{}
	if p.BarcodeNumber != "" {
		identifiers[domain.IdentifierBarcode] = string(p.BarcodeNumber)
	}

	return &domain.CanonicalProduct{
		Title:       domain.Optional(p.ProductName),
		Description: domain.Optional(p.Description),
		Brand:       domain.Optional(p.Brand),
		Identifiers: identifiers,
		Raw:         fields,
	}, nil
}
