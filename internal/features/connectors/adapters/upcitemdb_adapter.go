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

// UPCItemDBAdapter looks up products by UPC/EAN on UPCItemDB.
type UPCItemDBAdapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewUPCItemDBAdapter validates the API key and creates the adapter.
func NewUPCItemDBAdapter(cfg config.UPCItemDBConfig, opts ...Option) (*UPCItemDBAdapter, error) {
	if cfg.APIKey == "" {
		return nil, domain.NewConfigurationError(domain.ProviderNameUPCItemDB, "api key is not configured")
	}

	o := newOptions("upcitemdb", opts)

	return &UPCItemDBAdapter{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  o.client,
		logger:  o.logger,
	}, nil
}

type upcItemDBResponse struct {
	Code  string            `json:"code"`
	Total int               `json:"total"`
	Items []json.RawMessage `json:"items"`
}

type upcItemDBItem struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Brand       string     `json:"brand"`
	UPC         flexString `json:"upc"`
	EAN         flexString `json:"ean"`
}

// Name returns the canonical provider name.
func (a *UPCItemDBAdapter) Name() string {
	return domain.ProviderNameUPCItemDB
}

// Lookup fetches the product for identifier. Unknown identifiers yield an empty product.
func (a *UPCItemDBAdapter) Lookup(ctx context.Context, identifier string) (*domain.CanonicalProduct, error) {
	endpoint := a.baseURL + "/prod/trial/lookup?" + url.Values{"upc": {identifier}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.NewTransportError(domain.ProviderNameUPCItemDB, "lookup", err)
	}
	req.Header.Set("user_key", a.apiKey)
	req.Header.Set("key_type", "3scale")
	req.Header.Set("Accept", "application/json")

	body, err := execute(a.client, domain.ProviderNameUPCItemDB, "lookup", req)
	if err != nil {
		return nil, err
	}

	var resp upcItemDBResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewMalformedError(domain.ProviderNameUPCItemDB, "lookup", body, err)
	}

	product, err := a.mapResponseToDomain(resp)
	if err != nil {
		return nil, domain.NewMalformedError(domain.ProviderNameUPCItemDB, "lookup", body, err)
	}

	a.logger.Debug("UPCItemDB lookup mapped",
		zap.String("identifier", identifier),
		zap.Int("items", len(resp.Items)),
	)
	return product, nil
}

// mapResponseToDomain uses the first item only.
func (a *UPCItemDBAdapter) mapResponseToDomain(resp upcItemDBResponse) (*domain.CanonicalProduct, error) {
	if len(resp.Items) == 0 {
		return domain.NewEmptyProduct(), nil
	}

	var item upcItemDBItem
	fields, err := decodeRecord(resp.Items[0], &item)
	if err != nil {
		return nil, err
	}

	identifiers := map[string]string{}
	if item.UPC != "" {
		identifiers[domain.IdentifierUPC] = string(item.UPC)
	}
	if item.EAN != "" {
		identifiers[domain.IdentifierEAN] = string(item.EAN)
	}

	return &domain.CanonicalProduct{
		Title:       domain.Optional(item.Title),
		Description: domain.Optional(item.Description),
		Brand:       domain.Optional(item.Brand),
		Identifiers: identifiers,
		Raw:         fields,
	}, nil
}
