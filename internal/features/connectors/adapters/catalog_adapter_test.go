package adapter

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"sku-tracker/internal/core/config"
	"sku-tracker/internal/features/connectors/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogAdapters_MissingKey(t *testing.T) {
	srv, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := NewUPCItemDBAdapter(config.UPCItemDBConfig{BaseURL: srv.URL}, testOptions(srv)...)
	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, domain.ProviderNameUPCItemDB, cfgErr.Provider)

	_, err = NewBarcodeLookupAdapter(config.BarcodeLookupConfig{BaseURL: srv.URL}, testOptions(srv)...)
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, domain.ProviderNameBarcodeLookup, cfgErr.Provider)

	assert.Equal(t, int32(0), calls.Load())
}

func TestUPCItemDBAdapter_Lookup_Success(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prod/trial/lookup", r.URL.Path)
		assert.Equal(t, "012345678905", r.URL.Query().Get("upc"))
		assert.Equal(t, "upc-key", r.Header.Get("user_key"))
		assert.Equal(t, "3scale", r.Header.Get("key_type"))
		_, _ = w.Write([]byte(`{"code":"OK","total":2,"items":[
  {"title":"Widget","brand":"Acme","upc":"012345678905","ean":"0012345678905"},
  {"title":"Other"}
]}`))
	})

	adapter, err := NewUPCItemDBAdapter(config.UPCItemDBConfig{APIKey: "upc-key", BaseURL: srv.URL}, testOptions(srv)...)
	require.NoError(t, err)

	product, err := adapter.Lookup(context.Background(), "012345678905")
	require.NoError(t, err)

	require.NotNil(t, product.Title)
	assert.Equal(t, "Widget", *product.Title)
	require.NotNil(t, product.Brand)
	assert.Equal(t, "Acme", *product.Brand)
	assert.Nil(t, product.Description)
	assert.Equal(t, map[string]string{"upc": "012345678905", "ean": "0012345678905"}, product.Identifiers)
	assert.Equal(t, "Widget", product.Raw["title"])
}

func TestUPCItemDBAdapter_Lookup_NumericIdentifiers(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"title":"Widget","upc":12345678905,"ean":null}]}`))
	})

	adapter, err := NewUPCItemDBAdapter(config.UPCItemDBConfig{APIKey: "upc-key", BaseURL: srv.URL}, testOptions(srv)...)
	require.NoError(t, err)

	product, err := adapter.Lookup(context.Background(), "12345678905")
	require.NoError(t, err)

	require.NotNil(t, product.Title)
	assert.Equal(t, "Widget", *product.Title)
	assert.Equal(t, map[string]string{"upc": "12345678905"}, product.Identifiers)
}

func TestUPCItemDBAdapter_Lookup_NoItems(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	adapter, err := NewUPCItemDBAdapter(config.UPCItemDBConfig{APIKey: "upc-key", BaseURL: srv.URL}, testOptions(srv)...)
	require.NoError(t, err)

	product, err := adapter.Lookup(context.Background(), "000")
	require.NoError(t, err)

	assert.Nil(t, product.Title)
	assert.Nil(t, product.Description)
	assert.Nil(t, product.Brand)
	assert.Empty(t, product.Identifiers)
	assert.Empty(t, product.Raw)
}

func TestUPCItemDBAdapter_Lookup_RateLimited(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"code":"TOO_FAST"}`))
	})

	adapter, err := NewUPCItemDBAdapter(config.UPCItemDBConfig{APIKey: "upc-key", BaseURL: srv.URL}, testOptions(srv)...)
	require.NoError(t, err)

	_, err = adapter.Lookup(context.Background(), "000")

	var upErr *domain.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusTooManyRequests, upErr.StatusCode)
}

func TestBarcodeLookupAdapter_Lookup_Success(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "886736874135", r.URL.Query().Get("barcode"))
		assert.Equal(t, "bl-key", r.URL.Query().Get("key"))
		assert.Equal(t, "y", r.URL.Query().Get("formatted"))
		_, _ = w.Write([]byte(`{"products":[{"barcode_number":"886736874135","product_name":"Nike Shoe","description":"Running shoe","brand":"Nike"}]}`))
	})

	adapter, err := NewBarcodeLookupAdapter(config.BarcodeLookupConfig{APIKey: "bl-key", BaseURL: srv.URL}, testOptions(srv)...)
	require.NoError(t, err)

	product, err := adapter.Lookup(context.Background(), "886736874135")
	require.NoError(t, err)

	require.NotNil(t, product.Title)
	assert.Equal(t, "Nike Shoe", *product.Title)
	require.NotNil(t, product.Description)
	assert.Equal(t, "Running shoe", *product.Description)
	assert.Equal(t, map[string]string{"barcode": "886736874135"}, product.Identifiers)
}

func TestBarcodeLookupAdapter_Lookup_NumericBarcode(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products":[{"barcode_number":886736874135,"product_name":"Nike Shoe"}]}`))
	})

	adapter, err := NewBarcodeLookupAdapter(config.BarcodeLookupConfig{APIKey: "bl-key", BaseURL: srv.URL}, testOptions(srv)...)
	require.NoError(t, err)

	product, err := adapter.Lookup(context.Background(), "886736874135")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"barcode": "886736874135"}, product.Identifiers)
}

func TestBarcodeLookupAdapter_Lookup_MalformedBody(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products": "nope"}`))
	})

	adapter, err := NewBarcodeLookupAdapter(config.BarcodeLookupConfig{APIKey: "bl-key", BaseURL: srv.URL}, testOptions(srv)...)
	require.NoError(t, err)

	_, err = adapter.Lookup(context.Background(), "1")

	var upErr *domain.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Zero(t, upErr.StatusCode)
}
