package registry

import (
	"fmt"
	"net/http"

	"sku-tracker/internal/core/cache"
	"sku-tracker/internal/core/config"
	"sku-tracker/internal/core/httpclient"
	"sku-tracker/internal/core/proxy"
	adapter "sku-tracker/internal/features/connectors/adapters"
	"sku-tracker/internal/features/connectors/domain"
	"sku-tracker/internal/features/connectors/ports"
)

type shipmentFactory func(cfg config.ProvidersConfig, opts ...adapter.Option) (ports.ShipmentConnector, error)

type catalogFactory func(cfg config.ProvidersConfig, opts ...adapter.Option) (ports.CatalogConnector, error)

// shipmentFactories is keyed by the closed carrier enumeration.
var shipmentFactories = map[domain.ShipmentProvider]shipmentFactory{
	domain.ShipmentProviderFedEx: func(cfg config.ProvidersConfig, opts ...adapter.Option) (ports.ShipmentConnector, error) {
		a, err := adapter.NewFedExAdapter(cfg.FedEx, opts...)
		if err != nil {
			return nil, err
		}
		return a, nil
	},
	domain.ShipmentProviderUPS: func(cfg config.ProvidersConfig, opts ...adapter.Option) (ports.ShipmentConnector, error) {
		a, err := adapter.NewUPSAdapter(cfg.UPS, opts...)
		if err != nil {
			return nil, err
		}
		return a, nil
	},
	domain.ShipmentProviderUSPS: func(cfg config.ProvidersConfig, opts ...adapter.Option) (ports.ShipmentConnector, error) {
		a, err := adapter.NewUSPSAdapter(cfg.USPS, opts...)
		if err != nil {
			return nil, err
		}
		return a, nil
	},
}

// catalogFactories is keyed by the closed catalog enumeration.
var catalogFactories = map[domain.CatalogProvider]catalogFactory{
	domain.CatalogProviderUPCItemDB: func(cfg config.ProvidersConfig, opts ...adapter.Option) (ports.CatalogConnector, error) {
		a, err := adapter.NewUPCItemDBAdapter(cfg.UPCItemDB, opts...)
		if err != nil {
			return nil, err
		}
		return a, nil
	},
	domain.CatalogProviderBarcodeLookup: func(cfg config.ProvidersConfig, opts ...adapter.Option) (ports.CatalogConnector, error) {
		a, err := adapter.NewBarcodeLookupAdapter(cfg.BarcodeLookup, opts...)
		if err != nil {
			return nil, err
		}
		return a, nil
	},
}

// Registry resolves provider tags to connectors.
// Connectors are built on every call so credential changes and missing
// credentials surface at dispatch time; HTTP clients are shared per provider.
type Registry struct {
	cfg        config.ProvidersConfig
	tokenCache cache.Cache
	clients    map[string]*http.Client
}

// Option configures the Registry.
type Option func(*Registry)

// WithTokenCache shares OAuth tokens across connectors through c.
func WithTokenCache(c cache.Cache) Option {
	return func(r *Registry) {
		r.tokenCache = c
	}
}

// WithHTTPClient replaces every provider client with client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Registry) {
		for tag := range r.clients {
			r.clients[tag] = client
		}
	}
}

// NewRegistry creates a Registry over the given credential context.
func NewRegistry(cfg config.ProvidersConfig, proxySettings proxy.Settings, opts ...Option) *Registry {
	r := &Registry{
		cfg:     cfg,
		clients: make(map[string]*http.Client),
	}

	for _, p := range domain.ShipmentProviders() {
		r.clients[string(p)] = httpclient.NewClient(string(p), cfg.Timeout, proxySettings)
	}
	for _, p := range domain.CatalogProviders() {
		r.clients[string(p)] = httpclient.NewClient(string(p), cfg.Timeout, proxySettings)
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) options(tag string) []adapter.Option {
	opts := []adapter.Option{adapter.WithHTTPClient(r.clients[tag])}
	if r.tokenCache != nil {
		opts = append(opts, adapter.WithTokenCache(r.tokenCache, r.cfg.TokenCacheMargin))
	}
	return opts
}

// Shipment returns the connector for a carrier tag.
func (r *Registry) Shipment(provider domain.ShipmentProvider) (ports.ShipmentConnector, error) {
	factory, ok := shipmentFactories[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, provider)
	}
	return factory(r.cfg, r.options(string(provider))...)
}

// Catalog returns the connector for a catalog tag.
func (r *Registry) Catalog(provider domain.CatalogProvider) (ports.CatalogConnector, error) {
	factory, ok := catalogFactories[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, provider)
	}
	return factory(r.cfg, r.options(string(provider))...)
}

var _ ports.Dispatcher = (*Registry)(nil)
