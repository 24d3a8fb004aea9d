package adapter

import (
	"net/http"
	"time"

	"sku-tracker/internal/core/cache"
	"sku-tracker/internal/core/httpclient"
	"sku-tracker/internal/core/logger"
	"sku-tracker/internal/core/proxy"

	"go.uber.org/zap"
)

// defaultTimeout bounds provider calls when no client is injected.
const defaultTimeout = 30 * time.Second

// Option configures a connector at construction time.
type Option func(*options)

type options struct {
	client      *http.Client
	tokenCache  cache.Cache
	cacheMargin time.Duration
	logger      *zap.Logger
}

// WithHTTPClient sets the client used for every request of the connector.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithTokenCache enables the shared OAuth token cache for carriers that authenticate.
// Cached tokens expire margin before the provider says they do.
func WithTokenCache(c cache.Cache, margin time.Duration) Option {
	return func(o *options) {
		o.tokenCache = c
		o.cacheMargin = margin
	}
}

// WithLogger overrides the connector logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(component string, opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = httpclient.NewClient(component, defaultTimeout, proxy.Settings{})
	}
	if o.logger == nil {
		o.logger = logger.Named("connector." + component)
	}
	return o
}
