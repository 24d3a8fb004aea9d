package httpclient

import (
	"net/http"
	"net/url"
	"time"

	"sku-tracker/internal/core/logger"
	"sku-tracker/internal/core/metrics"
	"sku-tracker/internal/core/proxy"

	"go.uber.org/zap"
)

// sensitiveParams are query parameters whose values never reach the logs.
// USPS embeds its USERID inside the XML parameter.
var sensitiveParams = []string{"key", "XML", "client_secret", "user_key"}

// LoggingRoundTripper captures request details for debugging and metrics.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
	// Provider labels the log entries and metrics (e.g., "fedex").
	Provider string
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	target := RedactURL(req.URL)

	logger.Get().Debug("HTTP Request Started",
		zap.String("provider", lrt.Provider),
		zap.String("method", req.Method),
		zap.String("url", target),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		metrics.ObserveProviderRequest(lrt.Provider, 0, duration)
		logger.Get().Error("HTTP Request Failed",
			zap.String("provider", lrt.Provider),
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.ObserveProviderRequest(lrt.Provider, resp.StatusCode, duration)
	logger.Get().Debug("HTTP Request Completed",
		zap.String("provider", lrt.Provider),
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// RedactURL renders u with sensitive query values masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	redacted := false
	for _, p := range sensitiveParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			redacted = true
		}
	}
	if !redacted {
		return u.String()
	}
	clone := *u
	clone.RawQuery = q.Encode()
	return clone.String()
}

// NewClient returns an http.Client for one provider with logging middleware,
// a bounded timeout and the configured outbound proxy.
func NewClient(provider string, timeout time.Duration, proxySettings proxy.Settings) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxySettings.ProxyFunc()

	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied:  transport,
			Provider: provider,
		},
		Timeout: timeout,
	}
}
