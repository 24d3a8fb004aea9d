package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestObserveProviderRequest verifies status and transport-error labelling.
func TestObserveProviderRequest(t *testing.T) {
	before := testutil.ToFloat64(ProviderRequests.WithLabelValues("metrics-test", "200"))
	ObserveProviderRequest("metrics-test", 200, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(ProviderRequests.WithLabelValues("metrics-test", "200")))

	beforeErr := testutil.ToFloat64(ProviderRequests.WithLabelValues("metrics-test", "error"))
	ObserveProviderRequest("metrics-test", 0, time.Second)
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(ProviderRequests.WithLabelValues("metrics-test", "error")))
}

// TestHandler verifies the exposition endpoint serves registered collectors.
func TestHandler(t *testing.T) {
	IngestedEvents.WithLabelValues("UPS").Add(2)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `sku_tracker_ingested_events_total{provider="UPS"}`)
}
