package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RequestTotal.WithLabelValues("GET", "/api/products", "200").Inc()
	m.RequestDuration.WithLabelValues("GET", "/api/products", "200").Observe(0.01)
	m.InFlight.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"storefront_http_requests_total",
		"storefront_http_request_duration_seconds",
		"storefront_http_requests_in_flight",
	}, names)

	body := scrape(t, m)
	assert.Contains(t, body, `storefront_http_requests_total{method="GET",route="/api/products",status="200"} 1`)
	assert.Contains(t, body, "storefront_http_requests_in_flight 1")
}

func TestNew_DefaultRegistryIncludesRuntime(t *testing.T) {
	m := New(nil)
	m.RequestTotal.WithLabelValues("GET", "/health", "200").Inc()

	body := scrape(t, m)
	assert.Contains(t, body, `storefront_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
