package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsMuxExposesApplicationCollectors(t *testing.T) {
	reg := InitRegistry()

	ObserveHTTP("/test", "GET", 200, 5*time.Millisecond)
	ObserveExternal("nominatim", "/search", 200, 5*time.Millisecond)

	rr := httptest.NewRecorder()
	metricsMux(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	if rr.Code != 200 {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, series := range []string{"tripzy_http_requests_total", "tripzy_external_requests_total"} {
		if !strings.Contains(out, series) {
			t.Fatalf("expected %s on the metrics endpoint", series)
		}
	}
}
