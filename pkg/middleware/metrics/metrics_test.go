package metrics

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectCountsRequests(t *testing.T) {
	SetPathNormalizer(func(r *http.Request) string {
		if strings.HasPrefix(r.URL.Path, "/devices/") {
			return "/devices/:id"
		}
		return r.URL.Path
	})
	AddMetricsSkipPaths("/healthz")

	h := Collect()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	byURI := totalHttpRequestsToUri.WithLabelValues("202", "/devices/:id", http.MethodPut)
	byCode := totalHttpRequests.WithLabelValues("202", http.MethodPut)
	beforeURI, beforeCode := testutil.ToFloat64(byURI), testutil.ToFloat64(byCode)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/devices/1", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/devices/2", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/healthz", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/metrics", nil))

	assert.Equal(t, beforeURI+2, testutil.ToFloat64(byURI))
	assert.Equal(t, beforeCode+2, testutil.ToFloat64(byCode))
}

func TestPatternRulesGroupAndSkip(t *testing.T) {
	lamps := regexp.MustCompile(`^/lamps/(?P<id>[0-9]+)$`)
	hidden := regexp.MustCompile(`^/internal/`)
	GroupPatterns(lamps)
	AddMetricsSkipPatterns(hidden)

	h := Collect()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	byPattern := totalHttpRequestsToUri.WithLabelValues("200", lamps.String(), http.MethodGet)
	byCode := totalHttpRequests.WithLabelValues("200", http.MethodGet)
	beforePattern, beforeCode := testutil.ToFloat64(byPattern), testutil.ToFloat64(byCode)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/lamps/1", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/lamps/22", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/internal/state", nil))

	assert.Equal(t, beforePattern+2, testutil.ToFloat64(byPattern))
	assert.Equal(t, beforeCode+2, testutil.ToFloat64(byCode))
}

func TestRecordOutcome(t *testing.T) {
	c := resolutionOutcomes.WithLabelValues("advance", http.MethodGet)
	before := testutil.ToFloat64(c)

	RecordOutcome("advance", http.MethodGet)
	RecordOutcome("advance", http.MethodGet)

	assert.Equal(t, before+2, testutil.ToFloat64(c))
}

func TestMetricsHandlerExposesOutcomes(t *testing.T) {
	RecordOutcome("send", http.MethodGet)

	rec := httptest.NewRecorder()
	ProvideMetrics().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `resolution_outcomes_total{method="GET",outcome="send"}`)
}
