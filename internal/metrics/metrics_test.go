package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brokerdesk/internal/docpath"
	"brokerdesk/internal/domain"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(reqTotal.WithLabelValues("GET", "/api/clients/:id", "200"))
	ObserveRequest("GET", "/api/clients/:id", 200, 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(reqTotal.WithLabelValues("GET", "/api/clients/:id", "200")))
}

func TestObserveResolution(t *testing.T) {
	before := testutil.ToFloat64(resolutionTotal.WithLabelValues("temp"))
	ObserveResolution(docpath.MethodTemp)
	assert.Equal(t, before+1, testutil.ToFloat64(resolutionTotal.WithLabelValues("temp")))
}

func TestObserveRepair(t *testing.T) {
	okBefore := testutil.ToFloat64(repairRuns.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(repairRuns.WithLabelValues("error"))
	fixedBefore := testutil.ToFloat64(repairFixed)

	ObserveRepair(&domain.RepairReport{FixedPaths: 4, Missing: make([]domain.MissingDocument, 2)}, nil)
	assert.Equal(t, okBefore+1, testutil.ToFloat64(repairRuns.WithLabelValues("ok")))
	assert.Equal(t, fixedBefore+4, testutil.ToFloat64(repairFixed))
	assert.Equal(t, float64(2), testutil.ToFloat64(repairMissing))

	// dry runs and failures leave the fix counters alone
	ObserveRepair(&domain.RepairReport{DryRun: true, FixedPaths: 9}, nil)
	ObserveRepair(nil, errors.New("db down"))
	assert.Equal(t, fixedBefore+4, testutil.ToFloat64(repairFixed))
	assert.Equal(t, float64(2), testutil.ToFloat64(repairMissing))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(repairRuns.WithLabelValues("error")))
}

func TestHandler(t *testing.T) {
	ObserveRequest("POST", "/api/auth/login", 401, time.Millisecond)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `brokerdesk_http_requests_total{method="POST",path="/api/auth/login",status="401"}`)
	assert.Contains(t, string(body), "go_goroutines")
}
