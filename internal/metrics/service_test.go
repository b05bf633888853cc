package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)

	svc.IncJoins()
	svc.IncJoins()
	svc.IncCapacityRejections()
	svc.AddRemindersSent(3)
	svc.AddRemindersSent(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(svc.Joins))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.CapacityRejections))
	assert.Equal(t, 3.0, testutil.ToFloat64(svc.RemindersSent))
	assert.Equal(t, 0.0, testutil.ToFloat64(svc.Leaves))
}

func TestMetricsHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)
	svc.IncReminderRuns()

	rr := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/metrics", nil)
	require.NoError(t, err)
	NewMetricsHandler(reg).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pickup_reminder_runs_total 1")
}
