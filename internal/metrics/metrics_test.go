package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("/trips/{tripId}", http.MethodGet, http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest("/trips/{tripId}", http.MethodGet, http.StatusOK, 30*time.Millisecond)
	m.ItineraryViewed()
	m.AuthAttempt("login", false)
	m.AuthAttempt("login", true)
	m.AuthAttempt("login", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/trips/{tripId}", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ItineraryViews))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthAttempts.WithLabelValues("login", "failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthAttempts.WithLabelValues("login", "success")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPDuration))
}

func TestMetrics_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveRequest("/", "GET", 200, time.Second)
		m.ItineraryViewed()
		m.AuthAttempt("login", true)
	})
}
