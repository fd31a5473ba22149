package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRecorder(reg)

	m.ObserveBackend("list_barbers", "ok", 0.2)
	m.ObserveBackend("list_barbers", "ok", 0.1)
	m.FallbackServed("services", "network")
	m.RouteProbe("schedules_workdays", "hit")
	m.StaleDiscarded("slots")
	m.Submission("created")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.backendRequests.WithLabelValues("list_barbers", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbackServed.WithLabelValues("services", "network")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.staleDiscarded.WithLabelValues("slots")))
}

func TestRecorderNilSafe(t *testing.T) {
	var m *Recorder
	m.ObserveBackend("op", "ok", 0.1)
	m.FallbackServed("services", "network")
	m.RouteProbe("route", "miss")
	m.StaleDiscarded("work_days")
	m.Submission("failed")
}
