package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder exposes counters/histograms for the booking flows.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	backendRequests *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
	fallbackServed  *prometheus.CounterVec
	routeProbes     *prometheus.CounterVec
	staleDiscarded  *prometheus.CounterVec
	submissions     *prometheus.CounterVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	m := &Recorder{
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Requests issued to the booking backend",
		}, []string{"op", "outcome"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "barber",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Latency of booking backend requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		fallbackServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "catalog",
			Name:      "fallback_served_total",
			Help:      "Read paths answered from the static dataset",
		}, []string{"resource", "reason"}),
		routeProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "backend",
			Name:      "route_probes_total",
			Help:      "Work-day route candidates tried, by result",
		}, []string{"route", "result"}),
		staleDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "form",
			Name:      "stale_results_discarded_total",
			Help:      "Fetch results dropped because a newer selection superseded them",
		}, []string{"section"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "form",
			Name:      "submissions_total",
			Help:      "Appointment submissions by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.backendRequests, m.backendLatency, m.fallbackServed,
		m.routeProbes, m.staleDiscarded, m.submissions)
	return m
}

func (m *Recorder) ObserveBackend(op, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.backendRequests.WithLabelValues(op, outcome).Inc()
	m.backendLatency.WithLabelValues(op).Observe(seconds)
}

func (m *Recorder) FallbackServed(resource, reason string) {
	if m == nil {
		return
	}
	m.fallbackServed.WithLabelValues(resource, reason).Inc()
}

func (m *Recorder) RouteProbe(route, result string) {
	if m == nil {
		return
	}
	m.routeProbes.WithLabelValues(route, result).Inc()
}

func (m *Recorder) StaleDiscarded(section string) {
	if m == nil {
		return
	}
	m.staleDiscarded.WithLabelValues(section).Inc()
}

func (m *Recorder) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}
