package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the portal's prometheus collectors
type Metrics struct {
	Searches       *prometheus.CounterVec
	StaleSearches  prometheus.Counter
	SearchDuration prometheus.Histogram
	WizardOpens    *prometheus.CounterVec
	Bookings       *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
	Requests       *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Flight searches by outcome",
		}, []string{"outcome"}),
		StaleSearches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_search_responses_total",
			Help:      "Search responses discarded because a newer search was issued",
		}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent waiting on the upstream search endpoint",
			Buckets:   prometheus.DefBuckets,
		}),
		WizardOpens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_opens_total",
			Help:      "Booking wizard open attempts by outcome",
		}, []string{"outcome"}),
		Bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Booking submissions by outcome",
		}, []string{"outcome"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Portal sessions currently held in memory",
		}),
		Requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Portal HTTP requests by route, method and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
	if reg != nil {
		reg.MustRegister(m.Searches, m.StaleSearches, m.SearchDuration, m.WizardOpens, m.Bookings, m.ActiveSessions, m.Requests)
	}
	return m
}

// NewNop returns collectors that are not registered anywhere
func NewNop() *Metrics {
	return NewMetrics("portal", nil)
}
