package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors exported by the API.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	Analyses        *prometheus.CounterVec
	FootprintKg     prometheus.Histogram
}

// NewMetrics registers the API collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "carbon_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		Analyses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carbon_analyses_total",
				Help: "Total number of footprint analyses by outcome",
			},
			[]string{"outcome"},
		),
		FootprintKg: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "carbon_selected_footprint_kg",
				Help:    "Selected annual footprint of analyzed platforms in kg CO2e",
				Buckets: prometheus.ExponentialBuckets(1, 10, 8),
			},
		),
	}
}
