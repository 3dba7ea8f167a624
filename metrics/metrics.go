// Package metrics holds the Prometheus collectors shared by the fetchers,
// the scrape engine and the session history.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry         *prometheus.Registry
	FetchesTotal     *prometheus.CounterVec
	FetchDuration    prometheus.Histogram
	FetchErrorsTotal *prometheus.CounterVec
	RetriesTotal     prometheus.Counter
	ScrapesTotal     *prometheus.CounterVec
	FieldsMissing    *prometheus.CounterVec
	HistorySize      prometheus.Gauge
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_fetches_total",
			Help: "Total document fetches by renderer.",
		},
		[]string{"renderer"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_fetch_duration_seconds",
			Help:    "Time to obtain a rendered document.",
			Buckets: prometheus.DefBuckets,
		},
	)
	fetchErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_fetch_errors_total",
			Help: "Total number of failed fetch attempts by type.",
		},
		[]string{"error_type"},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_retries_total",
			Help: "Total number of retry attempts.",
		},
	)
	scrapes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_scrapes_total",
			Help: "Total scrape invocations by outcome.",
		},
		[]string{"outcome"},
	)
	fieldsMissing := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_fields_unavailable_total",
			Help: "Total number of fields that could not be extracted.",
		},
		[]string{"field"},
	)
	historySize := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scraper_history_entries",
			Help: "Number of results in the session history.",
		},
	)

	registry.MustRegister(fetches, fetchDuration, fetchErrors, retries, scrapes, fieldsMissing, historySize)

	return &Metrics{
		Registry:         registry,
		FetchesTotal:     fetches,
		FetchDuration:    fetchDuration,
		FetchErrorsTotal: fetchErrors,
		RetriesTotal:     retries,
		ScrapesTotal:     scrapes,
		FieldsMissing:    fieldsMissing,
		HistorySize:      historySize,
	}
}

// IncFetch increments the fetch counter for a renderer.
func (m *Metrics) IncFetch(renderer string) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(renderer).Inc()
}

// ObserveDuration records a fetch duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.FetchErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncRetries increments the retries counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncScrape increments the scrape counter for an outcome.
func (m *Metrics) IncScrape(outcome string) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(outcome).Inc()
}

// IncFieldMissing counts one unavailable field.
func (m *Metrics) IncFieldMissing(field string) {
	if m == nil {
		return
	}
	m.FieldsMissing.WithLabelValues(field).Inc()
}

// SetHistorySize records the current history length.
func (m *Metrics) SetHistorySize(n int) {
	if m == nil {
		return
	}
	m.HistorySize.Set(float64(n))
}
