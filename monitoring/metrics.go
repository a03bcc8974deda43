// Package monitoring provides metrics and observability for the trident-rss backend
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Listing page metrics
	listingFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trident_listing_fetch_total",
			Help: "Total number of blog listing fetch attempts",
		},
		[]string{"status"},
	)

	listingFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trident_listing_fetch_duration_seconds",
			Help:    "Duration of blog listing fetch and pipeline runs",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	linksExtracted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trident_links_extracted",
			Help:    "Number of candidate links extracted per listing page",
			Buckets: []float64{0, 1, 5, 10, 15, 25, 50, 100},
		},
	)

	// Enrichment metrics
	enrichmentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trident_enrichment_total",
			Help: "Total number of article date enrichment attempts by outcome",
		},
		[]string{"outcome"},
	)

	enrichmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trident_enrichment_duration_seconds",
			Help:    "Duration of article date enrichment attempts",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	enrichmentInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trident_enrichment_in_flight",
			Help: "Number of article enrichment fetches currently in flight",
		},
	)

	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trident_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trident_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
)

// RecordListingFetch records a listing page fetch attempt
func RecordListingFetch(status string, duration float64) {
	listingFetchTotal.WithLabelValues(status).Inc()
	listingFetchDuration.WithLabelValues(status).Observe(duration)
}

// RecordLinksExtracted records how many candidate links one extraction yielded
func RecordLinksExtracted(count int) {
	linksExtracted.Observe(float64(count))
}

// RecordEnrichment records an article date enrichment attempt.
// Outcomes: meta, time_element, absent, fetch_error, parse_error.
func RecordEnrichment(outcome string, duration float64) {
	enrichmentTotal.WithLabelValues(outcome).Inc()
	enrichmentDuration.WithLabelValues(outcome).Observe(duration)
}

// EnrichmentStarted increments the in-flight enrichment gauge
func EnrichmentStarted() {
	enrichmentInFlight.Inc()
}

// EnrichmentFinished decrements the in-flight enrichment gauge
func EnrichmentFinished() {
	enrichmentInFlight.Dec()
}

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration)
}
