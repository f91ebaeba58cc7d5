package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the pipeline's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal         metric.Int64Counter
	HTTPRequestDuration       metric.Float64Histogram
	SegmentationRequestsTotal metric.Int64Counter
	DiscoveryRequestsTotal    metric.Int64Counter
	DiscoveryStageDuration    metric.Float64Histogram
	ExternalFetchErrorsTotal  metric.Int64Counter
	RateLimitRejectionsTotal  metric.Int64Counter
	CacheHitsTotal            metric.Int64Counter
	CacheMissesTotal          metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments exactly once,
// using the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("tripweaver")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.SegmentationRequestsTotal, err = meter.Int64Counter(
			"segmentation_requests_total",
			metric.WithDescription("Total number of route segmentation requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create segmentation_requests_total: %v", err)
		}

		m.DiscoveryRequestsTotal, err = meter.Int64Counter(
			"discovery_requests_total",
			metric.WithDescription("Total number of POI discovery requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create discovery_requests_total: %v", err)
		}

		m.DiscoveryStageDuration, err = meter.Float64Histogram(
			"discovery_stage_duration_seconds",
			metric.WithDescription("Duration of each discovery stage in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create discovery_stage_duration_seconds: %v", err)
		}

		m.ExternalFetchErrorsTotal, err = meter.Int64Counter(
			"external_fetch_errors_total",
			metric.WithDescription("Total number of failed external provider calls"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create external_fetch_errors_total: %v", err)
		}

		m.RateLimitRejectionsTotal, err = meter.Int64Counter(
			"rate_limit_rejections_total",
			metric.WithDescription("Total number of requests declined by the rate limiter"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create rate_limit_rejections_total: %v", err)
		}

		m.CacheHitsTotal, err = meter.Int64Counter(
			"cache_hits_total",
			metric.WithDescription("Total number of cache hits"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create cache_hits_total: %v", err)
		}

		m.CacheMissesTotal, err = meter.Int64Counter(
			"cache_misses_total",
			metric.WithDescription("Total number of cache misses"),
			metric.WithUnit("{miss}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create cache_misses_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the initialized metrics, or nil before InitAppMetrics.
func Get() *AppMetrics {
	return appMetrics
}
