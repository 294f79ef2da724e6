package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal        metric.Int64Counter
	HTTPRequestDuration      metric.Float64Histogram
	FanOutsTotal             metric.Int64Counter
	ProviderCallsTotal       metric.Int64Counter
	ProviderFailuresTotal    metric.Int64Counter
	ProviderCallDuration     metric.Float64Histogram
	SelectionScore           metric.Float64Histogram
	FallbackResponsesTotal   metric.Int64Counter
	CachedResponsesTotal     metric.Int64Counter
	InteractionLogErrorTotal metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("tourassist")
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

		m.FanOutsTotal, err = meter.Int64Counter(
			"assistant_fanouts_total",
			metric.WithDescription("Total number of multi-provider fan-outs issued"),
			metric.WithUnit("{fanout}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create assistant_fanouts_total: %v", err)
		}

		m.ProviderCallsTotal, err = meter.Int64Counter(
			"assistant_provider_calls_total",
			metric.WithDescription("Total number of provider generation calls"),
			metric.WithUnit("{call}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create assistant_provider_calls_total: %v", err)
		}

		m.ProviderFailuresTotal, err = meter.Int64Counter(
			"assistant_provider_failures_total",
			metric.WithDescription("Total number of provider calls absorbed as failures"),
			metric.WithUnit("{failure}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create assistant_provider_failures_total: %v", err)
		}

		m.ProviderCallDuration, err = meter.Float64Histogram(
			"assistant_provider_call_duration_seconds",
			metric.WithDescription("Duration of individual provider generation calls"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create assistant_provider_call_duration_seconds: %v", err)
		}

		m.SelectionScore, err = meter.Float64Histogram(
			"assistant_selection_score",
			metric.WithDescription("Heuristic score of the winning candidate per selection run"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create assistant_selection_score: %v", err)
		}

		m.FallbackResponsesTotal, err = meter.Int64Counter(
			"assistant_fallback_responses_total",
			metric.WithDescription("Chat turns answered with the localized fallback message"),
			metric.WithUnit("{response}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create assistant_fallback_responses_total: %v", err)
		}

		m.CachedResponsesTotal, err = meter.Int64Counter(
			"assistant_cached_responses_total",
			metric.WithDescription("Chat turns served from the response cache"),
			metric.WithUnit("{response}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create assistant_cached_responses_total: %v", err)
		}

		m.InteractionLogErrorTotal, err = meter.Int64Counter(
			"assistant_interaction_log_errors_total",
			metric.WithDescription("Failed attempts to persist an assistant interaction"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create assistant_interaction_log_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
