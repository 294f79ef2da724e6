package assistant

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/jharkhand-yatra/tourassist/internal/app/models"
	"github.com/jharkhand-yatra/tourassist/internal/observability/metrics"
)

// Invoker fans one (message, language) out to every registered provider
// concurrently and collects every outcome. A slow or failing provider never
// blocks or loses the results of the others, and no provider error ever
// propagates past the invoker.
type Invoker struct {
	providers []Provider
	timeout   time.Duration
	logger    *zap.Logger
}

func NewInvoker(providers []Provider, timeout time.Duration, logger *zap.Logger) *Invoker {
	return &Invoker{
		providers: providers,
		timeout:   timeout,
		logger:    logger,
	}
}

// Providers returns the registration-ordered provider set.
func (inv *Invoker) Providers() []Provider {
	return inv.providers
}

// Invoke starts every provider call simultaneously and waits for all of
// them to settle. The returned slice has one slot per provider in
// registration order. There is no short-circuiting: selection happens
// downstream, not during fan-out.
func (inv *Invoker) Invoke(ctx context.Context, message, language string) []models.InvocationResult {
	ctx, span := otel.Tracer("AssistantService").Start(ctx, "Invoke", trace.WithAttributes(
		attribute.Int("providers.count", len(inv.providers)),
		attribute.String("language", language),
	))
	defer span.End()

	if inv.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	metrics.Get().FanOutsTotal.Add(ctx, 1)

	results := make([]models.InvocationResult, len(inv.providers))

	var wg sync.WaitGroup
	for i, p := range inv.providers {
		wg.Add(1)
		go func(slot int, p Provider) {
			defer wg.Done()
			results[slot] = inv.callProvider(ctx, p, message, language)
		}(i, p)
	}
	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Ok() {
			succeeded++
		}
	}
	span.SetAttributes(attribute.Int("results.succeeded", succeeded))
	span.SetStatus(codes.Ok, "Fan-out completed")

	return results
}

// callProvider runs one provider call and converts any failure into a
// failed slot. Each goroutine writes only its own slot, so no shared
// mutable state crosses provider tasks.
func (inv *Invoker) callProvider(ctx context.Context, p Provider, message, language string) models.InvocationResult {
	ctx, span := otel.Tracer("AssistantService").Start(ctx, "callProvider", trace.WithAttributes(
		attribute.String("provider", p.Name()),
	))
	defer span.End()

	m := metrics.Get()
	m.ProviderCallsTotal.Add(ctx, 1, providerAttr(p.Name()))

	startTime := time.Now()
	candidate, err := p.Generate(ctx, message, language)
	elapsed := time.Since(startTime)
	m.ProviderCallDuration.Record(ctx, elapsed.Seconds(), providerAttr(p.Name()))
	span.SetAttributes(attribute.Int("response.latency_ms", int(elapsed.Milliseconds())))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Provider call failed")
		m.ProviderFailuresTotal.Add(ctx, 1, providerAttr(p.Name()))
		inv.logger.Warn("Provider call failed",
			zap.String("provider", p.Name()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return models.InvocationResult{Provider: p.Name(), Err: err}
	}

	span.SetAttributes(
		attribute.Int("response.length", len(candidate.Text)),
		attribute.Float64("response.confidence", candidate.Confidence),
	)
	span.SetStatus(codes.Ok, "Provider call succeeded")

	return models.InvocationResult{Provider: p.Name(), Candidate: &candidate}
}

func providerAttr(name string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("provider", name))
}
