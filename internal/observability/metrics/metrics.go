package metrics

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	generations        metric.Int64Counter
	generationFailures metric.Int64Counter
	quotaDenied        metric.Int64Counter
	quotaDegraded      metric.Int64Counter
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "mocksmith"
	}
	meter := provider.Meter(name)

	generations, err := meter.Int64Counter("mocksmith_generations_total")
	if err != nil {
		return nil, err
	}
	generationFailures, err := meter.Int64Counter("mocksmith_generation_failures_total")
	if err != nil {
		return nil, err
	}
	quotaDenied, err := meter.Int64Counter("mocksmith_quota_denied_total")
	if err != nil {
		return nil, err
	}
	quotaDegraded, err := meter.Int64Counter("mocksmith_quota_degraded_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		generations:        generations,
		generationFailures: generationFailures,
		quotaDenied:        quotaDenied,
		quotaDegraded:      quotaDegraded,
	}, nil
}

// RecordGeneration increments successful generation counts.
func (m *Metrics) RecordGeneration(ctx context.Context, provider, format string) {
	if m == nil {
		return
	}
	m.generations.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("provider", strings.TrimSpace(provider)),
		attribute.String("format", strings.TrimSpace(format)),
	)...))
}

// RecordGenerationFailure increments failed generation counts.
func (m *Metrics) RecordGenerationFailure(ctx context.Context, provider, reason string) {
	if m == nil {
		return
	}
	m.generationFailures.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("provider", strings.TrimSpace(provider)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)...))
}

// RecordQuotaDenied increments quota denial counts.
func (m *Metrics) RecordQuotaDenied(ctx context.Context, scope string) {
	if m == nil {
		return
	}
	m.quotaDenied.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("scope", strings.TrimSpace(scope)),
	)...))
}

// RecordQuotaDegraded increments counts of fail-open quota decisions.
func (m *Metrics) RecordQuotaDegraded(ctx context.Context, scope string) {
	if m == nil {
		return
	}
	m.quotaDegraded.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("scope", strings.TrimSpace(scope)),
	)...))
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"provider":    {},
	"format":      {},
	"reason":      {},
	"scope":       {},
	"endpoint":    {},
	"status_code": {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
