package image

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Image resolution metrics.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	resolveDuration metric.Float64Histogram
	resolveTotal    metric.Int64Counter
}

// Creates a new [Metrics] instance on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	resolveDuration, err := meter.Float64Histogram(
		"doe_image_resolve_duration_seconds",
		metric.WithDescription("Duration of image resolutions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	resolveTotal, err := meter.Int64Counter(
		"doe_image_resolutions_total",
		metric.WithDescription("Total number of image resolutions"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		resolveDuration: resolveDuration,
		resolveTotal:    resolveTotal,
	}, nil
}

// Records one completed resolution.
func (m *Metrics) RecordResolve(ctx context.Context, kind Kind, err error, duration time.Duration) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failed"
	}

	m.resolveDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String("kind", kind.String())))
	m.resolveTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("kind", kind.String()), attribute.String("status", status)))
}
