package bundle

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Bundle generation metrics.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	buildDuration metric.Float64Histogram
	buildTotal    metric.Int64Counter
}

// Creates a new [Metrics] instance on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	buildDuration, err := meter.Float64Histogram(
		"doe_bundle_build_duration_seconds",
		metric.WithDescription("Duration of bundle builds in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	buildTotal, err := meter.Int64Counter(
		"doe_bundle_builds_total",
		metric.WithDescription("Total number of bundle builds"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		buildDuration: buildDuration,
		buildTotal:    buildTotal,
	}, nil
}

// Records metrics for a completed build.
func (m *Metrics) RecordBuild(ctx context.Context, err error, duration time.Duration) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failed"
	}
	attrs := metric.WithAttributes(attribute.String("status", status))

	m.buildDuration.Record(ctx, duration.Seconds(), attrs)
	m.buildTotal.Add(ctx, 1, attrs)
}
