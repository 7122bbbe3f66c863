package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/metaprop"
)

const instrumentationName = "github.com/zero-day-ai/metaprop/store"

// storeMetrics holds the instruments shared by all operations of a store.
type storeMetrics struct {
	// operations counts calls by operation, backend and outcome
	operations metric.Int64Counter

	// duration records operation duration in milliseconds
	duration metric.Float64Histogram
}

func newStoreMetrics(meter metric.Meter) (*storeMetrics, error) {
	m := &storeMetrics{}
	var err error

	m.operations, err = meter.Int64Counter(
		"metaprop.store.operations",
		metric.WithDescription("Number of store operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create operations counter: %w", err)
	}

	m.duration, err = meter.Float64Histogram(
		"metaprop.store.duration",
		metric.WithDescription("Store operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}
	return m, nil
}

// outcome names the result of an operation for telemetry.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := metaprop.KindOf(err); kind != "" {
		return kind
	}
	return "error"
}

// record ends span and records metrics for one operation. A nil span or nil metrics are
// skipped.
func (s *DocumentStore) record(ctx context.Context, span trace.Span, op string, id uuid.UUID, elapsed time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("store.operation", op),
		attribute.String("store.backend", s.backend.Name()),
		attribute.String("store.outcome", outcome(err)),
	}

	if span != nil {
		span.SetAttributes(attrs...)
		if id != uuid.Nil {
			span.SetAttributes(attribute.String("store.object_id", id.String()))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}

	if s.metrics != nil {
		opts := metric.WithAttributes(attrs...)
		s.metrics.operations.Add(ctx, 1, opts)
		s.metrics.duration.Record(ctx, float64(elapsed.Microseconds())/1000, opts)
	}
}
