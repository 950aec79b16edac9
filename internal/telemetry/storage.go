package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/types"
)

const storageScopeName = "github.com/bugtrack/b/storage"

// InstrumentedFormat wraps a storage.Format with OTel tracing and metrics.
// Load and Save each get a span and are counted in b.storage.* metrics.
// Use WrapFormat to create one; it returns the original format unchanged
// when telemetry is disabled.
type InstrumentedFormat struct {
	inner       storage.Format
	tracer      trace.Tracer
	ops         metric.Int64Counter
	dur         metric.Float64Histogram
	errs        metric.Int64Counter
	recordGauge metric.Int64Gauge
}

// WrapFormat returns f decorated with OTel instrumentation.
// When telemetry is disabled, f is returned as-is.
func WrapFormat(f storage.Format) storage.Format {
	if !Enabled() {
		return f
	}
	return newInstrumentedFormat(f, Tracer(storageScopeName), Meter(storageScopeName))
}

func newInstrumentedFormat(f storage.Format, tracer trace.Tracer, m metric.Meter) *InstrumentedFormat {
	ops, _ := m.Int64Counter("b.storage.operations",
		metric.WithDescription("Total storage operations executed"),
	)
	dur, _ := m.Float64Histogram("b.storage.operation.duration",
		metric.WithDescription("Storage operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("b.storage.errors",
		metric.WithDescription("Total storage operation errors"),
	)
	recordGauge, _ := m.Int64Gauge("b.record.count",
		metric.WithDescription("Number of records by status, sampled on load"),
	)
	return &InstrumentedFormat{
		inner:       f,
		tracer:      tracer,
		ops:         ops,
		dur:         dur,
		errs:        errs,
		recordGauge: recordGauge,
	}
}

// op starts a span and records a metric for the named storage operation.
func (s *InstrumentedFormat) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{
		attribute.String("b.storage.operation", name),
		attribute.String("b.storage.format", s.inner.Version().String()),
	}, attrs...)
	ctx, span := s.tracer.Start(ctx, "storage."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	s.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span, records duration and optional error.
func (s *InstrumentedFormat) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs ...attribute.KeyValue) {
	ms := float64(time.Since(start).Milliseconds())
	s.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

func (s *InstrumentedFormat) Version() storage.Version {
	return s.inner.Version()
}

func (s *InstrumentedFormat) DetailsPath(dir, id string) string {
	return s.inner.DetailsPath(dir, id)
}

func (s *InstrumentedFormat) Load(ctx context.Context, dir string) ([]*types.Record, error) {
	ctx, span, t := s.op(ctx, "Load")
	records, err := s.inner.Load(ctx, dir)
	s.done(ctx, span, t, err)
	if err == nil {
		open := 0
		for _, r := range records {
			if r.Open {
				open++
			}
		}
		status := func(name string) metric.MeasurementOption {
			return metric.WithAttributes(attribute.String("status", name))
		}
		s.recordGauge.Record(ctx, int64(open), status("open"))
		s.recordGauge.Record(ctx, int64(len(records)-open), status("resolved"))
	}
	return records, err
}

func (s *InstrumentedFormat) Save(ctx context.Context, dir string, all []*types.Record, touched *types.Record) error {
	attrs := []attribute.KeyValue{attribute.Int("b.record.count", len(all))}
	if touched != nil {
		attrs = append(attrs, attribute.String("b.record.id", touched.ID))
	}
	ctx, span, t := s.op(ctx, "Save", attrs...)
	err := s.inner.Save(ctx, dir, all, touched)
	s.done(ctx, span, t, err, attrs...)
	return err
}
