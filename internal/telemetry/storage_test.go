package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/types"
)

type stubFormat struct {
	records []*types.Record
	saveErr error
	saved   *types.Record
}

func (f *stubFormat) Version() storage.Version { return storage.FormatRecords }

func (f *stubFormat) DetailsPath(dir, id string) string { return dir + "/" + id + ".yaml" }

func (f *stubFormat) Load(context.Context, string) ([]*types.Record, error) {
	return f.records, nil
}

func (f *stubFormat) Save(_ context.Context, _ string, _ []*types.Record, touched *types.Record) error {
	f.saved = touched
	return f.saveErr
}

func setup(t *testing.T, inner storage.Format) (*InstrumentedFormat, *tracetest.InMemoryExporter, *sdkmetric.ManualReader) {
	t.Helper()
	spans := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})
	return newInstrumentedFormat(inner, tp.Tracer("test"), mp.Meter("test")), spans, reader
}

func metricNames(t *testing.T, reader *sdkmetric.ManualReader) map[string]bool {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	return names
}

func TestWrapFormatDisabled(t *testing.T) {
	t.Setenv("B_OTEL_ENABLED", "")
	inner := &stubFormat{}
	assert.Same(t, storage.Format(inner), WrapFormat(inner))
}

func TestInstrumentedLoad(t *testing.T) {
	inner := &stubFormat{records: []*types.Record{
		{ID: "a", Open: true, Entered: time.Now()},
		{ID: "b", Open: false, Entered: time.Now()},
	}}
	f, spans, reader := setup(t, inner)

	got, err := f.Load(context.Background(), "/store")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, storage.FormatRecords, f.Version())
	assert.Equal(t, "/store/a.yaml", f.DetailsPath("/store", "a"))

	ended := spans.GetSpans()
	require.Len(t, ended, 1)
	assert.Equal(t, "storage.Load", ended[0].Name)

	names := metricNames(t, reader)
	assert.True(t, names["b.storage.operations"])
	assert.True(t, names["b.storage.operation.duration"])
	assert.True(t, names["b.record.count"])
}

func TestInstrumentedSaveError(t *testing.T) {
	boom := errors.New("disk full")
	inner := &stubFormat{saveErr: boom}
	f, spans, reader := setup(t, inner)

	r := &types.Record{ID: "abc"}
	err := f.Save(context.Background(), "/store", []*types.Record{r}, r)
	assert.ErrorIs(t, err, boom)
	assert.Same(t, r, inner.saved)

	ended := spans.GetSpans()
	require.Len(t, ended, 1)
	assert.Equal(t, "storage.Save", ended[0].Name)
	assert.Equal(t, "disk full", ended[0].Status.Description)

	assert.True(t, metricNames(t, reader)["b.storage.errors"])
}

func TestInitDisabledInstallsNoop(t *testing.T) {
	t.Setenv("B_OTEL_ENABLED", "")
	require.NoError(t, Init(context.Background(), "b", "test"))
	_, span := Tracer("").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	Shutdown(context.Background())
}
