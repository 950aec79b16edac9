// Package telemetry wires OpenTelemetry into b.
//
// It is off unless B_OTEL_ENABLED=true, and then installs:
//
//	B_OTEL_STDOUT=true                spans and metrics printed to stdout
//	OTEL_EXPORTER_OTLP_ENDPOINT=...   metrics pushed over OTLP/HTTP
//
// OTEL_EXPORTER_OTLP_METRICS_ENDPOINT overrides the shared endpoint. Either
// may be a bare host:port or a full URL.
package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationScope = "github.com/bugtrack/b"

// A command runs for well under the export interval; Shutdown flushes.
const metricInterval = 30 * time.Second

var shutdownFns []func(context.Context) error

// settings is the telemetry configuration read from the environment.
type settings struct {
	enabled  bool
	stdout   bool
	endpoint string
}

func settingsFromEnv() settings {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT")
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	return settings{
		enabled:  os.Getenv("B_OTEL_ENABLED") == "true",
		stdout:   os.Getenv("B_OTEL_STDOUT") == "true",
		endpoint: endpoint,
	}
}

// Enabled reports whether telemetry is switched on.
func Enabled() bool {
	return settingsFromEnv().enabled
}

// Init installs the global tracer and meter providers. With telemetry off
// both are no-ops.
func Init(ctx context.Context, serviceName, version string) error {
	s := settingsFromEnv()
	if !s.enabled {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
		return nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
		resource.WithProcess(),
	)
	if err != nil {
		return fmt.Errorf("telemetry: resource: %w", err)
	}

	topts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if s.stdout {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("telemetry: stdout spans: %w", err)
		}
		topts = append(topts, sdktrace.WithSyncer(exp))
	}
	tp := sdktrace.NewTracerProvider(topts...)
	otel.SetTracerProvider(tp)
	shutdownFns = append(shutdownFns, tp.Shutdown)

	mopts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if s.stdout {
		exp, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("telemetry: stdout metrics: %w", err)
		}
		mopts = append(mopts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(metricInterval))))
	}
	if s.endpoint != "" {
		exp, err := otlpmetrichttp.New(ctx, parseOTLPEndpoint(s.endpoint).options()...)
		if err != nil {
			return fmt.Errorf("telemetry: otlp metrics: %w", err)
		}
		mopts = append(mopts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(metricInterval))))
	}
	mp := sdkmetric.NewMeterProvider(mopts...)
	otel.SetMeterProvider(mp)
	shutdownFns = append(shutdownFns, mp.Shutdown)

	return nil
}

// otlpTarget describes where OTLP metrics go.
type otlpTarget struct {
	endpoint string
	isURL    bool
	insecure bool
}

// parseOTLPEndpoint accepts a full URL or a bare host:port. Bare endpoints
// and http:// URLs are sent without TLS.
func parseOTLPEndpoint(endpoint string) otlpTarget {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return otlpTarget{endpoint: endpoint, insecure: true}
	}
	return otlpTarget{endpoint: endpoint, isURL: true, insecure: u.Scheme == "http"}
}

func (t otlpTarget) options() []otlpmetrichttp.Option {
	var opts []otlpmetrichttp.Option
	if t.isURL {
		opts = append(opts, otlpmetrichttp.WithEndpointURL(t.endpoint))
	} else {
		opts = append(opts, otlpmetrichttp.WithEndpoint(t.endpoint))
	}
	if t.insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	return opts
}

// Tracer returns a tracer for name, or for b as a whole when name is "".
func Tracer(name string) trace.Tracer {
	if name == "" {
		name = instrumentationScope
	}
	return otel.Tracer(name)
}

// Meter returns a meter for name, or for b as a whole when name is "".
func Meter(name string) metric.Meter {
	if name == "" {
		name = instrumentationScope
	}
	return otel.Meter(name)
}

// Shutdown flushes and stops the providers installed by Init.
func Shutdown(ctx context.Context) {
	for _, fn := range shutdownFns {
		_ = fn(ctx)
	}
	shutdownFns = nil
}
