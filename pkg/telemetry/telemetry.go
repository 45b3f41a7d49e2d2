// Package telemetry configures OpenTelemetry tracing for mdpkm.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/macropower/mdpkm/pkg/version"
)

const ServiceName = "mdpkm"

// ErrNoExporter is returned by [New] when neither an endpoint nor an exporter
// is configured.
var ErrNoExporter = errors.New("no trace exporter configured")

type config struct {
	exporter sdktrace.SpanExporter
	sampler  sdktrace.Sampler
	insecure bool
}

type Opt func(*config)

// WithInsecure disables TLS for host:port endpoints. Endpoint URLs choose
// by scheme instead.
func WithInsecure() Opt {
	return func(c *config) {
		c.insecure = true
	}
}

// WithExporter exports spans to e instead of OTLP.
func WithExporter(e sdktrace.SpanExporter) Opt {
	return func(c *config) {
		c.exporter = e
	}
}

func WithSampler(s sdktrace.Sampler) Opt {
	return func(c *config) {
		c.sampler = s
	}
}

// New creates a tracer provider exporting to endpoint over OTLP/gRPC. The
// endpoint is either host:port or a URL such as http://localhost:4317.
func New(ctx context.Context, endpoint string, opts ...Opt) (*sdktrace.TracerProvider, error) {
	cfg := &config{sampler: sdktrace.ParentBased(sdktrace.AlwaysSample())}
	for _, opt := range opts {
		opt(cfg)
	}

	exporter := cfg.exporter
	if exporter == nil {
		if endpoint == "" {
			return nil, ErrNoExporter
		}

		var err error

		exporter, err = otlptracegrpc.New(ctx, endpointOpts(endpoint, cfg.insecure)...)
		if err != nil {
			return nil, fmt.Errorf("create OTLP exporter: %w", err)
		}
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version.GetVersion()),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(cfg.sampler),
	), nil
}

// Install makes tp the global tracer provider and returns a function that
// flushes and stops it.
func Install(tp *sdktrace.TracerProvider) func(context.Context) error {
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	slog.Debug("installed tracer provider")

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if err != nil {
			return fmt.Errorf("shut down tracer provider: %w", err)
		}

		return nil
	}
}

func endpointOpts(endpoint string, insecure bool) []otlptracegrpc.Option {
	if strings.Contains(endpoint, "://") {
		return []otlptracegrpc.Option{otlptracegrpc.WithEndpointURL(endpoint)}
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	return opts
}
