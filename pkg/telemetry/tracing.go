package telemetry

import (
	"context"

	"github.com/vango-dev/lattice/pkg/layout"
	"github.com/vango-dev/lattice/pkg/reactive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for lattice spans.
const defaultTracerName = "lattice"

// Span names.
const (
	PropagationSpan = "lattice.propagate"
	LayoutSpan      = "lattice.layout"
)

// TracingConfig configures the OpenTelemetry tracer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "lattice").
	TracerName string

	// Provider supplies the tracer. If nil, the global provider is used.
	Provider trace.TracerProvider

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// TracingOption configures the OpenTelemetry tracer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = tp
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Tracer records propagation batches and layout passes as spans. Observers
// are told about work after it finished, so spans are backdated with the
// recorded start time and duration.
type Tracer struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

var (
	_ reactive.Observer = (*Tracer)(nil)
	_ layout.Observer   = (*Tracer)(nil)
)

// NewTracer creates a tracer.
//
// The global OpenTelemetry provider is used unless WithTracerProvider is
// given. Configure it in main() before creating the tracer:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func NewTracer(opts ...TracingOption) *Tracer {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracer{tracer: tracer, attrs: config.Attributes}
}

// ObservePropagation implements reactive.Observer. Batches carry no context,
// so each one becomes a root span.
func (t *Tracer) ObservePropagation(stats reactive.PropagationStats) {
	attrs := append([]attribute.KeyValue{
		attribute.Int64("lattice.root", int64(stats.Root)),
		attribute.Int("lattice.nodes", stats.Nodes),
		attribute.Int("lattice.recomputed", stats.Recomputed),
		attribute.Int("lattice.notified", stats.Notified),
	}, t.attrs...)
	if stats.Label != "" {
		attrs = append(attrs, attribute.String("lattice.label", stats.Label))
	}

	_, span := t.tracer.Start(
		context.Background(),
		PropagationSpan,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(stats.Start),
	)
	if stats.Panicked {
		span.SetStatus(codes.Error, "propagation panicked")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(stats.Start.Add(stats.Duration)))
}

// ObservePass implements layout.Observer. The span is a child of any span
// already in ctx.
func (t *Tracer) ObservePass(ctx context.Context, stats layout.PassStats) {
	if ctx == nil {
		ctx = context.Background()
	}
	attrs := append([]attribute.KeyValue{
		attribute.Int("lattice.nodes", stats.Nodes),
		attribute.Int("lattice.measures", stats.Measures),
		attribute.Int("lattice.cache_hits", stats.CacheHits),
		attribute.Int("lattice.fallbacks", stats.Fallbacks),
	}, t.attrs...)

	_, span := t.tracer.Start(
		ctx,
		LayoutSpan,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(stats.Start),
	)
	span.SetStatus(codes.Ok, "")
	span.End(trace.WithTimestamp(stats.Start.Add(stats.Duration)))
}
