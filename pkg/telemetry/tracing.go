package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/recon/pkg/reconcile"
)

// Default tracer name for reconciler spans.
const defaultTracerName = "recon"

// TraceConfig configures the tracing observer.
type TraceConfig struct {
	// TracerName is the name of the tracer (default: "recon").
	TracerName string

	// Tracer overrides the tracer resolved from the global provider.
	Tracer trace.Tracer

	// Context is the parent context for every span (default: Background).
	Context context.Context

	// Filter determines which operations to trace.
	// If nil, all operations are traced.
	Filter func(op reconcile.Operation) bool
}

// TraceOption configures the tracing observer.
type TraceOption func(*TraceConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TraceOption {
	return func(c *TraceConfig) {
		c.TracerName = name
	}
}

// WithTracer sets the tracer directly.
func WithTracer(tracer trace.Tracer) TraceOption {
	return func(c *TraceConfig) {
		c.Tracer = tracer
	}
}

// WithContext sets the parent context for spans.
func WithContext(ctx context.Context) TraceOption {
	return func(c *TraceConfig) {
		c.Context = ctx
	}
}

// WithFilter sets a filter for traced operations.
func WithFilter(filter func(op reconcile.Operation) bool) TraceOption {
	return func(c *TraceConfig) {
		c.Filter = filter
	}
}

// Tracer starts a span around every reconciler operation. It implements
// reconcile.Observer.
type Tracer struct {
	config TraceConfig
}

var _ reconcile.Observer = (*Tracer)(nil)

// NewTracer creates a tracing observer.
func NewTracer(opts ...TraceOption) *Tracer {
	config := TraceConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Tracer == nil {
		config.Tracer = otel.Tracer(config.TracerName)
	}
	if config.Context == nil {
		config.Context = context.Background()
	}
	return &Tracer{config: config}
}

// Begin implements reconcile.Observer.
func (t *Tracer) Begin(op reconcile.Operation, target string) func(error) {
	if t.config.Filter != nil && !t.config.Filter(op) {
		return func(error) {}
	}
	_, span := t.config.Tracer.Start(
		t.config.Context,
		fmt.Sprintf("recon.%s", op),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("recon.operation", string(op)),
			attribute.String("recon.target", target),
		),
		trace.WithTimestamp(time.Now()),
	)
	return func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("recon.error_code", errorCode(err)))
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}
