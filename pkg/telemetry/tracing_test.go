package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/recon/pkg/reconcile"
)

type recordingTracer struct {
	noop.Tracer
	spans []*recordingSpan
}

func (r *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordingSpan{name: name, attrs: cfg.Attributes()}
	r.spans = append(r.spans, s)
	return ctx, s
}

type recordingSpan struct {
	noop.Span
	name   string
	attrs  []attribute.KeyValue
	status codes.Code
	errs   []error
	ended  bool
}

func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) { s.errs = append(s.errs, err) }
func (s *recordingSpan) SetStatus(c codes.Code, _ string)              { s.status = c }
func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue)        { s.attrs = append(s.attrs, kv...) }
func (s *recordingSpan) End(...trace.SpanEndOption)                    { s.ended = true }

func (s *recordingSpan) attr(key string) string {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value.AsString()
		}
	}
	return ""
}

func TestTracerSpans(t *testing.T) {
	rt := &recordingTracer{}
	tr := NewTracer(WithTracer(rt))

	tr.Begin(reconcile.OpRender, "div")(nil)
	tr.Begin(reconcile.OpPatch, "ul")(reconcile.ErrDetached)

	if len(rt.spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(rt.spans))
	}
	ok, failed := rt.spans[0], rt.spans[1]
	if ok.name != "recon.render" || ok.attr("recon.target") != "div" || ok.status != codes.Ok || !ok.ended {
		t.Errorf("render span = %+v", ok)
	}
	if failed.status != codes.Error || len(failed.errs) != 1 || !failed.ended {
		t.Errorf("patch span = %+v", failed)
	}
	if got := failed.attr("recon.error_code"); got != "R005" {
		t.Errorf("error code = %q", got)
	}
}

func TestTracerFilter(t *testing.T) {
	rt := &recordingTracer{}
	tr := NewTracer(WithTracer(rt), WithFilter(func(op reconcile.Operation) bool {
		return op != reconcile.OpSetState
	}))

	tr.Begin(reconcile.OpSetState, "Counter")(errors.New("ignored"))
	tr.Begin(reconcile.OpUnmount, "root")(nil)

	if len(rt.spans) != 1 || rt.spans[0].name != "recon.unmount" {
		t.Errorf("spans = %v", rt.spans)
	}
}

func TestTracerDefaultsToGlobalProvider(t *testing.T) {
	tr := NewTracer()
	if tr.config.Tracer == nil || tr.config.Context == nil {
		t.Fatal("defaults not resolved")
	}
	tr.Begin(reconcile.OpRender, "p")(nil)
}
