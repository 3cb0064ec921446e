package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelTrace "go.opentelemetry.io/otel/trace"

	"github.com/motsu-go/motsu/vm/address"
	"github.com/motsu-go/motsu/vm/types"
)

const SpanNamePrefix = "motsu.call."

// SpanTracer starts one span per call frame. Spans of nested frames are
// children of the span of the calling frame.
type SpanTracer struct {
	tracer otelTrace.Tracer
	root   context.Context

	spans []otelTrace.Span
	ctxs  []context.Context
}

var _ Tracer = (*SpanTracer)(nil)

func NewSpanTracer(ctx context.Context, tracer otelTrace.Tracer) *SpanTracer {
	return &SpanTracer{
		tracer: tracer,
		root:   ctx,
	}
}

func (t *SpanTracer) parent() context.Context {
	if len(t.ctxs) == 0 {
		return t.root
	}
	return t.ctxs[len(t.ctxs)-1]
}

func (t *SpanTracer) OnEnter(frame types.CallFrame) {
	ctx, span := t.tracer.Start(
		t.parent(),
		SpanNamePrefix+frame.Method,
		otelTrace.WithAttributes(
			attribute.String("caller", address.NameOf(frame.Caller)),
			attribute.String("callee", address.NameOf(frame.Callee)),
			attribute.String("value", frame.Value.ToBig().String()),
			attribute.Int("depth", int(frame.Depth)),
		))
	t.spans = append(t.spans, span)
	t.ctxs = append(t.ctxs, ctx)
}

func (t *SpanTracer) OnExit(_ types.CallFrame, err error) {
	if len(t.spans) == 0 {
		return
	}
	span := t.spans[len(t.spans)-1]
	t.spans = t.spans[:len(t.spans)-1]
	t.ctxs = t.ctxs[:len(t.ctxs)-1]

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reverted")
	}
	span.End()
}
