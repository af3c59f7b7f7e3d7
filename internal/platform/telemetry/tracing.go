package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-rotator/internal/domain"
)

// Span names recorded by RotatorTracer.
const (
	SpanFetchQuotes = "quote_rotator.fetch_quotes"
	SpanRotate      = "quote_rotator.rotate"
)

const (
	attrDisplay     = attribute.Key("quote_rotator.display")
	attrQuoteCount  = attribute.Key("quote_rotator.quotes")
	attrQuoteID     = attribute.Key("quote_rotator.quote.id")
	attrQuoteAuthor = attribute.Key("quote_rotator.quote.author")
)

// RotatorTracer records the quote fetch and every rotation as spans.
type RotatorTracer struct {
	tracer trace.Tracer
}

// NewRotatorTracer traces on tp, or on the global provider when tp is nil.
func NewRotatorTracer(tp trace.TracerProvider) *RotatorTracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &RotatorTracer{tracer: tp.Tracer(instrumentationName)}
}

// TraceFetch starts the fetch span. The returned func ends it with the
// number of quotes loaded or the fetch error.
func (t *RotatorTracer) TraceFetch(ctx context.Context, display string) (context.Context, func(int, error)) {
	ctx, span := t.tracer.Start(ctx, SpanFetchQuotes,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrDisplay.String(display)),
	)

	return ctx, func(n int, err error) {
		span.SetAttributes(attrQuoteCount.Int(n))
		endSpan(span, err)
	}
}

// TraceRotation starts the span of one rotation showing q.
func (t *RotatorTracer) TraceRotation(ctx context.Context, display string, q domain.Quote) (context.Context, func(error)) {
	ctx, span := t.tracer.Start(ctx, SpanRotate,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attrDisplay.String(display),
			attrQuoteID.Int64(q.ID),
			attrQuoteAuthor.String(q.Author),
		),
	)

	return ctx, func(err error) { endSpan(span, err) }
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}
