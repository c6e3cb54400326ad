package live

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies this package's spans. The tracer resolves from
// the global provider, so hosts configure exporting in main().
const tracerName = "reflow.live"

// frameTracer traces inbound patch frames.
type frameTracer struct {
	tracer trace.Tracer
}

func newFrameTracer() *frameTracer {
	return &frameTracer{tracer: otel.Tracer(tracerName)}
}

// traceApply wraps one patch application in a span, recording the
// session, payload size, and outcome.
func (t *frameTracer) traceApply(ctx context.Context, sessionID uint64, frameBytes int, fn func() error) error {
	_, span := t.tracer.Start(ctx, "live.patch",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.Int64("live.session_id", int64(sessionID)),
			attribute.Int("live.frame_bytes", frameBytes),
		),
	)
	defer span.End()

	err := fn()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return err
}
