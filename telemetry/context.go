package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/trace"
	"goa.design/clue/log"
)

// MergeContext injects logging, tracing, and baggage metadata carried by
// base into ctx. The connection driver task runs its own background
// context; this lets it adopt the caller's observability state (logger,
// span, baggage) for the duration of a single dispatched message without
// tying the driver task's lifetime to the caller's context. When base is
// nil, ctx is returned unchanged.
func MergeContext(ctx, base context.Context) context.Context {
	if base == nil {
		return ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = log.WithContext(ctx, base)
	if bag := baggage.FromContext(base); bag.Len() > 0 {
		ctx = baggage.ContextWithBaggage(ctx, bag)
	}
	if spanCtx := trace.SpanContextFromContext(base); spanCtx.IsValid() {
		ctx = trace.ContextWithSpanContext(ctx, spanCtx)
	}
	return ctx
}
