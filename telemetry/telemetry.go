// Package telemetry defines the narrow logging, tracing, and metrics
// interfaces consumed by the driver client runtime. The core never imports
// a concrete logging or tracing backend directly; it depends on these
// interfaces so tests can substitute lightweight stubs.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Logger captures structured logging used throughout the runtime.
type Logger interface {
	Debug(ctx context.Context, msg string, keyvals ...any)
	Info(ctx context.Context, msg string, keyvals ...any)
	Warn(ctx context.Context, msg string, keyvals ...any)
	Error(ctx context.Context, msg string, keyvals ...any)
}

// Metrics exposes counter and histogram helpers for runtime instrumentation.
type Metrics interface {
	IncCounter(name string, value float64, tags ...string)
	RecordTimer(name string, duration time.Duration, tags ...string)
	RecordGauge(name string, value float64, tags ...string)
}

// Tracer abstracts span creation so runtime code stays agnostic of the
// underlying OpenTelemetry provider.
type Tracer interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span)
	Span(ctx context.Context) Span
}

// Span represents an in-flight tracing span.
type Span interface {
	End(opts ...trace.SpanEndOption)
	AddEvent(name string, attrs ...any)
	SetStatus(code codes.Code, description string)
	RecordError(err error, opts ...trace.EventOption)
}

// Noop is a Logger/Metrics/Tracer/Span implementation that discards
// everything. It is the zero-configuration default and the baseline tests
// build stubs on top of.
type Noop struct{}

func (Noop) Debug(context.Context, string, ...any) {}
func (Noop) Info(context.Context, string, ...any)  {}
func (Noop) Warn(context.Context, string, ...any)  {}
func (Noop) Error(context.Context, string, ...any) {}

func (Noop) IncCounter(string, float64, ...string)        {}
func (Noop) RecordTimer(string, time.Duration, ...string) {}
func (Noop) RecordGauge(string, float64, ...string)       {}

func (Noop) Start(ctx context.Context, _ string, _ ...trace.SpanStartOption) (context.Context, Span) {
	return ctx, Noop{}
}
func (Noop) Span(context.Context) Span { return Noop{} }

func (Noop) End(...trace.SpanEndOption)              {}
func (Noop) AddEvent(string, ...any)                 {}
func (Noop) SetStatus(codes.Code, string)            {}
func (Noop) RecordError(error, ...trace.EventOption) {}
