package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"goa.design/clue/log"
)

// ClueLogger delegates to goa.design/clue/log for runtime logging.
type ClueLogger struct{}

// ClueMetrics wraps OTEL metrics for runtime instrumentation.
type ClueMetrics struct {
	meter metric.Meter
}

// ClueTracer wraps OTEL tracing for runtime tracing.
type ClueTracer struct {
	tracer trace.Tracer
}

type clueSpan struct {
	span trace.Span
}

// NewClueLogger constructs a Logger that delegates to goa.design/clue/log.
// Formatting and debug level are read from the context (set via
// log.Context / log.WithFormat / log.WithDebug by the caller).
func NewClueLogger() Logger {
	return ClueLogger{}
}

// NewClueMetrics constructs a Metrics recorder backed by the global OTEL
// MeterProvider.
func NewClueMetrics() Metrics {
	return &ClueMetrics{meter: otel.Meter("github.com/oakline-labs/playwright-go")}
}

// NewClueTracer constructs a Tracer backed by the global OTEL TracerProvider.
func NewClueTracer() Tracer {
	return &ClueTracer{tracer: otel.Tracer("github.com/oakline-labs/playwright-go")}
}

func (ClueLogger) Debug(ctx context.Context, msg string, keyvals ...any) {
	log.Debug(ctx, append([]log.Fielder{log.KV{K: "msg", V: msg}}, kvToFielders(keyvals)...)...)
}

func (ClueLogger) Info(ctx context.Context, msg string, keyvals ...any) {
	log.Info(ctx, append([]log.Fielder{log.KV{K: "msg", V: msg}}, kvToFielders(keyvals)...)...)
}

func (ClueLogger) Warn(ctx context.Context, msg string, keyvals ...any) {
	fielders := []log.Fielder{log.KV{K: "msg", V: msg}, log.KV{K: "severity", V: "warning"}}
	log.Warn(ctx, append(fielders, kvToFielders(keyvals)...)...)
}

func (ClueLogger) Error(ctx context.Context, msg string, keyvals ...any) {
	log.Error(ctx, nil, append([]log.Fielder{log.KV{K: "msg", V: msg}}, kvToFielders(keyvals)...)...)
}

// IncCounter increments a counter metric by value.
func (m *ClueMetrics) IncCounter(name string, value float64, tags ...string) {
	counter, err := m.meter.Float64Counter(name)
	if err != nil {
		return
	}
	counter.Add(context.Background(), value, metric.WithAttributes(tagsToAttrs(tags)...))
}

// RecordTimer records a duration histogram.
func (m *ClueMetrics) RecordTimer(name string, duration time.Duration, tags ...string) {
	histogram, err := m.meter.Float64Histogram(name)
	if err != nil {
		return
	}
	histogram.Record(context.Background(), duration.Seconds(), metric.WithAttributes(tagsToAttrs(tags)...))
}

// RecordGauge records a gauge-like value. OTEL has no synchronous gauge
// instrument, so this falls back to a histogram with a "_gauge" suffix.
func (m *ClueMetrics) RecordGauge(name string, value float64, tags ...string) {
	histogram, err := m.meter.Float64Histogram(name + "_gauge")
	if err != nil {
		return
	}
	histogram.Record(context.Background(), value, metric.WithAttributes(tagsToAttrs(tags)...))
}

// Start creates a new span, returning the derived context and span handle.
func (t *ClueTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span) {
	newCtx, span := t.tracer.Start(ctx, name, opts...)
	return newCtx, &clueSpan{span: span}
}

// Span retrieves the current span from the context.
func (t *ClueTracer) Span(ctx context.Context) Span {
	return &clueSpan{span: trace.SpanFromContext(ctx)}
}

func (s *clueSpan) End(opts ...trace.SpanEndOption) { s.span.End(opts...) }

func (s *clueSpan) AddEvent(name string, attrs ...any) {
	s.span.AddEvent(name, trace.WithAttributes(kvToAttrs(attrs)...))
}

func (s *clueSpan) SetStatus(code codes.Code, description string) {
	s.span.SetStatus(code, description)
}

func (s *clueSpan) RecordError(err error, opts ...trace.EventOption) {
	s.span.RecordError(err, opts...)
}

// kvToFielders converts alternating key/value pairs into Clue fielders.
// A trailing unpaired key is dropped; non-string keys are skipped.
func kvToFielders(keyvals []any) []log.Fielder {
	var out []log.Fielder
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		out = append(out, log.KV{K: key, V: keyvals[i+1]})
	}
	return out
}

// tagsToAttrs converts alternating tag key/value strings into OTEL
// attributes for metrics dimensions.
func tagsToAttrs(tags []string) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for i := 0; i < len(tags); i += 2 {
		v := ""
		if i+1 < len(tags) {
			v = tags[i+1]
		}
		attrs = append(attrs, attribute.String(tags[i], v))
	}
	return attrs
}

// kvToAttrs converts alternating key/value pairs into OTEL attributes for
// span events.
func kvToAttrs(keyvals []any) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		switch v := keyvals[i+1].(type) {
		case string:
			attrs = append(attrs, attribute.String(key, v))
		case int:
			attrs = append(attrs, attribute.Int(key, v))
		case int64:
			attrs = append(attrs, attribute.Int64(key, v))
		case float64:
			attrs = append(attrs, attribute.Float64(key, v))
		case bool:
			attrs = append(attrs, attribute.Bool(key, v))
		default:
			attrs = append(attrs, attribute.String(key, ""))
		}
	}
	return attrs
}
