package tracing

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span represents an in-flight trace span.
type Span interface {
	End()
	EndWithStatus(status SpanStatus, description string)
	SetAttribute(key string, value any)
	AddEvent(name string, attributes map[string]any)
	RecordError(err error)
	TraceID() string
}

// SpanStatus represents the outcome of a span.
type SpanStatus string

const (
	StatusUnset SpanStatus = "unset"
	StatusOK    SpanStatus = "ok"
	StatusError SpanStatus = "error"
)

// StartSpan begins a new span derived from ctx. When tracing is disabled a
// noop span is returned and ctx is passed through untouched.
func StartSpan(ctx context.Context, name string, attrs map[string]any) (context.Context, Span) {
	tracer := CurrentTracer()
	if tracer == nil || tracer.tracer == nil {
		return ctx, noopSpan{}
	}
	var opts []trace.SpanStartOption
	if len(attrs) > 0 {
		opts = append(opts, trace.WithAttributes(mapToAttributes(attrs)...))
	}
	ctx, span := tracer.tracer.Start(ctx, name, opts...)
	return ctx, &otelSpanWrapper{span: span}
}

type otelSpanWrapper struct {
	span trace.Span
}

func (s *otelSpanWrapper) End() {
	if s == nil || s.span == nil {
		return
	}
	s.span.End()
}

func (s *otelSpanWrapper) EndWithStatus(status SpanStatus, description string) {
	if s == nil || s.span == nil {
		return
	}
	switch status {
	case StatusError:
		s.span.SetStatus(codes.Error, description)
	case StatusOK:
		s.span.SetStatus(codes.Ok, description)
	}
	s.span.End()
}

func (s *otelSpanWrapper) SetAttribute(key string, value any) {
	if s == nil || s.span == nil {
		return
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	s.span.SetAttributes(attribute.KeyValue{Key: attribute.Key(key), Value: attributeValue(value)})
}

func (s *otelSpanWrapper) AddEvent(name string, attributes map[string]any) {
	if s == nil || s.span == nil {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if len(attributes) == 0 {
		s.span.AddEvent(name)
		return
	}
	s.span.AddEvent(name, trace.WithAttributes(mapToAttributes(attributes)...))
}

func (s *otelSpanWrapper) RecordError(err error) {
	if s == nil || s.span == nil || err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *otelSpanWrapper) TraceID() string {
	if s == nil || s.span == nil {
		return ""
	}
	sc := s.span.SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

type noopSpan struct{}

func (noopSpan) End()                             {}
func (noopSpan) EndWithStatus(SpanStatus, string) {}
func (noopSpan) SetAttribute(string, any)         {}
func (noopSpan) AddEvent(string, map[string]any)  {}
func (noopSpan) RecordError(error)                {}
func (noopSpan) TraceID() string                  { return "" }

func mapToAttributes(attrs map[string]any) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		if strings.TrimSpace(k) == "" {
			continue
		}
		out = append(out, attribute.KeyValue{Key: attribute.Key(k), Value: attributeValue(v)})
	}
	return out
}

func attributeValue(value any) attribute.Value {
	switch v := value.(type) {
	case string:
		return attribute.StringValue(v)
	case bool:
		return attribute.BoolValue(v)
	case int:
		return attribute.IntValue(v)
	case int64:
		return attribute.Int64Value(v)
	case float64:
		return attribute.Float64Value(v)
	case []string:
		return attribute.StringSliceValue(v)
	case []int:
		return attribute.IntSliceValue(v)
	case fmt.Stringer:
		return attribute.StringValue(v.String())
	default:
		return attribute.StringValue(fmt.Sprint(v))
	}
}

func attributeValueFromKeyValue(kv attribute.KeyValue) any {
	switch kv.Value.Type() {
	case attribute.BOOL:
		return kv.Value.AsBool()
	case attribute.INT64:
		return kv.Value.AsInt64()
	case attribute.FLOAT64:
		return kv.Value.AsFloat64()
	case attribute.STRING:
		return kv.Value.AsString()
	case attribute.BOOLSLICE:
		return kv.Value.AsBoolSlice()
	case attribute.INT64SLICE:
		return kv.Value.AsInt64Slice()
	case attribute.FLOAT64SLICE:
		return kv.Value.AsFloat64Slice()
	case attribute.STRINGSLICE:
		return kv.Value.AsStringSlice()
	default:
		return kv.Value.Emit()
	}
}
