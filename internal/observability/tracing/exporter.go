package tracing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanSnapshot captures the immutable span data written by the file exporter.
type SpanSnapshot struct {
	TraceID      string         `json:"trace_id"`
	SpanID       string         `json:"span_id"`
	ParentSpanID string         `json:"parent_span_id,omitempty"`
	Name         string         `json:"name"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	Events       []spanEvent    `json:"events,omitempty"`
	Status       SpanStatus     `json:"status"`
	StatusMsg    string         `json:"status_message,omitempty"`
	StartTime    time.Time      `json:"start_time"`
	EndTime      time.Time      `json:"end_time"`
	DurationMS   float64        `json:"duration_ms"`
	ServiceName  string         `json:"service_name,omitempty"`
}

type spanEvent struct {
	Name       string         `json:"name"`
	Time       time.Time      `json:"time"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// fileExporter appends one JSON document per span to a file.
type fileExporter struct {
	mu          sync.Mutex
	file        *os.File
	encoder     *json.Encoder
	serviceName string
}

var _ sdktrace.SpanExporter = (*fileExporter)(nil)

func newFileExporter(path, serviceName string) (*fileExporter, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create trace directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	return &fileExporter{file: f, encoder: enc, serviceName: serviceName}, nil
}

func (e *fileExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return nil
	}
	for _, span := range spans {
		if err := ctx.Err(); err != nil {
			return err
		}
		snap := snapshotFromReadOnly(span, e.serviceName)
		if snap == nil {
			continue
		}
		if err := e.encoder.Encode(snap); err != nil {
			return fmt.Errorf("write span: %w", err)
		}
	}
	return nil
}

func (e *fileExporter) Shutdown(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}

func snapshotFromReadOnly(span sdktrace.ReadOnlySpan, serviceName string) *SpanSnapshot {
	if span == nil {
		return nil
	}
	sc := span.SpanContext()
	if !sc.IsValid() {
		return nil
	}

	attrs := make(map[string]any)
	for _, attr := range span.Attributes() {
		attrs[string(attr.Key)] = attributeValueFromKeyValue(attr)
	}

	events := make([]spanEvent, 0, len(span.Events()))
	for _, event := range span.Events() {
		eventAttrs := make(map[string]any)
		for _, attr := range event.Attributes {
			eventAttrs[string(attr.Key)] = attributeValueFromKeyValue(attr)
		}
		events = append(events, spanEvent{Name: event.Name, Time: event.Time, Attributes: eventAttrs})
	}

	status := StatusUnset
	switch span.Status().Code {
	case codes.Ok:
		status = StatusOK
	case codes.Error:
		status = StatusError
	}

	snap := &SpanSnapshot{
		TraceID:     sc.TraceID().String(),
		SpanID:      sc.SpanID().String(),
		Name:        span.Name(),
		Attributes:  attrs,
		Events:      events,
		Status:      status,
		StatusMsg:   span.Status().Description,
		StartTime:   span.StartTime().UTC(),
		EndTime:     span.EndTime().UTC(),
		DurationMS:  float64(span.EndTime().Sub(span.StartTime())) / float64(time.Millisecond),
		ServiceName: serviceName,
	}
	if parent := span.Parent(); parent.IsValid() {
		snap.ParentSpanID = parent.SpanID().String()
	}
	return snap
}
