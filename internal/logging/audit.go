package logging

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInputDecoded     EventType = "input_decoded"
	EventKeyLengthsRanked EventType = "key_lengths_ranked"
	EventColumnRecovered  EventType = "column_recovered"
	EventColumnUnresolved EventType = "column_unresolved"
	EventKeyRecovered     EventType = "key_recovered"
	EventLineDetected     EventType = "line_detected"
	EventRunFailed        EventType = "run_failed"
)

type Outcome string

const (
	OutcomeInfo     Outcome = "info"
	OutcomeComplete Outcome = "complete"
	OutcomePartial  Outcome = "partial"
	OutcomeFailed   Outcome = "failed"
)

const redactedValue = "[REDACTED]"

// sensitiveKeys are metadata fields that carry recovered key material.
var sensitiveKeys = map[string]struct{}{
	"key":       {},
	"key_hex":   {},
	"key_byte":  {},
	"plaintext": {},
}

// AuditEvent is one JSON line of the audit trail.
type AuditEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	RunID     string         `json:"run_id"`
	Component string         `json:"component"`
	EventType EventType      `json:"event_type"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Outcome   Outcome        `json:"outcome,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

type Option func(*config) error

type config struct {
	writers          []io.Writer
	closers          []io.Closer
	useDefaultWriter bool
	redact           bool
}

func defaultConfig() *config {
	return &config{writers: []io.Writer{os.Stdout}, useDefaultWriter: true}
}

func WithWriter(w io.Writer) Option {
	return func(cfg *config) error {
		if w == nil {
			return errors.New("writer cannot be nil")
		}
		cfg.writers = append(cfg.writers, w)
		return nil
	}
}

func WithFile(path string) Option {
	return func(cfg *config) error {
		if strings.TrimSpace(path) == "" {
			return errors.New("file path cannot be empty")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		cfg.writers = append(cfg.writers, f)
		cfg.closers = append(cfg.closers, f)
		return nil
	}
}

func WithoutStdout() Option {
	return func(cfg *config) error {
		cfg.useDefaultWriter = false
		filtered := cfg.writers[:0]
		for _, w := range cfg.writers {
			if w == os.Stdout {
				continue
			}
			filtered = append(filtered, w)
		}
		cfg.writers = filtered
		return nil
	}
}

// WithRedactedSecrets masks recovered keys and plaintext in event metadata.
func WithRedactedSecrets() Option {
	return func(cfg *config) error {
		cfg.redact = true
		return nil
	}
}

type auditCore struct {
	mu      sync.Mutex
	encoder *json.Encoder
	closers []io.Closer
	redact  bool
	runID   string
}

// AuditLogger writes a JSON-lines record of one analysis run. Loggers
// derived with WithComponent share the run ID and output.
type AuditLogger struct {
	component   string
	core        *auditCore
	ownsClosers bool
}

func NewAuditLogger(component string, opts ...Option) (*AuditLogger, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			for _, closer := range cfg.closers {
				_ = closer.Close()
			}
			return nil, err
		}
	}
	if !cfg.useDefaultWriter && len(cfg.writers) == 0 {
		return nil, errors.New("no writers configured for audit logger")
	}
	writer := io.MultiWriter(cfg.writers...)
	enc := json.NewEncoder(writer)
	enc.SetEscapeHTML(false)
	return &AuditLogger{
		component: component,
		core: &auditCore{
			encoder: enc,
			closers: cfg.closers,
			redact:  cfg.redact,
			runID:   uuid.NewString(),
		},
		ownsClosers: true,
	}, nil
}

// RunID identifies every event written by this logger.
func (l *AuditLogger) RunID() string {
	if l == nil || l.core == nil {
		return ""
	}
	return l.core.runID
}

func (l *AuditLogger) Close() error {
	if l == nil || !l.ownsClosers || l.core == nil {
		return nil
	}
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	var firstErr error
	for _, closer := range l.core.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.core.closers = nil
	return firstErr
}

func (l *AuditLogger) Emit(event AuditEvent) error {
	if l == nil {
		return errors.New("nil audit logger")
	}
	if l.core == nil {
		return errors.New("nil audit logger core")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	} else {
		event.Timestamp = event.Timestamp.UTC()
	}
	if event.Component == "" {
		event.Component = l.component
	}
	event.RunID = l.core.runID
	if l.core.redact && len(event.Metadata) > 0 {
		event.Metadata = redactMetadata(event.Metadata)
	}
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	return l.core.encoder.Encode(event)
}

func (l *AuditLogger) WithComponent(component string) *AuditLogger {
	if l == nil || l.core == nil {
		return nil
	}
	return &AuditLogger{
		component:   component,
		core:        l.core,
		ownsClosers: false,
	}
}

func redactMetadata(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
			out[k] = redactedValue
			continue
		}
		out[k] = v
	}
	return out
}
