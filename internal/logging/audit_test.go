package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestAuditLoggerEmit(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("test", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}

	event := AuditEvent{EventType: EventKeyRecovered, Outcome: OutcomeComplete}
	if err := logger.Emit(event); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	var decoded AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}

	if decoded.Component != "test" {
		t.Fatalf("expected component 'test', got %q", decoded.Component)
	}
	if decoded.EventType != EventKeyRecovered {
		t.Fatalf("expected event type %q, got %q", EventKeyRecovered, decoded.EventType)
	}
	if decoded.Outcome != OutcomeComplete {
		t.Fatalf("expected outcome %q, got %q", OutcomeComplete, decoded.Outcome)
	}
	if decoded.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
	if _, err := uuid.Parse(decoded.RunID); err != nil {
		t.Fatalf("expected uuid run id, got %q", decoded.RunID)
	}
}

func TestAuditLoggerSharedRun(t *testing.T) {
	buf := &bytes.Buffer{}
	root, err := NewAuditLogger("cli", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}
	runID := root.RunID()
	child := root.WithComponent("xorcrack")
	if child.RunID() != runID {
		t.Fatalf("expected child to share run id %q, got %q", runID, child.RunID())
	}

	_ = root.Emit(AuditEvent{EventType: EventInputDecoded})
	_ = child.Emit(AuditEvent{EventType: EventColumnUnresolved, Outcome: OutcomePartial})

	scanner := bufio.NewScanner(buf)
	var events []AuditEvent
	for scanner.Scan() {
		var ev AuditEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		events = append(events, ev)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].RunID != runID || events[1].RunID != runID {
		t.Fatalf("expected shared run id, got %q and %q", events[0].RunID, events[1].RunID)
	}
	if events[1].Component != "xorcrack" {
		t.Fatalf("expected child component, got %q", events[1].Component)
	}
	if err := child.Close(); err != nil {
		t.Fatalf("child close: %v", err)
	}
}

func TestAuditLoggerRedaction(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("test", WithoutStdout(), WithWriter(buf), WithRedactedSecrets())
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}

	meta := map[string]any{"key": "ICE", "key_length": 3, "plaintext": "secret"}
	if err := logger.Emit(AuditEvent{EventType: EventKeyRecovered, Metadata: meta}); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	var decoded AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if decoded.Metadata["key"] != redactedValue || decoded.Metadata["plaintext"] != redactedValue {
		t.Fatalf("expected key material to be redacted, got %v", decoded.Metadata)
	}
	if decoded.Metadata["key_length"] != float64(3) {
		t.Fatalf("expected key_length to survive, got %v", decoded.Metadata["key_length"])
	}
	if meta["key"] != "ICE" {
		t.Fatal("redaction must not modify the caller's map")
	}
}

func TestAuditLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	logger, err := NewAuditLogger("test", WithoutStdout(), WithFile(path))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}
	if err := logger.Emit(AuditEvent{EventType: EventRunFailed, Outcome: OutcomeFailed, Reason: "boom"}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit file: %v", err)
	}
	if !bytes.Contains(data, []byte(`"reason":"boom"`)) {
		t.Fatalf("unexpected audit file contents: %s", data)
	}
}

func TestAuditLoggerOptionErrors(t *testing.T) {
	if _, err := NewAuditLogger("test", WithoutStdout()); err == nil {
		t.Fatal("expected error without writers")
	}
	if _, err := NewAuditLogger("test", WithWriter(nil)); err == nil {
		t.Fatal("expected error for nil writer")
	}
	if _, err := NewAuditLogger("test", WithFile("  ")); err == nil {
		t.Fatal("expected error for empty path")
	}
}
