package cipher

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestPipelineExecute(t *testing.T) {
	pipeline := &Pipeline{
		Operations: []OperationConfig{
			{Name: "repeating_xor", Parameters: map[string]interface{}{"key": "ICE"}},
			{Name: "hex_encode"},
		},
		Reversible: true,
	}

	out, err := pipeline.Execute(context.Background(), []byte("Burning"))
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if string(out) != "0b3637272a2b2e" {
		t.Errorf("unexpected output %s", out)
	}
}

func TestPipelineReverse(t *testing.T) {
	ctx := context.Background()
	original := []byte("Cooking MC's like a pound of bacon")

	pipeline := &Pipeline{
		Operations: []OperationConfig{
			{Name: "single_xor", Parameters: map[string]interface{}{"key": 88}},
			{Name: "base64_encode"},
			{Name: "hex_encode"},
		},
		Reversible: true,
	}

	encoded, err := pipeline.Execute(ctx, original)
	if err != nil {
		t.Fatalf("forward pipeline failed: %v", err)
	}

	reversed, err := pipeline.Reverse()
	if err != nil {
		t.Fatalf("reverse failed: %v", err)
	}

	wantOrder := []string{"hex_decode", "base64_decode", "single_xor"}
	for i, op := range reversed.Operations {
		if op.Name != wantOrder[i] {
			t.Errorf("step %d: expected %s, got %s", i, wantOrder[i], op.Name)
		}
	}

	decoded, err := reversed.Execute(ctx, encoded)
	if err != nil {
		t.Fatalf("reverse pipeline failed: %v", err)
	}
	if string(decoded) != string(original) {
		t.Errorf("round trip mismatch: %q", decoded)
	}
}

func TestPipelineNotReversible(t *testing.T) {
	if _, err := (&Pipeline{}).Reverse(); err == nil {
		t.Fatal("expected error for non-reversible pipeline")
	}

	reg := NewRegistry()
	oneWay := &mockOperation{BaseOperation: BaseOperation{NameValue: "one_way", TypeValue: OperationTypeEncode}}
	if err := reg.Register(oneWay); err != nil {
		t.Fatalf("register: %v", err)
	}
	p := &Pipeline{Operations: []OperationConfig{{Name: "one_way"}}, Reversible: true, Registry: reg}
	if _, err := p.Reverse(); err == nil {
		t.Fatal("expected error for operation without inverse")
	}
}

func TestPipelineErrors(t *testing.T) {
	ctx := context.Background()

	unknown := ParsePipeline([]string{"hex_decode", "rot13"}, nil)
	_, err := unknown.Execute(ctx, []byte("4943"))
	if err == nil || !strings.Contains(err.Error(), "rot13") {
		t.Fatalf("expected unknown operation error, got %v", err)
	}

	failing := ParsePipeline([]string{"hex_decode"}, nil)
	_, err = failing.Execute(ctx, []byte("xyz"))
	if err == nil || !strings.Contains(err.Error(), "step 0") {
		t.Fatalf("expected step error, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ParsePipeline([]string{"hex_encode"}, nil).Execute(cancelled, []byte("a"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParsePipeline(t *testing.T) {
	params := map[string]interface{}{"key": "ICE"}
	p := ParsePipeline([]string{"repeating_xor", "", "hex_encode"}, params)
	if len(p.Operations) != 2 {
		t.Fatalf("expected empty names to be skipped, got %+v", p.Operations)
	}
	if !p.Reversible {
		t.Error("parsed pipelines should be reversible")
	}
	if p.Operations[0].Parameters["key"] != "ICE" {
		t.Errorf("expected parameters to be attached")
	}
}
