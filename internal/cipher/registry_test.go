package cipher

import (
	"context"
	"sync"
	"testing"
)

// mockOperation is a test implementation of Operation
type mockOperation struct {
	BaseOperation
}

func (m *mockOperation) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	return input, nil
}

func newMock(name string, opType OperationType) *mockOperation {
	return &mockOperation{
		BaseOperation: BaseOperation{
			NameValue:        name,
			TypeValue:        opType,
			DescriptionValue: "Mock operation for testing",
		},
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()
	op := newMock("mock", OperationTypeEncode)

	if err := reg.Register(op); err != nil {
		t.Fatalf("failed to register operation: %v", err)
	}
	if err := reg.Register(op); err == nil {
		t.Fatal("expected error when registering duplicate operation")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatal("expected error for nil operation")
	}
	if err := reg.Register(newMock("", OperationTypeEncode)); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register(newMock("mock", OperationTypeEncode))

	op, ok := reg.Get("mock")
	if !ok || op.Name() != "mock" {
		t.Fatalf("expected to find mock, got %v %v", op, ok)
	}
	if _, ok := reg.Get("missing"); ok {
		t.Fatal("did not expect missing operation")
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register(newMock("zeta", OperationTypeEncode))
	_ = reg.Register(newMock("alpha", OperationTypeDecode))
	_ = reg.Register(newMock("mid", OperationTypeEncode))

	all := reg.List()
	if len(all) != 3 || all[0].Name() != "alpha" || all[2].Name() != "zeta" {
		t.Fatalf("expected sorted list, got %v", names(all))
	}

	encoders := reg.ListByType(OperationTypeEncode)
	if len(encoders) != 2 || encoders[0].Name() != "mid" {
		t.Fatalf("unexpected encoders %v", names(encoders))
	}
}

func TestDefaultRegistry(t *testing.T) {
	want := []string{
		"base64_decode", "base64_encode", "fixed_xor",
		"hex_decode", "hex_encode", "repeating_xor", "single_xor",
	}
	got := names(ListOperations())
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	if n := len(ListOperationsByType(OperationTypeEncrypt)); n != 3 {
		t.Errorf("expected 3 encrypt operations, got %d", n)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = reg.Register(newMock(string(rune('a'+i)), OperationTypeEncode))
			reg.List()
		}(i)
	}
	wg.Wait()

	if n := len(reg.List()); n != 20 {
		t.Fatalf("expected 20 operations, got %d", n)
	}
}

func names(ops []Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.Name()
	}
	return out
}
