package cipher

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/RowanDark/xorscope/internal/xorcrack"
)

// Base64 Operations

// Base64EncodeOp encodes data as standard Base64
type Base64EncodeOp struct {
	BaseOperation
}

func (op *Base64EncodeOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	encoded := base64.StdEncoding.EncodeToString(input)
	return []byte(encoded), nil
}

// Base64DecodeOp decodes standard Base64 data. Line breaks and other
// whitespace are ignored so wrapped files decode as-is.
type Base64DecodeOp struct {
	BaseOperation
}

func (op *Base64DecodeOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	cleaned := stripWhitespace(string(input))
	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		// Try without padding
		decoded, err = base64.RawStdEncoding.DecodeString(cleaned)
		if err != nil {
			return nil, fmt.Errorf("base64 decode failed: %w", err)
		}
	}
	return decoded, nil
}

// Hex Operations

// HexEncodeOp encodes bytes as a lower-case hexadecimal string
type HexEncodeOp struct {
	BaseOperation
}

func (op *HexEncodeOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	encoded := hex.EncodeToString(input)
	return []byte(encoded), nil
}

// HexDecodeOp decodes a hexadecimal string to bytes
type HexDecodeOp struct {
	BaseOperation
}

func (op *HexDecodeOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	decoded, err := hex.DecodeString(cleanHex(string(input)))
	if err != nil {
		return nil, fmt.Errorf("hex decode failed: %w", err)
	}
	return decoded, nil
}

// cleanHex removes common prefixes and separators.
func cleanHex(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.ReplaceAll(s, "\\x", "")
	s = strings.ReplaceAll(s, ":", "")
	return stripWhitespace(s)
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// XOR Operations

// RepeatingXorOp XORs the input with a key repeated over its length.
// Parameters: "key" (text) or "key_hex" (hex encoded bytes).
type RepeatingXorOp struct {
	BaseOperation
}

func (op *RepeatingXorOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	key, err := KeyParam(params)
	if err != nil {
		return nil, err
	}
	return xorcrack.RepeatingXorApply(input, key), nil
}

// SingleXorOp XORs every input byte with one key byte.
// Parameter: "key" as a number (0-255) or numeric string such as "0x58".
type SingleXorOp struct {
	BaseOperation
}

func (op *SingleXorOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	k, err := byteParam(params, "key")
	if err != nil {
		return nil, err
	}
	return xorcrack.RepeatingXorApply(input, []byte{k}), nil
}

// FixedXorOp XORs the input with an equal-length buffer.
// Parameter: "with" (hex encoded bytes).
type FixedXorOp struct {
	BaseOperation
}

func (op *FixedXorOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	raw, ok := params["with"].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("with parameter required for fixed XOR")
	}
	other, err := hex.DecodeString(cleanHex(raw))
	if err != nil {
		return nil, fmt.Errorf("with parameter: hex decode failed: %w", err)
	}
	if len(other) != len(input) {
		return nil, fmt.Errorf("fixed XOR needs equal lengths, got %d and %d", len(input), len(other))
	}
	out := make([]byte, len(input))
	for i := range input {
		out[i] = input[i] ^ other[i]
	}
	return out, nil
}

// KeyParam extracts a repeating XOR key from "key" or "key_hex".
func KeyParam(params map[string]interface{}) ([]byte, error) {
	if raw, ok := params["key_hex"].(string); ok && strings.TrimSpace(raw) != "" {
		key, err := hex.DecodeString(cleanHex(raw))
		if err != nil {
			return nil, fmt.Errorf("key_hex parameter: hex decode failed: %w", err)
		}
		return key, nil
	}
	if raw, ok := params["key"].(string); ok && raw != "" {
		return []byte(raw), nil
	}
	return nil, fmt.Errorf("key or key_hex parameter required for repeating XOR")
}

func byteParam(params map[string]interface{}, name string) (byte, error) {
	switch v := params[name].(type) {
	case int:
		if v < 0 || v > 255 {
			return 0, fmt.Errorf("%s parameter out of range: %d", name, v)
		}
		return byte(v), nil
	case float64:
		if v < 0 || v > 255 || v != float64(int(v)) {
			return 0, fmt.Errorf("%s parameter must be a whole number in 0-255: %v", name, v)
		}
		return byte(v), nil
	case string:
		n, err := strconv.ParseUint(strings.TrimSpace(v), 0, 8)
		if err != nil {
			return 0, fmt.Errorf("%s parameter: %w", name, err)
		}
		return byte(n), nil
	case nil:
		return 0, fmt.Errorf("%s parameter required", name)
	default:
		return 0, fmt.Errorf("%s parameter has unsupported type %T", name, v)
	}
}

// init registers the codec and XOR operations
func init() {
	base64Encode := &Base64EncodeOp{
		BaseOperation: BaseOperation{
			NameValue:        "base64_encode",
			TypeValue:        OperationTypeEncode,
			DescriptionValue: "Encode data as standard Base64",
		},
	}
	base64Decode := &Base64DecodeOp{
		BaseOperation: BaseOperation{
			NameValue:        "base64_decode",
			TypeValue:        OperationTypeDecode,
			DescriptionValue: "Decode standard Base64 data",
		},
	}
	base64Encode.ReverseOp = base64Decode
	base64Decode.ReverseOp = base64Encode

	hexEncode := &HexEncodeOp{
		BaseOperation: BaseOperation{
			NameValue:        "hex_encode",
			TypeValue:        OperationTypeEncode,
			DescriptionValue: "Encode bytes as hexadecimal string",
		},
	}
	hexDecode := &HexDecodeOp{
		BaseOperation: BaseOperation{
			NameValue:        "hex_decode",
			TypeValue:        OperationTypeDecode,
			DescriptionValue: "Decode hexadecimal string to bytes",
		},
	}
	hexEncode.ReverseOp = hexDecode
	hexDecode.ReverseOp = hexEncode

	// XOR operations are their own inverse
	repeatingXor := &RepeatingXorOp{
		BaseOperation: BaseOperation{
			NameValue:        "repeating_xor",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "XOR with a repeating key (key or key_hex)",
		},
	}
	repeatingXor.ReverseOp = repeatingXor

	singleXor := &SingleXorOp{
		BaseOperation: BaseOperation{
			NameValue:        "single_xor",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "XOR every byte with a single key byte (key)",
		},
	}
	singleXor.ReverseOp = singleXor

	fixedXor := &FixedXorOp{
		BaseOperation: BaseOperation{
			NameValue:        "fixed_xor",
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "XOR with an equal-length hex buffer (with)",
		},
	}
	fixedXor.ReverseOp = fixedXor

	for _, op := range []Operation{
		base64Encode, base64Decode,
		hexEncode, hexDecode,
		repeatingXor, singleXor, fixedXor,
	} {
		if err := RegisterOperation(op); err != nil {
			panic(err)
		}
	}
}
