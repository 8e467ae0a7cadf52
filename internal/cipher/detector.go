package cipher

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	EncodingAuto   = "auto"
	EncodingHex    = "hex"
	EncodingBase64 = "base64"
	EncodingRaw    = "raw"
)

var (
	hexPattern    = regexp.MustCompile(`^[0-9a-fA-F]+$`)
	base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)
)

// InputDetector guesses how a ciphertext file is encoded
type InputDetector struct{}

// NewInputDetector creates a new input detector
func NewInputDetector() *InputDetector {
	return &InputDetector{}
}

// Detect returns every plausible encoding of input, most confident first.
// Raw bytes are always a candidate.
func (d *InputDetector) Detect(ctx context.Context, input []byte) ([]DetectionResult, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	results := []DetectionResult{}
	results = append(results, d.detectHex(input)...)
	results = append(results, d.detectBase64(input)...)
	results = append(results, d.detectRaw(input))

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results, nil
}

// SupportedEncodings returns the encodings this detector can identify
func (d *InputDetector) SupportedEncodings() []string {
	return []string{EncodingHex, EncodingBase64, EncodingRaw}
}

// detectHex checks for hexadecimal text, one or many lines
func (d *InputDetector) detectHex(input []byte) []DetectionResult {
	cleaned := cleanHex(string(input))
	if cleaned == "" || !hexPattern.MatchString(cleaned) || len(cleaned)%2 != 0 {
		return nil
	}

	confidence := 0.95
	// All digits could just as well be decimal text
	if strings.Trim(cleaned, "0123456789") == "" {
		confidence = 0.6
	}
	return []DetectionResult{{
		Encoding:   EncodingHex,
		Confidence: confidence,
		Reasoning:  "Only hexadecimal digits with an even count",
		Operation:  "hex_decode",
	}}
}

// detectBase64 checks for standard Base64, ignoring line breaks
func (d *InputDetector) detectBase64(input []byte) []DetectionResult {
	cleaned := stripWhitespace(string(input))
	if cleaned == "" || !base64Pattern.MatchString(cleaned) {
		return nil
	}

	confidence := 0.0
	reasoning := ""
	if _, err := base64.StdEncoding.DecodeString(cleaned); err == nil {
		confidence = 0.9
		reasoning = "Matches Base64 pattern and decodes successfully"
	} else if _, err := base64.RawStdEncoding.DecodeString(cleaned); err == nil {
		confidence = 0.7
		reasoning = "Matches Base64 pattern without padding"
	} else {
		return nil
	}

	// Hex digits are a subset of the Base64 alphabet
	if hexPattern.MatchString(cleaned) {
		confidence = 0.5
		reasoning += "; every character is also a hex digit"
	}

	return []DetectionResult{{
		Encoding:   EncodingBase64,
		Confidence: confidence,
		Reasoning:  reasoning,
		Operation:  "base64_decode",
	}}
}

// detectRaw treats input as the ciphertext bytes themselves
func (d *InputDetector) detectRaw(input []byte) DetectionResult {
	entropy := calculateEntropy(input)
	confidence := 0.3
	// Binary ciphertext rarely stays within printable ASCII
	if !isPrintable(input) {
		confidence = 0.9
	}
	return DetectionResult{
		Encoding:   EncodingRaw,
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("Raw bytes, Shannon entropy %.2f bits/byte", entropy),
	}
}

// calculateEntropy calculates Shannon entropy of the input
func calculateEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	var freq [256]int
	for _, b := range data {
		freq[b]++
	}

	entropy := 0.0
	dataLen := float64(len(data))
	for _, count := range freq {
		if count == 0 {
			continue
		}
		p := float64(count) / dataLen
		entropy -= p * math.Log2(p)
	}

	return entropy
}

func isPrintable(data []byte) bool {
	for _, b := range data {
		if b == '\n' || b == '\r' || b == '\t' {
			continue
		}
		if b < 0x20 || b > 0x7e {
			return false
		}
	}
	return true
}

// ParseEncoding normalizes an input encoding name. Empty selects auto.
func ParseEncoding(name string) (string, error) {
	encoding := strings.ToLower(strings.TrimSpace(name))
	if encoding == "" || encoding == EncodingAuto {
		return EncodingAuto, nil
	}
	for _, supported := range NewInputDetector().SupportedEncodings() {
		if encoding == supported {
			return encoding, nil
		}
	}
	return "", fmt.Errorf("unsupported input encoding %q (want auto, hex, base64 or raw)", name)
}

// DecodeInput converts ciphertext input to bytes. Encoding is one of
// auto, hex, base64 or raw; auto picks the most confident detection.
// The encoding actually used is returned alongside the bytes.
func DecodeInput(ctx context.Context, input []byte, encoding string) ([]byte, string, error) {
	encoding, err := ParseEncoding(encoding)
	if err != nil {
		return nil, "", err
	}

	if encoding == EncodingAuto {
		detections, err := NewInputDetector().Detect(ctx, input)
		if err != nil {
			return nil, "", err
		}
		encoding = detections[0].Encoding
	}

	var opName string
	switch encoding {
	case EncodingRaw:
		return append([]byte(nil), input...), EncodingRaw, nil
	case EncodingHex:
		opName = "hex_decode"
	case EncodingBase64:
		opName = "base64_decode"
	default:
		return nil, "", fmt.Errorf("unsupported input encoding %q", encoding)
	}

	op, ok := GetOperation(opName)
	if !ok {
		return nil, "", fmt.Errorf("operation %s is not registered", opName)
	}
	decoded, err := op.Execute(ctx, input, nil)
	if err != nil {
		return nil, "", err
	}
	return decoded, encoding, nil
}
