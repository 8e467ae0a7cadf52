package cipher

import (
	"context"
	"math"
	"testing"
)

func TestInputDetector(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"hex", []byte("0e3647e8592d35514a081243582536ed3de6734059001e3f535ce6271032"), EncodingHex},
		{"multi-line hex", []byte("1b37373331363f78\n151b7f2b783431333d\n"), EncodingHex},
		{"base64", []byte("HUIfTQsPAh9PE048GmllH0kcDk4TAQsHThsBFkU2AB4BSWQgVB0dQzNTTmVS\nBgBHVBwNRU0HBAxTEjwMHghJGgkRTxRMIRpHKwAFHUdZEQQJAGQmB1MANxYG\n"), EncodingBase64},
		{"binary", []byte{0x0b, 0x36, 0x37, 0x27, 0x2a, 0x00, 0xff, 0x80}, EncodingRaw},
	}

	detector := NewInputDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := detector.Detect(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("detect failed: %v", err)
			}
			if len(results) == 0 {
				t.Fatal("expected at least one result")
			}
			if results[0].Encoding != tt.expected {
				t.Errorf("expected %s first, got %+v", tt.expected, results)
			}
		})
	}
}

func TestInputDetectorOrdering(t *testing.T) {
	results, err := NewInputDetector().Detect(context.Background(), []byte("deadbeef"))
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Confidence < results[i].Confidence {
			t.Fatalf("results not sorted by confidence: %+v", results)
		}
	}
	if results[len(results)-1].Encoding != EncodingRaw {
		t.Errorf("expected raw to rank last for printable hex, got %+v", results)
	}
}

func TestInputDetectorEmpty(t *testing.T) {
	if _, err := NewInputDetector().Detect(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestSupportedEncodings(t *testing.T) {
	got := NewInputDetector().SupportedEncodings()
	if len(got) != 3 {
		t.Fatalf("expected 3 encodings, got %v", got)
	}
}

func TestCalculateEntropy(t *testing.T) {
	if got := calculateEntropy(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %v", got)
	}
	if got := calculateEntropy([]byte("aaaa")); got != 0 {
		t.Errorf("expected 0 for constant input, got %v", got)
	}
	if got := calculateEntropy([]byte("abab")); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected 1 bit for two symbols, got %v", got)
	}
}

func TestDecodeInput(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name         string
		input        string
		encoding     string
		want         string
		wantEncoding string
		wantErr      bool
	}{
		{"auto hex", "494345", "auto", "ICE", EncodingHex, false},
		{"auto base64", "SUNFIGljZQ==", "", "ICE ice", EncodingBase64, false},
		{"explicit hex", "494345\n", "hex", "ICE", EncodingHex, false},
		{"explicit base64", "SUNF", "BASE64", "ICE", EncodingBase64, false},
		{"explicit raw", "494345", "raw", "494345", EncodingRaw, false},
		{"bad hex", "49434", "hex", "", "", true},
		{"unknown encoding", "494345", "rot13", "", "", true},
		{"empty auto", "", "auto", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, enc, err := DecodeInput(ctx, []byte(tt.input), tt.encoding)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", out)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out)
			}
			if enc != tt.wantEncoding {
				t.Errorf("expected encoding %s, got %s", tt.wantEncoding, enc)
			}
		})
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", EncodingAuto, false},
		{"AUTO", EncodingAuto, false},
		{" hex ", EncodingHex, false},
		{"Base64", EncodingBase64, false},
		{"raw", EncodingRaw, false},
		{"rot13", "", true},
		{"base32", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEncoding(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEncoding(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseEncoding(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
