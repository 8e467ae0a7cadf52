package freq

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func TestBuildIsUnitMagnitude(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		alphabet Alphabet
	}{
		{"bytes", "something big", AlphabetBytes},
		{"letters", "Something Big!", AlphabetLetters},
		{"unicode", "naïve café", AlphabetBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Build([]byte(tt.input), tt.alphabet)
			if got := Dot(m.Vector(), m.Vector()); math.Abs(got-1) > tolerance {
				t.Fatalf("expected unit magnitude, got self dot %v", got)
			}
			if m.Alphabet() != tt.alphabet {
				t.Errorf("expected alphabet %s, got %s", tt.alphabet, m.Alphabet())
			}
		})
	}
}

func TestBuildEmptyIsZero(t *testing.T) {
	m := Build(nil, AlphabetBytes)
	if !m.IsZero() {
		t.Fatal("expected zero model for empty corpus")
	}
	if m.Magnitude() != 0 {
		t.Fatalf("expected zero magnitude, got %v", m.Magnitude())
	}

	if !Build(nil, AlphabetLetters).IsZero() {
		t.Fatal("expected zero letters model for empty corpus")
	}
}

func TestLettersCountSpaceAndOther(t *testing.T) {
	m := Build([]byte("1234 !?"), AlphabetLetters)
	if m.IsZero() {
		t.Fatal("non-letter symbols must still carry weight")
	}
	if m.Weight(' ') == 0 || m.Weight(Other) == 0 {
		t.Fatalf("expected space and Other weight, got space=%v other=%v", m.Weight(' '), m.Weight(Other))
	}
	for c := byte('A'); c <= 'Z'; c++ {
		if m.Weight(c) != 0 {
			t.Fatalf("unexpected weight for %q", c)
		}
	}
	if m.Weight('1') != 0 {
		t.Error("digits belong in the Other slot")
	}
}

func TestLettersPenalizeNonLetters(t *testing.T) {
	ref := FromTable(map[byte]float64{
		' ': 0.19, 'E': 0.12, 'T': 0.09, 'A': 0.08, 'O': 0.077, 'H': 0.059, 'S': 0.063,
	}, AlphabetLetters)

	tests := []struct {
		name  string
		clean string
		noisy string
	}{
		{"control bytes", "the hat sat on the seat", "the\x01\x02\x03hat\x00\x00sat\x00on\x00\x00the\x00seat\x05\x06"},
		// Flipping bit 0x20 swaps letter case and turns spaces into NULs.
		{"case flip", "those hats are the best", "THOSE\x00HATS\x00ARE\x00THE\x00BEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean := Similarity(ref, Build([]byte(tt.clean), AlphabetLetters))
			noisy := Similarity(ref, Build([]byte(tt.noisy), AlphabetLetters))
			if clean <= noisy {
				t.Fatalf("expected clean text to outscore noisy text: %v <= %v", clean, noisy)
			}
		})
	}
}

func TestLettersFoldCase(t *testing.T) {
	upper := Build([]byte("HELLO"), AlphabetLetters)
	lower := Build([]byte("hello"), AlphabetLetters)
	if upper.Vector() != lower.Vector() {
		t.Fatal("letter models should ignore case")
	}
	if upper.Weight('h') != 0 {
		t.Error("lower case slots should stay empty")
	}
}

func TestSimilaritySelfIsOne(t *testing.T) {
	corpus := Build([]byte("It was the best of times, it was the worst of times."), AlphabetBytes)
	if got := Similarity(corpus, corpus); math.Abs(got-1) > tolerance {
		t.Fatalf("expected self similarity 1, got %v", got)
	}

	table := FromTable(map[byte]float64{'E': 0.1202, 'T': 0.0910, 'a': 0.0812}, AlphabetLetters)
	if got := Similarity(table, table); math.Abs(got-1) > tolerance {
		t.Fatalf("expected self similarity 1 for table model, got %v", got)
	}
	if table.Weight('A') == 0 {
		t.Error("expected lower case table keys to fold into upper case")
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a := Build([]byte("something big"), AlphabetBytes)
	b := Build([]byte("something bigger"), AlphabetBytes)
	c := Build([]byte("something at alll"), AlphabetBytes)

	if Similarity(a, b) != Similarity(b, a) {
		t.Fatal("similarity must be symmetric")
	}
	if Similarity(a, b) <= Similarity(a, c) {
		t.Errorf("expected closer text to score higher: %v <= %v", Similarity(a, b), Similarity(a, c))
	}
}

func TestSimilarityZeroMagnitude(t *testing.T) {
	zero := Build(nil, AlphabetBytes)
	text := Build([]byte("text"), AlphabetBytes)

	for _, got := range []float64{
		Similarity(zero, text),
		Similarity(text, zero),
		Similarity(zero, zero),
	} {
		if got != 0 || math.IsNaN(got) {
			t.Fatalf("expected 0 for zero magnitude, got %v", got)
		}
	}
}

func TestTop(t *testing.T) {
	m := Build([]byte("aaabbc"), AlphabetBytes)
	top := m.Top(2)
	if len(top) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(top))
	}
	if top[0].Value != 'a' || top[1].Value != 'b' {
		t.Errorf("unexpected order: %q %q", top[0].Value, top[1].Value)
	}
	if all := m.Top(-1); len(all) != 3 {
		t.Errorf("expected every non-zero symbol, got %d", len(all))
	}
}

func TestParseAlphabet(t *testing.T) {
	tests := []struct {
		input   string
		want    Alphabet
		wantErr bool
	}{
		{"", AlphabetBytes, false},
		{"bytes", AlphabetBytes, false},
		{" Letters ", AlphabetLetters, false},
		{"runes", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAlphabet(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseAlphabet(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseAlphabet(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
