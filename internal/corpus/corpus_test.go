package corpus

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/RowanDark/xorscope/internal/freq"
)

func TestEnglishModels(t *testing.T) {
	bytesModel := English(freq.AlphabetBytes)
	if bytesModel.IsZero() {
		t.Fatal("embedded corpus produced a zero model")
	}
	if top := bytesModel.Top(1); len(top) != 1 || top[0].Value != ' ' {
		t.Errorf("expected space to be the most common symbol, got %+v", top)
	}

	letters := English(freq.AlphabetLetters)
	if letters.Alphabet() != freq.AlphabetLetters {
		t.Fatalf("expected letters alphabet, got %s", letters.Alphabet())
	}
	if top := letters.Top(2); len(top) != 2 || top[0].Value != ' ' || top[1].Value != 'E' {
		t.Errorf("expected space then E to lead the letter table, got %+v", top)
	}
	if letters.Weight(freq.Other) != 0 {
		t.Errorf("letter table should carry no weight outside letters and space")
	}
	if got := freq.Similarity(letters, letters); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected self similarity 1, got %v", got)
	}
}

func TestReference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}

	m, err := Reference(path, freq.AlphabetBytes)
	if err != nil {
		t.Fatalf("reference: %v", err)
	}
	if m.Weight('l') <= m.Weight('h') {
		t.Errorf("expected 'l' to outweigh 'h'")
	}

	builtin, err := Reference("  ", freq.AlphabetBytes)
	if err != nil {
		t.Fatalf("builtin reference: %v", err)
	}
	if builtin.IsZero() {
		t.Fatal("expected built-in model for empty path")
	}
}

func TestReferenceErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Reference(filepath.Join(dir, "missing.txt"), freq.AlphabetBytes); err == nil {
		t.Fatal("expected error for missing corpus")
	}

	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write empty corpus: %v", err)
	}
	if _, err := Reference(empty, freq.AlphabetBytes); err == nil {
		t.Fatal("expected error for empty corpus")
	}

	digits := filepath.Join(dir, "digits.txt")
	if err := os.WriteFile(digits, []byte("12345"), 0o644); err != nil {
		t.Fatalf("write digits corpus: %v", err)
	}
	if _, err := Reference(digits, freq.AlphabetLetters); err == nil {
		t.Fatal("expected error for corpus without letters")
	}
}
