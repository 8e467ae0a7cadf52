// Package corpus provides reference language models for scoring candidate
// plaintexts.
package corpus

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/RowanDark/xorscope/internal/freq"
)

//go:embed english.txt
var englishText []byte

// englishLetters holds relative letter frequencies of English text. Space
// is weighted against the letter total so word breaks count when scoring.
var englishLetters = map[byte]float64{
	' ': 0.1918,
	'E': 0.1202, 'T': 0.0910, 'A': 0.0812, 'O': 0.0768, 'I': 0.0731, 'N': 0.0695,
	'S': 0.0628, 'R': 0.0602, 'H': 0.0592, 'D': 0.0432, 'L': 0.0398, 'U': 0.0288,
	'C': 0.0271, 'M': 0.0261, 'F': 0.0230, 'Y': 0.0211, 'W': 0.0209, 'G': 0.0203,
	'P': 0.0182, 'B': 0.0149, 'V': 0.0111, 'K': 0.0069, 'X': 0.0017, 'Q': 0.0011,
	'J': 0.0010, 'Z': 0.0007,
}

// EnglishLetters returns the published English letter frequency model.
func EnglishLetters() freq.Model {
	return freq.FromTable(englishLetters, freq.AlphabetLetters)
}

// English returns the built-in reference model for alphabet. The letter
// alphabet uses the published frequency table; the byte alphabet is built
// from the embedded prose sample.
func English(alphabet freq.Alphabet) freq.Model {
	if alphabet == freq.AlphabetLetters {
		return EnglishLetters()
	}
	return freq.Build(englishText, freq.AlphabetBytes)
}

// Load reads a corpus file from disk.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("corpus %s is empty", path)
	}
	return data, nil
}

// Reference builds the model used for scoring. An empty path selects the
// built-in English model.
func Reference(path string, alphabet freq.Alphabet) (freq.Model, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return English(alphabet), nil
	}
	data, err := Load(path)
	if err != nil {
		return freq.Model{}, err
	}
	m := freq.Build(data, alphabet)
	if m.IsZero() || (m.Alphabet() == freq.AlphabetLetters && !hasLetters(m)) {
		return freq.Model{}, fmt.Errorf("corpus %s has no %s symbols", path, alphabet)
	}
	return m, nil
}

func hasLetters(m freq.Model) bool {
	for c := byte('A'); c <= 'Z'; c++ {
		if m.Weight(c) > 0 {
			return true
		}
	}
	return false
}
