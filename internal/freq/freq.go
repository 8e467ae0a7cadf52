// Package freq builds symbol frequency fingerprints and compares them.
//
// Every Model is normalized to unit magnitude, so the similarity of two
// models is their cosine. A model built from empty input is the zero vector
// and compares as 0 against anything.
package freq

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Size is the number of symbols tracked by a Vector.
const Size = 256

// Alphabet selects which symbols a Model counts.
type Alphabet string

const (
	// AlphabetBytes counts every symbol below 256.
	AlphabetBytes Alphabet = "bytes"
	// AlphabetLetters counts ASCII letters folded to upper case and the
	// space character. Every other symbol lands in the Other slot.
	AlphabetLetters Alphabet = "letters"
)

// Other is the slot that collects symbols outside the letters alphabet. It
// keeps control bytes and punctuation in a candidate's magnitude.
const Other byte = 0

// ParseAlphabet converts a user supplied name into an Alphabet.
func ParseAlphabet(name string) (Alphabet, error) {
	switch Alphabet(strings.ToLower(strings.TrimSpace(name))) {
	case "", AlphabetBytes:
		return AlphabetBytes, nil
	case AlphabetLetters:
		return AlphabetLetters, nil
	default:
		return "", fmt.Errorf("unknown alphabet %q", name)
	}
}

// Vector maps a symbol to its weight.
type Vector [Size]float64

// Model is an immutable, unit-magnitude frequency fingerprint.
type Model struct {
	alphabet Alphabet
	vec      Vector
}

// Build counts the symbols of corpus and returns the normalized model.
//
// Symbols are decoded as runes. For AlphabetBytes runes above 0xff are
// dropped; for AlphabetLetters they count as Other.
func Build(corpus []byte, alphabet Alphabet) Model {
	if alphabet == "" {
		alphabet = AlphabetBytes
	}
	var (
		counts Vector
		total  int
	)
	for _, r := range string(corpus) {
		total++
		switch alphabet {
		case AlphabetLetters:
			counts[letterSlot(r)]++
		default:
			if r < Size {
				counts[r]++
			}
		}
	}
	if total == 0 {
		return Model{alphabet: alphabet}
	}
	for i := range counts {
		counts[i] /= float64(total)
	}
	return Model{alphabet: alphabet, vec: normalize(counts)}
}

// FromTable builds a model from published relative frequencies. For
// AlphabetLetters, letter keys are folded to upper case and keys that are
// neither letters nor space are summed into Other.
func FromTable(table map[byte]float64, alphabet Alphabet) Model {
	if alphabet == "" {
		alphabet = AlphabetBytes
	}
	var v Vector
	for sym, w := range table {
		if w < 0 {
			continue
		}
		if alphabet == AlphabetLetters {
			sym = letterSlot(rune(sym))
		}
		v[sym] += w
	}
	return Model{alphabet: alphabet, vec: normalize(v)}
}

// Alphabet reports which symbols the model counts.
func (m Model) Alphabet() Alphabet {
	if m.alphabet == "" {
		return AlphabetBytes
	}
	return m.alphabet
}

// Vector returns a copy of the underlying weights.
func (m Model) Vector() Vector {
	return m.vec
}

// Weight returns the weight of a single symbol.
func (m Model) Weight(sym byte) float64 {
	return m.vec[sym]
}

// Magnitude returns the Euclidean norm of the model.
func (m Model) Magnitude() float64 {
	return magnitude(m.vec)
}

// IsZero reports whether the model carries no weight at all.
func (m Model) IsZero() bool {
	for _, w := range m.vec {
		if w != 0 {
			return false
		}
	}
	return true
}

// Symbol pairs a byte value with its weight.
type Symbol struct {
	Value  byte
	Weight float64
}

// Top returns the n heaviest symbols, heaviest first.
func (m Model) Top(n int) []Symbol {
	syms := make([]Symbol, 0, Size)
	for i, w := range m.vec {
		if w > 0 {
			syms = append(syms, Symbol{Value: byte(i), Weight: w})
		}
	}
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].Weight == syms[j].Weight {
			return syms[i].Value < syms[j].Value
		}
		return syms[i].Weight > syms[j].Weight
	})
	if n >= 0 && n < len(syms) {
		syms = syms[:n]
	}
	return syms
}

// Dot returns the dot product of two vectors.
func Dot(a, b Vector) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Similarity returns the cosine similarity of a and b. It is symmetric and
// returns 0 when either model has zero magnitude.
func Similarity(a, b Model) float64 {
	ma, mb := a.Magnitude(), b.Magnitude()
	if ma == 0 || mb == 0 {
		return 0
	}
	s := Dot(a.vec, b.vec) / (ma * mb)
	if math.IsNaN(s) {
		return 0
	}
	return s
}

func letterSlot(r rune) byte {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r - ('a' - 'A'))
	case r >= 'A' && r <= 'Z', r == ' ':
		return byte(r)
	default:
		return Other
	}
}

func magnitude(v Vector) float64 {
	return math.Sqrt(Dot(v, v))
}

func normalize(v Vector) Vector {
	m := magnitude(v)
	if m == 0 {
		return v
	}
	var out Vector
	for i, w := range v {
		out[i] = w / m
	}
	return out
}
