package xorcrack

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/RowanDark/xorscope/internal/freq"
)

var (
	// ErrNoCandidate is returned when no key byte yields valid text.
	ErrNoCandidate = errors.New("no single-byte key produces valid text")
	// ErrNoKeyLength is returned when the ciphertext is too short to rank any key length.
	ErrNoKeyLength = errors.New("ciphertext too short to estimate a key length")
	// ErrInvalidKeyLength is returned for key lengths below 1.
	ErrInvalidKeyLength = errors.New("key length must be at least 1")
)

// Keyspace selects which key bytes the scorer tries.
type Keyspace string

const (
	// KeyspaceFull scans every byte value 0-255.
	KeyspaceFull Keyspace = "full"
	// KeyspacePrintable scans 1-127 only.
	KeyspacePrintable Keyspace = "printable"
)

// ParseKeyspace converts a user supplied name into a Keyspace.
func ParseKeyspace(name string) (Keyspace, error) {
	switch Keyspace(strings.ToLower(strings.TrimSpace(name))) {
	case "", KeyspaceFull:
		return KeyspaceFull, nil
	case KeyspacePrintable:
		return KeyspacePrintable, nil
	default:
		return "", fmt.Errorf("unknown keyspace %q", name)
	}
}

func (k Keyspace) bounds() (lo, hi int) {
	if k == KeyspacePrintable {
		return 1, 127
	}
	return 0, 255
}

// SingleByteCandidate is a key byte and the similarity of its plaintext to
// the reference model.
type SingleByteCandidate struct {
	Key       byte    `json:"key" yaml:"key"`
	Score     float64 `json:"score" yaml:"score"`
	Plaintext []byte  `json:"plaintext" yaml:"plaintext"`
}

// Scorer ranks single-byte XOR keys against a reference model.
type Scorer struct {
	Reference freq.Model
	Keyspace  Keyspace
}

// NewScorer returns a scorer bound to reference.
func NewScorer(reference freq.Model, keyspace Keyspace) *Scorer {
	if keyspace == "" {
		keyspace = KeyspaceFull
	}
	return &Scorer{Reference: reference, Keyspace: keyspace}
}

// Score returns the similarity of plaintext to the reference model.
func (s *Scorer) Score(plaintext []byte) float64 {
	return freq.Similarity(s.Reference, freq.Build(plaintext, s.Reference.Alphabet()))
}

// BestKey returns the highest scoring key for ciphertext, or false when no
// key in the keyspace yields valid, non-degenerate text.
func (s *Scorer) BestKey(ciphertext []byte) (SingleByteCandidate, bool) {
	var (
		best  SingleByteCandidate
		found bool
	)
	s.scan(ciphertext, func(c SingleByteCandidate) {
		if !found || c.Score > best.Score {
			best = c
			found = true
		}
	})
	return best, found
}

// RankKeys returns every surviving candidate, best first.
func (s *Scorer) RankKeys(ciphertext []byte) []SingleByteCandidate {
	var out []SingleByteCandidate
	s.scan(ciphertext, func(c SingleByteCandidate) {
		out = append(out, c)
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Key < out[j].Key
		}
		return out[i].Score > out[j].Score
	})
	return out
}

func (s *Scorer) scan(ciphertext []byte, visit func(SingleByteCandidate)) {
	lo, hi := s.Keyspace.bounds()
	alphabet := s.Reference.Alphabet()
	for k := lo; k <= hi; k++ {
		plaintext := xorSingle(ciphertext, byte(k))
		if !utf8.Valid(plaintext) {
			continue
		}
		model := freq.Build(plaintext, alphabet)
		if model.IsZero() {
			continue
		}
		visit(SingleByteCandidate{
			Key:       byte(k),
			Score:     freq.Similarity(s.Reference, model),
			Plaintext: plaintext,
		})
	}
}

// LineCandidate is the best single-byte candidate of one line in a batch.
type LineCandidate struct {
	Line int `json:"line" yaml:"line"`
	SingleByteCandidate
}

// DetectLine finds the line most likely to be single-byte XOR encrypted.
func (s *Scorer) DetectLine(lines [][]byte) (LineCandidate, bool) {
	var (
		best  LineCandidate
		found bool
	)
	for i, line := range lines {
		c, ok := s.BestKey(line)
		if !ok {
			continue
		}
		if !found || c.Score > best.Score {
			best = LineCandidate{Line: i, SingleByteCandidate: c}
			found = true
		}
	}
	return best, found
}

func xorSingle(src []byte, k byte) []byte {
	out := make([]byte, len(src))
	for i, b := range src {
		out[i] = b ^ k
	}
	return out
}
