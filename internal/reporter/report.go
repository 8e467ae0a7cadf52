package reporter

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/RowanDark/xorscope/internal/xorcrack"
)

// SchemaVersion identifies the structure of serialised reports.
const SchemaVersion = "1.0"

// Kind names the analysis a report describes.
type Kind string

const (
	KindCrack  Kind = "crack"
	KindRank   Kind = "rank"
	KindSingle Kind = "single"
	KindDetect Kind = "detect"
)

// Input describes the ciphertext a report was produced from.
type Input struct {
	Source   string `json:"source" yaml:"source"`
	Encoding string `json:"encoding" yaml:"encoding"`
	Length   int    `json:"length" yaml:"length"`
	Digest   string `json:"digest" yaml:"digest"`
}

// Key is a recovered key in both hex and printable form.
type Key struct {
	Hex      string `json:"hex" yaml:"hex"`
	Text     string `json:"text" yaml:"text"`
	Length   int    `json:"length" yaml:"length"`
	Complete bool   `json:"complete" yaml:"complete"`
	Missing  []int  `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Attempt summarises one cracked key-length guess.
type Attempt struct {
	KeyLength int     `json:"key_length" yaml:"key_length"`
	Key       string  `json:"key_hex" yaml:"key_hex"`
	Score     float64 `json:"score" yaml:"score"`
	Complete  bool    `json:"complete" yaml:"complete"`
}

// Candidate is one ranked single-byte key.
type Candidate struct {
	Key       string  `json:"key_hex" yaml:"key_hex"`
	Score     float64 `json:"score" yaml:"score"`
	Plaintext string  `json:"plaintext" yaml:"plaintext"`
}

// Report is the serialisable outcome of one analysis run.
type Report struct {
	SchemaVersion string                        `json:"schema_version" yaml:"schema_version"`
	ID            string                        `json:"id" yaml:"id"`
	RunID         string                        `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Kind          Kind                          `json:"kind" yaml:"kind"`
	GeneratedAt   time.Time                     `json:"generated_at" yaml:"generated_at"`
	Input         Input                         `json:"input" yaml:"input"`
	KeyLengths    []xorcrack.KeyLengthCandidate `json:"key_lengths,omitempty" yaml:"key_lengths,omitempty"`
	Attempts      []Attempt                     `json:"attempts,omitempty" yaml:"attempts,omitempty"`
	Candidates    []Candidate                   `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Key           *Key                          `json:"key,omitempty" yaml:"key,omitempty"`
	Line          *int                          `json:"line,omitempty" yaml:"line,omitempty"`
	Plaintext     string                        `json:"plaintext,omitempty" yaml:"plaintext,omitempty"`
	Score         float64                       `json:"score" yaml:"score"`
}

// New starts a report with a fresh ID and timestamp.
func New(kind Kind, input Input) *Report {
	return &Report{
		SchemaVersion: SchemaVersion,
		ID:            ulid.Make().String(),
		Kind:          kind,
		GeneratedAt:   time.Now().UTC(),
		Input:         input,
	}
}

// NewInput summarises raw ciphertext bytes.
func NewInput(source, encoding string, data []byte) Input {
	return Input{
		Source:   source,
		Encoding: encoding,
		Length:   len(data),
		Digest:   ComputeDigest(data),
	}
}

// FromResult builds a crack report from a breaker result.
func FromResult(input Input, res *xorcrack.Result) *Report {
	r := New(KindCrack, input)
	if res == nil {
		return r
	}
	r.KeyLengths = res.KeyLengths
	for _, a := range res.Attempts {
		r.Attempts = append(r.Attempts, Attempt{
			KeyLength: a.KeyLength,
			Key:       hex.EncodeToString(a.Key.Key),
			Score:     a.Score,
			Complete:  a.Key.Complete(),
		})
	}
	r.Key = NewKey(res.Key)
	r.Plaintext = printable(res.Plaintext)
	r.Score = res.Score
	return r
}

// FromRanking builds a report holding only key-length candidates.
func FromRanking(input Input, candidates []xorcrack.KeyLengthCandidate) *Report {
	r := New(KindRank, input)
	r.KeyLengths = candidates
	if len(candidates) > 0 {
		r.Score = candidates[0].Score
	}
	return r
}

// FromSingle builds a report for a single-byte key.
func FromSingle(input Input, c xorcrack.SingleByteCandidate) *Report {
	r := New(KindSingle, input)
	r.Key = NewKey(xorcrack.RecoveredKey{Key: []byte{c.Key}, Scores: []float64{c.Score}})
	r.Plaintext = printable(c.Plaintext)
	r.Score = c.Score
	return r
}

// FromRankedKeys builds a single-byte report from candidates ordered best
// first, keeping at most top of them.
func FromRankedKeys(input Input, ranked []xorcrack.SingleByteCandidate, top int) *Report {
	if len(ranked) == 0 {
		return New(KindSingle, input)
	}
	r := FromSingle(input, ranked[0])
	if top > len(ranked) {
		top = len(ranked)
	}
	for _, c := range ranked[:max(top, 0)] {
		r.Candidates = append(r.Candidates, Candidate{
			Key:       hex.EncodeToString([]byte{c.Key}),
			Score:     c.Score,
			Plaintext: printable(c.Plaintext),
		})
	}
	return r
}

// FromLine builds a report for the line detected as single-byte XOR.
func FromLine(input Input, c xorcrack.LineCandidate) *Report {
	r := FromSingle(input, c.SingleByteCandidate)
	r.Kind = KindDetect
	line := c.Line
	r.Line = &line
	return r
}

// NewKey converts a recovered key for display.
func NewKey(k xorcrack.RecoveredKey) *Key {
	return &Key{
		Hex:      hex.EncodeToString(k.Key),
		Text:     printable(k.Key),
		Length:   len(k.Key),
		Complete: k.Complete(),
		Missing:  k.Missing,
	}
}

// ComputeDigest calculates the SHA-256 digest of data in hex form.
func ComputeDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%x", sum[:])
}

// printable returns valid UTF-8 unchanged and quotes anything else.
func printable(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	q := fmt.Sprintf("%q", b)
	return strings.Trim(q, `"`)
}
