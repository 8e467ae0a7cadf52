package xorcrack

import (
	"bytes"
	"context"
	"fmt"

	"github.com/RowanDark/xorscope/internal/observability/tracing"
)

const (
	DefaultMinKeyLength = 2
	DefaultMaxKeyLength = 40
	DefaultCandidates   = 3
)

// Attempt records the outcome of cracking one key-length guess.
type Attempt struct {
	KeyLength int          `json:"key_length" yaml:"key_length"`
	Key       RecoveredKey `json:"key" yaml:"key"`
	Score     float64      `json:"score" yaml:"score"`
}

// Result is the outcome of a full break.
type Result struct {
	KeyLengths []KeyLengthCandidate `json:"key_lengths" yaml:"key_lengths"`
	Attempts   []Attempt            `json:"attempts" yaml:"attempts"`
	Key        RecoveredKey         `json:"key" yaml:"key"`
	Plaintext  []byte               `json:"plaintext" yaml:"plaintext"`
	Score      float64              `json:"score" yaml:"score"`
}

// Breaker runs the key-length, transposition and scoring stages end to end.
type Breaker struct {
	Scorer       *Scorer
	MinKeyLength int
	MaxKeyLength int
	// Candidates is how many of the best ranked key lengths are cracked.
	Candidates int
	// Filler substitutes key bytes of columns that yielded no candidate.
	Filler byte
}

// NewBreaker returns a Breaker with the default search bounds.
func NewBreaker(scorer *Scorer) *Breaker {
	return &Breaker{
		Scorer:       scorer,
		MinKeyLength: DefaultMinKeyLength,
		MaxKeyLength: DefaultMaxKeyLength,
		Candidates:   DefaultCandidates,
	}
}

// Break ranks key lengths, cracks the top candidates and keeps the key whose
// plaintext is most similar to the reference model.
func (b *Breaker) Break(ctx context.Context, ciphertext []byte) (*Result, error) {
	if b.Scorer == nil {
		return nil, fmt.Errorf("breaker has no scorer")
	}
	ctx, span := tracing.StartSpan(ctx, "xorcrack.break", map[string]any{
		"ciphertext_length": len(ciphertext),
	})
	defer span.End()

	ranked := b.rank(ctx, ciphertext)
	if len(ranked) == 0 {
		span.RecordError(ErrNoKeyLength)
		return nil, ErrNoKeyLength
	}

	n := b.Candidates
	if n < 1 {
		n = 1
	}
	if n > len(ranked) {
		n = len(ranked)
	}

	res := &Result{KeyLengths: ranked}
	best := -1
	for _, cand := range ranked[:n] {
		rk, err := b.BreakWithLength(ctx, ciphertext, cand.Length)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		plaintext := RepeatingXorApply(ciphertext, rk.Fill(b.Filler))
		att := Attempt{KeyLength: cand.Length, Key: rk, Score: b.Scorer.Score(plaintext)}
		res.Attempts = append(res.Attempts, att)

		if best < 0 || better(att, res.Attempts[best]) {
			best = len(res.Attempts) - 1
			res.Key = rk
			res.Plaintext = plaintext
			res.Score = att.Score
		}
	}
	span.SetAttribute("key_length", len(res.Key.Key))
	span.SetAttribute("score", res.Score)
	return res, nil
}

// BreakWithLength cracks ciphertext for a known key length and reduces the
// recovered key to its shortest repeating period.
func (b *Breaker) BreakWithLength(ctx context.Context, ciphertext []byte, keyLength int) (RecoveredKey, error) {
	rk, err := CrackRepeatingXor(ctx, ciphertext, keyLength, b.Scorer)
	if err != nil {
		return RecoveredKey{}, err
	}
	return reducePeriod(rk), nil
}

func (b *Breaker) rank(ctx context.Context, ciphertext []byte) []KeyLengthCandidate {
	_, span := tracing.StartSpan(ctx, "xorcrack.rank_key_lengths", map[string]any{
		"min_length": b.MinKeyLength,
		"max_length": b.MaxKeyLength,
	})
	defer span.End()

	ranked := RankKeyLengths(ciphertext, b.MinKeyLength, b.MaxKeyLength)
	span.SetAttribute("candidates", len(ranked))
	return ranked
}

// better prefers complete keys, then higher scores, then shorter keys.
func better(a, b Attempt) bool {
	if a.Key.Complete() != b.Key.Complete() {
		return a.Key.Complete()
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return len(a.Key.Key) < len(b.Key.Key)
}

// reducePeriod collapses a key such as "ICEICE" to "ICE". Keys with missing
// columns are returned unchanged.
func reducePeriod(rk RecoveredKey) RecoveredKey {
	n := len(rk.Key)
	if n < 2 || !rk.Complete() {
		return rk
	}
	for p := 1; p < n; p++ {
		if n%p != 0 {
			continue
		}
		if bytes.Equal(rk.Key[p:], rk.Key[:n-p]) {
			return RecoveredKey{
				Key:    append([]byte(nil), rk.Key[:p]...),
				Scores: append([]float64(nil), rk.Scores[:p]...),
			}
		}
	}
	return rk
}
