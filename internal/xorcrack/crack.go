package xorcrack

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/RowanDark/xorscope/internal/observability/tracing"
)

// RecoveredKey is the result of cracking every column of a repeating-key
// XOR ciphertext.
type RecoveredKey struct {
	Key     []byte    `json:"key" yaml:"key"`
	Scores  []float64 `json:"scores" yaml:"scores"`
	Missing []int     `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Complete reports whether every column produced a key byte.
func (k RecoveredKey) Complete() bool {
	return len(k.Missing) == 0
}

// Fill returns the key with every missing column set to b.
func (k RecoveredKey) Fill(b byte) []byte {
	out := append([]byte(nil), k.Key...)
	for _, col := range k.Missing {
		if col >= 0 && col < len(out) {
			out[col] = b
		}
	}
	return out
}

// Transpose splits ciphertext into keyLength columns; byte p goes to column
// p mod keyLength.
func Transpose(ciphertext []byte, keyLength int) [][]byte {
	if keyLength < 1 {
		return nil
	}
	cols := make([][]byte, keyLength)
	per := len(ciphertext)/keyLength + 1
	for i := range cols {
		cols[i] = make([]byte, 0, per)
	}
	for p, b := range ciphertext {
		cols[p%keyLength] = append(cols[p%keyLength], b)
	}
	return cols
}

// CrackRepeatingXor recovers one key byte per column of ciphertext. Columns
// are independent and are solved concurrently. A column with no candidate
// is listed in Missing and its key byte is left as zero.
func CrackRepeatingXor(ctx context.Context, ciphertext []byte, keyLength int, scorer *Scorer) (RecoveredKey, error) {
	if keyLength < 1 {
		return RecoveredKey{}, ErrInvalidKeyLength
	}
	ctx, span := tracing.StartSpan(ctx, "xorcrack.crack", map[string]any{
		"key_length":        keyLength,
		"ciphertext_length": len(ciphertext),
	})

	cols := Transpose(ciphertext, keyLength)
	key := make([]byte, keyLength)
	scores := make([]float64, keyLength)
	found := make([]bool, keyLength)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range cols {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, colSpan := tracing.StartSpan(gctx, "xorcrack.column", map[string]any{
				"column": i,
				"length": len(cols[i]),
			})
			c, ok := scorer.BestKey(cols[i])
			if ok {
				key[i], scores[i], found[i] = c.Key, c.Score, true
				colSpan.SetAttribute("key_byte", int(c.Key))
			}
			colSpan.SetAttribute("resolved", ok)
			colSpan.End()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.End()
		return RecoveredKey{}, err
	}

	res := RecoveredKey{Key: key, Scores: scores}
	for i, ok := range found {
		if !ok {
			res.Missing = append(res.Missing, i)
			span.AddEvent("column_unresolved", map[string]any{"column": i})
		}
	}
	span.SetAttribute("complete", res.Complete())
	span.EndWithStatus(tracing.StatusOK, "")
	return res, nil
}

// RepeatingXorApply XORs data with key repeated over its length. Applying it
// twice with the same key returns the original data. An empty key returns a
// copy of data.
func RepeatingXorApply(data, key []byte) []byte {
	out := make([]byte, len(data))
	if len(key) == 0 {
		copy(out, data)
		return out
	}
	for p, b := range data {
		out[p] = b ^ key[p%len(key)]
	}
	return out
}
