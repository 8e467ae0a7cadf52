package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/RowanDark/xorscope/internal/cipher"
	"github.com/RowanDark/xorscope/internal/logging"
	"github.com/RowanDark/xorscope/internal/reporter"
	"github.com/RowanDark/xorscope/internal/xorcrack"
)

func runCrack(args []string) int {
	fs := flag.NewFlagSet("crack", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	common := bindAnalysisFlags(fs, cipher.EncodingAuto)
	bindRangeFlags(fs, common)
	fs.IntVar(&common.candidates, "candidates", 0, "how many of the best key lengths to crack (default from config)")
	keyLen := fs.Int("keylen", 0, "skip ranking and crack this key length")
	filler := fs.String("filler", "0x00", "key byte used for columns without a candidate")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "crack requires exactly one input file (use - for stdin)")
		return 2
	}
	if *keyLen < 0 {
		fmt.Fprintln(os.Stderr, "--keylen must be positive")
		return 2
	}
	fill, err := parseByte(*filler)
	if err != nil {
		fmt.Fprintf(os.Stderr, "--filler: %v\n", err)
		return 2
	}

	ctx := context.Background()
	s, err := openSession(ctx, common)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}
	defer s.close(ctx)

	ciphertext, input, err := s.readInput(ctx, fs.Arg(0))
	if err != nil {
		return s.fail("read input", err)
	}
	scorer, err := s.scorer()
	if err != nil {
		return s.fail("load reference", err)
	}

	breaker := xorcrack.NewBreaker(scorer)
	breaker.MinKeyLength = s.cfg.MinKeyLength
	breaker.MaxKeyLength = s.cfg.MaxKeyLength
	breaker.Candidates = s.cfg.Candidates
	breaker.Filler = fill

	var res *xorcrack.Result
	if *keyLen > 0 {
		res, err = crackKnownLength(ctx, breaker, ciphertext, *keyLen)
	} else {
		res, err = breaker.Break(ctx, ciphertext)
	}
	if errors.Is(err, xorcrack.ErrNoKeyLength) {
		return s.fail("rank key lengths", fmt.Errorf("ciphertext of %d bytes is too short for key lengths %d-%d", len(ciphertext), s.cfg.MinKeyLength, s.cfg.MaxKeyLength))
	}
	if err != nil {
		return s.fail("crack", err)
	}

	if len(res.KeyLengths) > 0 {
		s.emit(logging.EventKeyLengthsRanked, logging.OutcomeInfo, map[string]any{
			"candidates": len(res.KeyLengths),
			"best":       res.KeyLengths[0].Length,
			"distance":   res.KeyLengths[0].Score,
		})
	}
	s.auditColumns(res.Key)

	outcome := logging.OutcomeComplete
	if !res.Key.Complete() {
		outcome = logging.OutcomePartial
		s.logger.Warn("key has unresolved columns", "missing", res.Key.Missing, "filler", fill)
	}
	s.emit(logging.EventKeyRecovered, outcome, map[string]any{
		"key_hex":    hex.EncodeToString(res.Key.Key),
		"key_length": len(res.Key.Key),
		"score":      res.Score,
	})
	s.logger.Info("key recovered", "key_length", len(res.Key.Key), "score", res.Score, "complete", res.Key.Complete())

	if err := s.output(reporter.FromResult(input, res)); err != nil {
		return s.fail("write report", err)
	}
	return 0
}

// crackKnownLength skips key-length ranking and cracks a single length.
func crackKnownLength(ctx context.Context, b *xorcrack.Breaker, ciphertext []byte, keyLength int) (*xorcrack.Result, error) {
	rk, err := b.BreakWithLength(ctx, ciphertext, keyLength)
	if err != nil {
		return nil, err
	}
	plaintext := xorcrack.RepeatingXorApply(ciphertext, rk.Fill(b.Filler))
	score := b.Scorer.Score(plaintext)
	return &xorcrack.Result{
		Attempts:  []xorcrack.Attempt{{KeyLength: keyLength, Key: rk, Score: score}},
		Key:       rk,
		Plaintext: plaintext,
		Score:     score,
	}, nil
}

func (s *session) auditColumns(rk xorcrack.RecoveredKey) {
	audit := s.audit.WithComponent("xorcrack")
	missing := make(map[int]bool, len(rk.Missing))
	for _, col := range rk.Missing {
		missing[col] = true
		s.emitTo(audit, logging.EventColumnUnresolved, logging.OutcomePartial, map[string]any{"column": col})
	}
	for col, b := range rk.Key {
		if missing[col] {
			continue
		}
		meta := map[string]any{"column": col, "key_byte": int(b)}
		if col < len(rk.Scores) {
			meta["score"] = rk.Scores[col]
		}
		s.emitTo(audit, logging.EventColumnRecovered, logging.OutcomeInfo, meta)
	}
}
