package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/RowanDark/xorscope/internal/cipher"
	"github.com/RowanDark/xorscope/internal/logging"
	"github.com/RowanDark/xorscope/internal/reporter"
	"github.com/RowanDark/xorscope/internal/xorcrack"
)

func runSingle(args []string) int {
	fs := flag.NewFlagSet("single", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	common := bindAnalysisFlags(fs, cipher.EncodingAuto)
	top := fs.Int("top", 5, "number of ranked key candidates to report")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *top < 1 {
		fmt.Fprintln(os.Stderr, "--top must be at least 1")
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "single requires exactly one input file (use - for stdin)")
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

	ranked := scorer.RankKeys(ciphertext)
	if len(ranked) == 0 {
		return s.fail("single-byte key", xorcrack.ErrNoCandidate)
	}
	best := ranked[0]

	s.emit(logging.EventKeyRecovered, logging.OutcomeComplete, map[string]any{
		"key_byte":   int(best.Key),
		"score":      best.Score,
		"candidates": len(ranked),
	})
	if err := s.output(reporter.FromRankedKeys(input, ranked, *top)); err != nil {
		return s.fail("write report", err)
	}
	return 0
}
