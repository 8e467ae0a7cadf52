package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/RowanDark/xorscope/internal/cipher"
	"github.com/RowanDark/xorscope/internal/logging"
	"github.com/RowanDark/xorscope/internal/observability/tracing"
	"github.com/RowanDark/xorscope/internal/reporter"
	"github.com/RowanDark/xorscope/internal/xorcrack"
)

func runRank(args []string) int {
	fs := flag.NewFlagSet("rank", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	common := bindAnalysisFlags(fs, cipher.EncodingAuto)
	bindRangeFlags(fs, common)
	top := fs.Int("top", 0, "only report the N best key lengths (0 for all)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "rank requires exactly one input file (use - for stdin)")
		return 2
	}
	if *top < 0 {
		fmt.Fprintln(os.Stderr, "--top must not be negative")
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

	_, span := tracing.StartSpan(ctx, "xorcrack.rank_key_lengths", map[string]any{
		"min_length": s.cfg.MinKeyLength,
		"max_length": s.cfg.MaxKeyLength,
	})
	ranked := xorcrack.RankKeyLengths(ciphertext, s.cfg.MinKeyLength, s.cfg.MaxKeyLength)
	span.SetAttribute("candidates", len(ranked))
	span.End()

	if len(ranked) == 0 {
		return s.fail("rank key lengths", fmt.Errorf("ciphertext of %d bytes is too short for key lengths %d-%d", len(ciphertext), s.cfg.MinKeyLength, s.cfg.MaxKeyLength))
	}
	if *top > 0 && *top < len(ranked) {
		ranked = ranked[:*top]
	}

	s.emit(logging.EventKeyLengthsRanked, logging.OutcomeInfo, map[string]any{
		"candidates": len(ranked),
		"best":       ranked[0].Length,
		"distance":   ranked[0].Score,
	})

	if err := s.output(reporter.FromRanking(input, ranked)); err != nil {
		return s.fail("write report", err)
	}
	return 0
}
