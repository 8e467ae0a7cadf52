package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/RowanDark/xorscope/internal/cipher"
	"github.com/RowanDark/xorscope/internal/logging"
	"github.com/RowanDark/xorscope/internal/reporter"
	"github.com/RowanDark/xorscope/internal/xorcrack"
)

func runDetect(args []string) int {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	common := bindAnalysisFlags(fs, cipher.EncodingHex)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "detect requires exactly one input file (use - for stdin)")
		return 2
	}

	ctx := context.Background()
	s, err := openSession(ctx, common)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}
	defer s.close(ctx)

	raw, err := readSource(fs.Arg(0))
	if err != nil {
		return s.fail("read input", err)
	}

	// lineNumbers maps decoded lines back to 1-based file lines.
	var (
		lines       [][]byte
		lineNumbers []int
	)
	for i, line := range bytes.Split(raw, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		decoded, _, err := cipher.DecodeInput(ctx, line, common.encoding)
		if err != nil {
			return s.fail("decode input", fmt.Errorf("line %d: %w", i+1, err))
		}
		lines = append(lines, decoded)
		lineNumbers = append(lineNumbers, i+1)
	}
	s.emit(logging.EventInputDecoded, logging.OutcomeInfo, map[string]any{
		"source":   sourceName(fs.Arg(0)),
		"encoding": common.encoding,
		"lines":    len(lines),
	})

	scorer, err := s.scorer()
	if err != nil {
		return s.fail("load reference", err)
	}
	best, ok := scorer.DetectLine(lines)
	if !ok {
		return s.fail("detect line", xorcrack.ErrNoCandidate)
	}
	best.Line = lineNumbers[best.Line]

	s.emit(logging.EventLineDetected, logging.OutcomeComplete, map[string]any{
		"line":     best.Line,
		"key_byte": int(best.Key),
		"score":    best.Score,
	})
	s.logger.Info("line detected", "line", best.Line, "score", best.Score)

	input := reporter.NewInput(sourceName(fs.Arg(0)), common.encoding, raw)
	if err := s.output(reporter.FromLine(input, best)); err != nil {
		return s.fail("write report", err)
	}
	return 0
}
