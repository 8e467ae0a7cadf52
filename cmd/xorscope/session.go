package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/RowanDark/xorscope/internal/cipher"
	"github.com/RowanDark/xorscope/internal/config"
	"github.com/RowanDark/xorscope/internal/corpus"
	"github.com/RowanDark/xorscope/internal/freq"
	"github.com/RowanDark/xorscope/internal/logging"
	"github.com/RowanDark/xorscope/internal/observability/tracing"
	"github.com/RowanDark/xorscope/internal/reporter"
	"github.com/RowanDark/xorscope/internal/xorcrack"
)

// analysisFlags are shared by the commands that analyse ciphertext. Empty
// values and zero integers fall back to the resolved configuration.
type analysisFlags struct {
	configPath string
	corpus     string
	alphabet   string
	keyspace   string
	encoding   string
	format     string
	query      string
	save       string
	auditLog   string
	redact     bool
	traceFile  string
	logLevel   string

	minKeyLength int
	maxKeyLength int
	candidates   int
}

func bindAnalysisFlags(fs *flag.FlagSet, defaultEncoding string) *analysisFlags {
	f := &analysisFlags{}
	fs.StringVar(&f.configPath, "config", "", "additional YAML config file applied after the default locations")
	fs.StringVar(&f.corpus, "corpus", "", "reference corpus file (default: built-in English)")
	fs.StringVar(&f.alphabet, "alphabet", "", "frequency alphabet: bytes or letters")
	fs.StringVar(&f.keyspace, "keyspace", "", "candidate key bytes: full or printable")
	fs.StringVar(&f.encoding, "encoding", defaultEncoding, "input encoding: auto, hex, base64 or raw")
	fs.StringVar(&f.format, "format", "", "output format: text, json, yaml, markdown or csv")
	fs.StringVar(&f.query, "query", "", "print a single field of the JSON report (gjson path, e.g. key.hex)")
	fs.StringVar(&f.save, "save", "", "append the report to this JSON Lines history file")
	fs.StringVar(&f.auditLog, "audit-log", "", "append audit events to this file (- for stderr)")
	fs.BoolVar(&f.redact, "redact", false, "mask recovered keys and plaintext in audit events")
	fs.StringVar(&f.traceFile, "trace-file", "", "write trace spans as JSON lines to this file")
	fs.StringVar(&f.logLevel, "log-level", "", "diagnostic log level: debug, info, warn or error")
	return f
}

func bindRangeFlags(fs *flag.FlagSet, f *analysisFlags) {
	fs.IntVar(&f.minKeyLength, "min", 0, "smallest key length to consider (default from config)")
	fs.IntVar(&f.maxKeyLength, "max", 0, "largest key length to consider (default from config)")
}

func (f *analysisFlags) apply(cfg *config.Config) {
	override := func(dst *string, val string) {
		if v := strings.TrimSpace(val); v != "" {
			*dst = v
		}
	}
	override(&cfg.Corpus, f.corpus)
	override(&cfg.Alphabet, f.alphabet)
	override(&cfg.Keyspace, f.keyspace)
	override(&cfg.Format, f.format)
	override(&cfg.AuditLog, f.auditLog)
	override(&cfg.History, f.save)
	override(&cfg.Tracing.FilePath, f.traceFile)
	override(&cfg.LogLevel, f.logLevel)
	if f.minKeyLength != 0 {
		cfg.MinKeyLength = f.minKeyLength
	}
	if f.maxKeyLength != 0 {
		cfg.MaxKeyLength = f.maxKeyLength
	}
	if f.candidates != 0 {
		cfg.Candidates = f.candidates
	}
}

// usageError marks failures caused by bad flags or configuration.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

// session holds the per-invocation configuration, loggers and tracer.
type session struct {
	cfg      config.Config
	flags    *analysisFlags
	logger   *slog.Logger
	audit    *logging.AuditLogger
	shutdown func(context.Context) error
}

func openSession(ctx context.Context, f *analysisFlags) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, usageError{fmt.Errorf("load config: %w", err)}
	}
	if path := strings.TrimSpace(f.configPath); path != "" {
		if err := config.LoadFile(&cfg, path); err != nil {
			return nil, usageError{err}
		}
	}
	f.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, usageError{fmt.Errorf("invalid configuration: %w", err)}
	}
	encoding, err := cipher.ParseEncoding(f.encoding)
	if err != nil {
		return nil, usageError{err}
	}
	f.encoding = encoding

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, usageError{err}
	}
	s := &session{
		cfg:    cfg,
		flags:  f,
		logger: logging.NewLogger(os.Stderr, level, false),
	}

	if path := cfg.AuditLog; path != "" {
		opts := []logging.Option{logging.WithoutStdout(), logging.WithFile(path)}
		if path == "-" {
			opts = []logging.Option{logging.WithoutStdout(), logging.WithWriter(os.Stderr)}
		}
		if f.redact {
			opts = append(opts, logging.WithRedactedSecrets())
		}
		audit, err := logging.NewAuditLogger(productName, opts...)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		s.audit = audit
	}

	if path := cfg.Tracing.FilePath; path != "" {
		shutdown, err := tracing.Setup(ctx, tracing.Config{
			ServiceName: productName,
			SampleRatio: cfg.Tracing.SampleRatio,
			FilePath:    path,
		})
		if err != nil {
			_ = s.audit.Close()
			return nil, fmt.Errorf("setup tracing: %w", err)
		}
		s.shutdown = shutdown
	}

	s.logger.Debug("configuration resolved",
		"alphabet", cfg.Alphabet,
		"keyspace", cfg.Keyspace,
		"min_key_length", cfg.MinKeyLength,
		"max_key_length", cfg.MaxKeyLength,
		"candidates", cfg.Candidates,
	)
	return s, nil
}

func (s *session) close(ctx context.Context) {
	if s.shutdown != nil {
		if err := s.shutdown(ctx); err != nil {
			s.logger.Warn("flush traces", "error", err)
		}
	}
	if err := s.audit.Close(); err != nil {
		s.logger.Warn("close audit log", "error", err)
	}
}

func (s *session) emit(eventType logging.EventType, outcome logging.Outcome, metadata map[string]any) {
	s.emitTo(s.audit, eventType, outcome, metadata)
}

func (s *session) emitTo(audit *logging.AuditLogger, eventType logging.EventType, outcome logging.Outcome, metadata map[string]any) {
	if audit == nil {
		return
	}
	event := logging.AuditEvent{EventType: eventType, Outcome: outcome, Metadata: metadata}
	if err := audit.Emit(event); err != nil {
		s.logger.Warn("write audit event", "event", eventType, "error", err)
	}
}

func (s *session) fail(stage string, err error) int {
	s.emit(logging.EventRunFailed, logging.OutcomeFailed, map[string]any{"stage": stage, "error": err.Error()})
	fmt.Fprintf(os.Stderr, "%s: %v\n", stage, err)
	return exitCode(err)
}

// scorer builds the plaintext scorer from the configured corpus.
func (s *session) scorer() (*xorcrack.Scorer, error) {
	alphabet, err := freq.ParseAlphabet(s.cfg.Alphabet)
	if err != nil {
		return nil, usageError{err}
	}
	keyspace, err := xorcrack.ParseKeyspace(s.cfg.Keyspace)
	if err != nil {
		return nil, usageError{err}
	}
	ref, err := corpus.Reference(s.cfg.Corpus, alphabet)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("reference model loaded",
		"corpus", s.cfg.Corpus,
		"alphabet", alphabet,
		"top_symbols", topSymbols(ref, 5),
	)
	return xorcrack.NewScorer(ref, keyspace), nil
}

// readInput loads and decodes the ciphertext named by path ("-" is stdin).
func (s *session) readInput(ctx context.Context, path string) ([]byte, reporter.Input, error) {
	raw, err := readSource(path)
	if err != nil {
		return nil, reporter.Input{}, err
	}
	data, encoding, err := cipher.DecodeInput(ctx, raw, s.flags.encoding)
	if err != nil {
		return nil, reporter.Input{}, fmt.Errorf("decode %s: %w", sourceName(path), err)
	}
	input := reporter.NewInput(sourceName(path), encoding, data)
	s.emit(logging.EventInputDecoded, logging.OutcomeInfo, map[string]any{
		"source":   input.Source,
		"encoding": encoding,
		"bytes":    len(data),
		"digest":   input.Digest,
	})
	s.logger.Info("input decoded", "source", input.Source, "encoding", encoding, "bytes", len(data))
	return data, input, nil
}

// output saves and prints a report according to the session settings.
func (s *session) output(r *reporter.Report) error {
	r.RunID = s.audit.RunID()

	if path := s.cfg.History; path != "" {
		if err := reporter.NewHistory(path).Append(r); err != nil {
			return err
		}
		s.logger.Debug("report saved", "path", path, "id", r.ID)
	}

	if path := strings.TrimSpace(s.flags.query); path != "" {
		value, ok, err := reporter.Query(r, path)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no value at %q", path)
		}
		fmt.Println(value)
		return nil
	}
	return reporter.Write(os.Stdout, r, s.cfg.Format)
}

func readSource(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func sourceName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

// topSymbols lists the heaviest symbols of m, e.g. "' ' 'e' 't'".
func topSymbols(m freq.Model, n int) string {
	var parts []string
	for _, sym := range m.Top(n) {
		parts = append(parts, strconv.QuoteRune(rune(sym.Value)))
	}
	return strings.Join(parts, " ")
}

// parseByte accepts decimal, hex (0x..), octal (0o..) or binary (0b..).
func parseByte(s string) (byte, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q: %w", s, err)
	}
	return byte(n), nil
}
