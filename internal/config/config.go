package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RowanDark/xorscope/internal/freq"
	"github.com/RowanDark/xorscope/internal/reporter"
	"github.com/RowanDark/xorscope/internal/xorcrack"
)

// Config captures the xorscope configuration resolved from defaults, optional
// files, and environment overrides. An empty Corpus selects the built-in
// English corpus; History names a JSON Lines file that reports are appended
// to.
type Config struct {
	Corpus       string        `yaml:"corpus"`
	Alphabet     string        `yaml:"alphabet"`
	Keyspace     string        `yaml:"keyspace"`
	MinKeyLength int           `yaml:"min_key_length"`
	MaxKeyLength int           `yaml:"max_key_length"`
	Candidates   int           `yaml:"candidates"`
	Format       string        `yaml:"format"`
	LogLevel     string        `yaml:"log_level"`
	AuditLog     string        `yaml:"audit_log"`
	History      string        `yaml:"history"`
	Tracing      TracingConfig `yaml:"tracing"`
}

// TracingConfig controls span export.
type TracingConfig struct {
	FilePath    string  `yaml:"file"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Corpus:       "",
		Alphabet:     "bytes",
		Keyspace:     "full",
		MinKeyLength: 2,
		MaxKeyLength: 40,
		Candidates:   3,
		Format:       reporter.FormatText,
		LogLevel:     "warn",
		AuditLog:     "",
		History:      "",
		Tracing: TracingConfig{
			FilePath:    "",
			SampleRatio: 1,
		},
	}
}

// Load resolves the configuration using defaults, configuration files, and
// environment overrides. Files are applied in order, later wins:
//  1. ~/.xorscope/config.yaml
//  2. ./xorscope.yml
//
// Environment variables prefixed with XORSCOPE_ have the highest precedence.
func Load() (Config, error) {
	cfg := Default()

	if err := loadHomeConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLocalConfig(&cfg); err != nil {
		return Config{}, err
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadHomeConfig(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("determine home directory: %w", err)
	}
	return applyFile(cfg, filepath.Join(home, ".xorscope", "config.yaml"))
}

func loadLocalConfig(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	return applyFile(cfg, filepath.Join(wd, "xorscope.yml"))
}

// LoadFile applies a single YAML file on top of cfg. It is used for the
// --config flag.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// fileConfig uses pointers so absent keys leave earlier layers untouched.
type fileConfig struct {
	Corpus       *string            `yaml:"corpus"`
	Alphabet     *string            `yaml:"alphabet"`
	Keyspace     *string            `yaml:"keyspace"`
	MinKeyLength *int               `yaml:"min_key_length"`
	MaxKeyLength *int               `yaml:"max_key_length"`
	Candidates   *int               `yaml:"candidates"`
	Format       *string            `yaml:"format"`
	LogLevel     *string            `yaml:"log_level"`
	AuditLog     *string            `yaml:"audit_log"`
	History      *string            `yaml:"history"`
	Tracing      *fileTracingConfig `yaml:"tracing"`
}

type fileTracingConfig struct {
	FilePath    *string  `yaml:"file"`
	SampleRatio *float64 `yaml:"sample_ratio"`
}

func applyFileConfig(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	setString(&cfg.Corpus, fc.Corpus)
	setString(&cfg.Alphabet, fc.Alphabet)
	setString(&cfg.Keyspace, fc.Keyspace)
	setString(&cfg.Format, fc.Format)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.AuditLog, fc.AuditLog)
	setString(&cfg.History, fc.History)
	if fc.MinKeyLength != nil {
		cfg.MinKeyLength = *fc.MinKeyLength
	}
	if fc.MaxKeyLength != nil {
		cfg.MaxKeyLength = *fc.MaxKeyLength
	}
	if fc.Candidates != nil {
		cfg.Candidates = *fc.Candidates
	}
	if fc.Tracing != nil {
		setString(&cfg.Tracing.FilePath, fc.Tracing.FilePath)
		if fc.Tracing.SampleRatio != nil {
			cfg.Tracing.SampleRatio = *fc.Tracing.SampleRatio
		}
	}
	return nil
}

func setString(dst *string, val *string) {
	if val != nil {
		*dst = strings.TrimSpace(*val)
	}
}

func applyEnvOverrides(cfg *Config) error {
	if val := env("XORSCOPE_CORPUS"); val != "" {
		cfg.Corpus = val
	}
	if val := env("XORSCOPE_ALPHABET"); val != "" {
		cfg.Alphabet = val
	}
	if val := env("XORSCOPE_KEYSPACE"); val != "" {
		cfg.Keyspace = val
	}
	if val := env("XORSCOPE_FORMAT"); val != "" {
		cfg.Format = val
	}
	if val := env("XORSCOPE_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}
	if val := env("XORSCOPE_AUDIT_LOG"); val != "" {
		cfg.AuditLog = val
	}
	if val := env("XORSCOPE_HISTORY"); val != "" {
		cfg.History = val
	}
	if val := env("XORSCOPE_TRACE_FILE"); val != "" {
		cfg.Tracing.FilePath = val
	}

	for name, dst := range map[string]*int{
		"XORSCOPE_MIN_KEYLEN": &cfg.MinKeyLength,
		"XORSCOPE_MAX_KEYLEN": &cfg.MaxKeyLength,
		"XORSCOPE_CANDIDATES": &cfg.Candidates,
	} {
		val := env(name)
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = n
	}

	if val := env("XORSCOPE_TRACE_SAMPLE_RATIO"); val != "" {
		ratio, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("XORSCOPE_TRACE_SAMPLE_RATIO: %w", err)
		}
		cfg.Tracing.SampleRatio = ratio
	}
	return nil
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if _, err := freq.ParseAlphabet(c.Alphabet); err != nil {
		return fmt.Errorf("%w (want bytes or letters)", err)
	}
	if _, err := xorcrack.ParseKeyspace(c.Keyspace); err != nil {
		return fmt.Errorf("%w (want full or printable)", err)
	}
	if _, err := reporter.ParseFormat(c.Format); err != nil {
		return err
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.MinKeyLength < 1 {
		return fmt.Errorf("min_key_length must be at least 1, got %d", c.MinKeyLength)
	}
	if c.MaxKeyLength < c.MinKeyLength {
		return fmt.Errorf("max_key_length %d is below min_key_length %d", c.MaxKeyLength, c.MinKeyLength)
	}
	if c.Candidates < 1 {
		return fmt.Errorf("candidates must be at least 1, got %d", c.Candidates)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing sample_ratio must be within [0,1], got %v", c.Tracing.SampleRatio)
	}
	return nil
}
