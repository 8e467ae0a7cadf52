package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RowanDark/xorscope/internal/reporter"
)

func TestLoadPrecedence(t *testing.T) {
	tempDir := t.TempDir()

	homeDir := filepath.Join(tempDir, "home")
	if err := os.MkdirAll(filepath.Join(homeDir, ".xorscope"), 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	homeConfig := []byte(`alphabet: letters
max_key_length: 30
candidates: 5
tracing:
  file: /tmp/home-spans.jsonl
`)
	if err := os.WriteFile(filepath.Join(homeDir, ".xorscope", "config.yaml"), homeConfig, 0o644); err != nil {
		t.Fatalf("write home config: %v", err)
	}

	// A local file overrides the home file.
	workDir := filepath.Join(tempDir, "work")
	if err := os.Mkdir(workDir, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	localConfig := []byte(`max_key_length: 24
format: json
tracing:
  sample_ratio: 0.5
`)
	if err := os.WriteFile(filepath.Join(workDir, "xorscope.yml"), localConfig, 0o644); err != nil {
		t.Fatalf("write local config: %v", err)
	}

	// Env overrides beat file configuration.
	t.Setenv("XORSCOPE_CANDIDATES", "7")
	t.Setenv("XORSCOPE_KEYSPACE", "printable")

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	defer func() {
		_ = os.Chdir(cwd)
	}()
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Alphabet != "letters" {
		t.Fatalf("expected home alphabet, got %s", cfg.Alphabet)
	}
	if cfg.MaxKeyLength != 24 {
		t.Fatalf("expected local max key length, got %d", cfg.MaxKeyLength)
	}
	if cfg.Candidates != 7 {
		t.Fatalf("expected env candidates, got %d", cfg.Candidates)
	}
	if cfg.Keyspace != "printable" {
		t.Fatalf("expected env keyspace, got %s", cfg.Keyspace)
	}
	if cfg.Format != reporter.FormatJSON {
		t.Fatalf("expected local format, got %s", cfg.Format)
	}
	if cfg.Tracing.FilePath != "/tmp/home-spans.jsonl" || cfg.Tracing.SampleRatio != 0.5 {
		t.Fatalf("expected merged tracing config, got %+v", cfg.Tracing)
	}
	if cfg.MinKeyLength != Default().MinKeyLength {
		t.Fatalf("expected default min key length, got %d", cfg.MinKeyLength)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	defaults := Default()
	if cfg != defaults {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		homeDir := t.TempDir()
		t.Setenv("HOME", homeDir)
		if err := os.MkdirAll(filepath.Join(homeDir, ".xorscope"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		bad := []byte("max_key_length: [not, a, number]\n")
		if err := os.WriteFile(filepath.Join(homeDir, ".xorscope", "config.yaml"), bad, 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(); err == nil {
			t.Fatal("expected parse error")
		}
	})

	t.Run("non-numeric env", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("XORSCOPE_MAX_KEYLEN", "many")
		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "XORSCOPE_MAX_KEYLEN") {
			t.Fatalf("expected env error, got %v", err)
		}
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("corpus: ./alice.txt\nlog_level: debug\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := LoadFile(&cfg, path); err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cfg.Corpus != "./alice.txt" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	if err := LoadFile(&cfg, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"alphabet", func(c *Config) { c.Alphabet = "runes" }},
		{"keyspace", func(c *Config) { c.Keyspace = "ascii" }},
		{"format", func(c *Config) { c.Format = "xml" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"min key length", func(c *Config) { c.MinKeyLength = 0 }},
		{"inverted range", func(c *Config) { c.MinKeyLength, c.MaxKeyLength = 10, 5 }},
		{"candidates", func(c *Config) { c.Candidates = 0 }},
		{"sample ratio", func(c *Config) { c.Tracing.SampleRatio = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %+v", cfg)
			}
		})
	}
}

func TestValidateFollowsParsers(t *testing.T) {
	tests := []struct {
		name     string
		alphabet string
		keyspace string
		format   string
	}{
		{"empty selects defaults", "", "", ""},
		{"mixed case", "LETTERS", "Printable", "YAML"},
		{"padded", " bytes ", " full ", " json "},
		{"markdown alias", "bytes", "full", "md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Alphabet, cfg.Keyspace, cfg.Format = tt.alphabet, tt.keyspace, tt.format
			if err := cfg.Validate(); err != nil {
				t.Fatalf("expected %q/%q/%q to validate: %v", tt.alphabet, tt.keyspace, tt.format, err)
			}
		})
	}
}
