package reporter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// History appends reports to a JSON Lines file so past runs can be listed
// and queried.
type History struct {
	path string
	mu   sync.Mutex
}

// NewHistory returns a history stored at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Append writes r as one JSON line.
func (h *History) Append(r *Report) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if dir := filepath.Dir(h.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode report: %w", err)
	}
	return f.Close()
}

// ReadAll loads every stored report in file order. A missing file yields
// no reports.
func (h *History) ReadAll() ([]*Report, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var out []*Report
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var r Report
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("decode report on line %d: %w", line, err)
		}
		out = append(out, &r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	return out, nil
}

// ReadJSONL reads reports from an arbitrary JSONL file path.
func ReadJSONL(path string) ([]*Report, error) {
	return NewHistory(path).ReadAll()
}
