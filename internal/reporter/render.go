package reporter

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// Output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// Formats lists every supported output format.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML, FormatMarkdown, FormatCSV}
}

// ParseFormat resolves a format name. An empty name selects text and "md" is
// accepted for markdown.
func ParseFormat(name string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(name))
	switch format {
	case "":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	}
	if slices.Contains(Formats(), format) {
		return format, nil
	}
	return "", fmt.Errorf("unsupported format %q (want %s)", name, strings.Join(Formats(), ", "))
}

// Render serialises r in the named format.
func Render(r *Report, format string) ([]byte, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return RenderJSON(r)
	case FormatYAML:
		return RenderYAML(r)
	case FormatMarkdown:
		return []byte(RenderMarkdown(r)), nil
	case FormatCSV:
		return RenderCSV(r)
	default:
		return []byte(RenderText(r)), nil
	}
}

// Write renders r to w.
func Write(w io.Writer, r *Report, format string) error {
	data, err := Render(r, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Query evaluates a gjson path against the JSON form of r, e.g. "key.hex"
// or "key_lengths.0.length". It reports false when the path matches nothing.
func Query(r *Report, path string) (string, bool, error) {
	data, err := RenderJSON(r)
	if err != nil {
		return "", false, err
	}
	return QueryJSON(data, path)
}

// QueryJSON evaluates a gjson path against an arbitrary JSON document.
func QueryJSON(doc []byte, path string) (string, bool, error) {
	if !gjson.ValidBytes(doc) {
		return "", false, fmt.Errorf("invalid JSON document")
	}
	result := gjson.GetBytes(doc, path)
	if !result.Exists() {
		return "", false, nil
	}
	return result.String(), true, nil
}
