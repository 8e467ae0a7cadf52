package reporter

import (
	"fmt"
	"strings"
)

// RenderText converts a report into plain terminal output.
func RenderText(r *Report) string {
	var b strings.Builder

	if len(r.KeyLengths) > 0 {
		b.WriteString("key length candidates:\n")
		for i, c := range r.KeyLengths {
			if i == maxAttemptRows {
				fmt.Fprintf(&b, "  ... %d more\n", len(r.KeyLengths)-maxAttemptRows)
				break
			}
			fmt.Fprintf(&b, "  %2d. length=%-3d distance=%.4f\n", i+1, c.Length, c.Score)
		}
	}

	if r.Line != nil {
		fmt.Fprintf(&b, "line: %d\n", *r.Line)
	}
	if r.Key != nil {
		fmt.Fprintf(&b, "key: %q (hex %s, %d bytes)\n", r.Key.Text, r.Key.Hex, r.Key.Length)
		if !r.Key.Complete {
			fmt.Fprintf(&b, "warning: no candidate for key columns %v\n", r.Key.Missing)
		}
		fmt.Fprintf(&b, "score: %.4f\n", r.Score)
	}
	if len(r.Candidates) > 1 {
		b.WriteString("candidates:\n")
		for i, c := range r.Candidates {
			fmt.Fprintf(&b, "  %2d. key=0x%s score=%.4f %q\n", i+1, c.Key, c.Score, preview(c.Plaintext, previewLength))
		}
	}
	if r.Plaintext != "" {
		b.WriteString("plaintext:\n")
		b.WriteString(r.Plaintext)
		if !strings.HasSuffix(r.Plaintext, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

const previewLength = 48

// preview shortens s to at most n runes.
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
