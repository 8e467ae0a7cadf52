package reporter

import (
	"fmt"
	"strings"
	"time"
)

// maxAttemptRows bounds the key-length table in text and markdown output.
const maxAttemptRows = 10

// RenderMarkdown converts a report into a markdown summary.
func RenderMarkdown(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# XOR Analysis Report (%s)\n\n", r.Kind)
	fmt.Fprintf(&b, "- Report: `%s`\n", r.ID)
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Input: %s (%s, %d bytes, `%s`)\n\n", markdownCell(r.Input.Source), r.Input.Encoding, r.Input.Length, r.Input.Digest)

	if r.Key != nil {
		b.WriteString("## Key\n\n")
		fmt.Fprintf(&b, "- Hex: `%s`\n", r.Key.Hex)
		fmt.Fprintf(&b, "- Text: `%s`\n", r.Key.Text)
		fmt.Fprintf(&b, "- Length: %d\n", r.Key.Length)
		if r.Key.Complete {
			b.WriteString("- Complete: yes\n")
		} else {
			fmt.Fprintf(&b, "- Complete: no (unresolved columns %v)\n", r.Key.Missing)
		}
		if r.Line != nil {
			fmt.Fprintf(&b, "- Line: %d\n", *r.Line)
		}
		fmt.Fprintf(&b, "- Score: %.4f\n\n", r.Score)
	}

	if len(r.KeyLengths) > 0 {
		b.WriteString("## Key Length Candidates\n\n")
		b.WriteString("| Rank | Length | Normalized Distance | Pairs |\n")
		b.WriteString("| ---: | ---: | ---: | ---: |\n")
		for i, c := range r.KeyLengths {
			if i == maxAttemptRows {
				break
			}
			fmt.Fprintf(&b, "| %d | %d | %.4f | %d |\n", i+1, c.Length, c.Score, c.Pairs)
		}
		b.WriteString("\n")
	}

	if len(r.Attempts) > 0 {
		b.WriteString("## Attempts\n\n")
		b.WriteString("| Key Length | Key (hex) | Score | Complete |\n")
		b.WriteString("| ---: | --- | ---: | --- |\n")
		for _, a := range r.Attempts {
			fmt.Fprintf(&b, "| %d | `%s` | %.4f | %t |\n", a.KeyLength, a.Key, a.Score, a.Complete)
		}
		b.WriteString("\n")
	}

	if len(r.Candidates) > 0 {
		b.WriteString("## Candidates\n\n")
		b.WriteString("| Rank | Key (hex) | Score | Plaintext |\n")
		b.WriteString("| ---: | --- | ---: | --- |\n")
		for i, c := range r.Candidates {
			fmt.Fprintf(&b, "| %d | `%s` | %.4f | %s |\n", i+1, c.Key, c.Score, markdownCell(preview(c.Plaintext, previewLength)))
		}
		b.WriteString("\n")
	}

	if r.Plaintext != "" {
		b.WriteString("## Plaintext\n\n```\n")
		b.WriteString(strings.TrimRight(r.Plaintext, "\n"))
		b.WriteString("\n```\n")
	}
	return b.String()
}

func markdownCell(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "(stdin)"
	}
	trimmed = strings.ReplaceAll(trimmed, "\n", " ")
	trimmed = strings.ReplaceAll(trimmed, "\r", " ")
	trimmed = strings.ReplaceAll(trimmed, "|", "\\|")
	return trimmed
}
