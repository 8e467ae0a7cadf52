package reporter

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// RenderCSV exports the key-length candidates of a report, followed by the
// recovered key as comment lines.
func RenderCSV(r *Report) ([]byte, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Rank", "Key Length", "Normalized Distance", "Pairs"}); err != nil {
		return nil, fmt.Errorf("write CSV header: %w", err)
	}
	for i, c := range r.KeyLengths {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(c.Length),
			strconv.FormatFloat(c.Score, 'f', 6, 64),
			strconv.Itoa(c.Pairs),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush CSV: %w", err)
	}

	if r.Key != nil {
		fmt.Fprintf(&buf, "\n# Key: %s\n", r.Key.Hex)
		fmt.Fprintf(&buf, "# Complete: %t\n", r.Key.Complete)
		fmt.Fprintf(&buf, "# Score: %.6f\n", r.Score)
	}
	return []byte(buf.String()), nil
}
