package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
)

// formatBatchResults renders batch results as json, csv, or text.
func formatBatchResults(results []FileResult, format string) (string, error) {
	switch format {
	case "json":
		return formatResultsJSON(results)
	case "csv":
		return formatResultsCSV(results)
	case "text", "":
		return formatResultsText(results), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

func formatResultsJSON(results []FileResult) (string, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}
	return string(data) + "\n", nil
}

func formatResultsCSV(results []FileResult) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write([]string{"file", "language", "name", "confidence", "duration_ms", "error"}); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		record := []string{
			r.Path,
			string(r.Language),
			r.Name,
			fmt.Sprintf("%.3f", r.Confidence),
			fmt.Sprintf("%d", r.DurationMs),
			r.Error,
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return b.String(), nil
}

func formatResultsText(results []FileResult) string {
	var b strings.Builder
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(&b, "%s: error: %s\n", r.Path, r.Error)
			continue
		}
		fmt.Fprintf(&b, "%s: %s (%.1f%%)\n", r.Path, r.Language, r.Confidence*100)
		for _, s := range r.Scores {
			fmt.Fprintf(&b, "  %-8s %.3f\n", s.Language, s.Confidence)
		}
	}
	return b.String()
}
