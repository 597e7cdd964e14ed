package batch

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/glotscan/glot/internal/classifier"
	"github.com/glotscan/glot/internal/common"
)

// Config holds all configuration for batch classification.
type Config struct {
	// Model selection
	ModelPath string
	ModelsDir string

	// Output settings
	Format     string
	OutputFile string
	Rank       bool

	// Parallel processing settings
	Workers         int
	ContinueOnError bool

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string
	MaxFileBytes    int64

	// Progress settings
	ShowProgress     bool
	Quiet            bool
	ShowStats        bool
	ProgressInterval time.Duration
}

// FileResult holds the classification outcome for a single file.
type FileResult struct {
	Path       string              `json:"file"`
	Language   classifier.Language `json:"language,omitempty"`
	Name       string              `json:"name,omitempty"`
	Confidence float64             `json:"confidence"`
	Scores     []classifier.Score  `json:"scores,omitempty"`
	Error      string              `json:"error,omitempty"`
	DurationMs int64               `json:"duration_ms"`
}

// Result holds the result of a batch run.
type Result struct {
	Results     []FileResult
	Duration    time.Duration
	WorkerCount int
}

// Stats returns throughput statistics for the run.
func (r *Result) Stats() common.ProcessingStats {
	processed, failed := 0, 0
	for _, fr := range r.Results {
		if fr.Error == "" {
			processed++
		} else {
			failed++
		}
	}
	return common.CalculateProcessingStats(processed, failed, r.WorkerCount, r.Duration)
}

// FormatResults formats the batch results in the specified format.
func (r *Result) FormatResults(format string) (string, error) {
	return formatBatchResults(r.Results, format)
}

// SaveResults writes the formatted results to a file, or to out when no
// output file is configured.
func (r *Result) SaveResults(out io.Writer, format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !quiet {
			_, _ = fmt.Fprintf(out, "Results written to %s\n", outputFile)
		}
	} else {
		_, _ = fmt.Fprint(out, output)
	}

	return nil
}

// PrintStats prints processing statistics.
func (r *Result) PrintStats(out io.Writer, quiet bool) {
	if quiet {
		return
	}
	stats := r.Stats()
	_, _ = fmt.Fprintf(out, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(out, "  Total files: %d\n", stats.TotalItems)
	_, _ = fmt.Fprintf(out, "  Classified: %d\n", stats.ProcessedItems)
	_, _ = fmt.Fprintf(out, "  Failed: %d\n", stats.FailedItems)
	_, _ = fmt.Fprintf(out, "  Workers: %d\n", stats.WorkerCount)
	_, _ = fmt.Fprintf(out, "  Duration: %v\n", stats.TotalDuration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(out, "  Avg per file: %v\n", stats.AveragePerItem.Round(time.Millisecond))
	_, _ = fmt.Fprintf(out, "  Throughput: %.1f files/sec\n", stats.ThroughputPerSec)

	// Language histogram
	histogram := make(map[classifier.Language]int)
	for _, fr := range r.Results {
		if fr.Error == "" {
			histogram[fr.Language]++
		}
	}
	if len(histogram) > 0 {
		_, _ = fmt.Fprintf(out, "  Languages:\n")
		for _, lang := range classifier.Supported() {
			if n := histogram[lang]; n > 0 {
				_, _ = fmt.Fprintf(out, "    %-6s %d\n", lang, n)
			}
		}
	}
}
