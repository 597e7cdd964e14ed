package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glotscan/glot/internal/batch"
)

// batchCmd represents the batch command.
var batchCmd = &cobra.Command{
	Use:   "batch <files-or-directories...>",
	Short: "Classify many source files in parallel",
	Long: `Classify all source files in the given files and directories using a
parallel worker pool, and print per-file results.

Binary files are skipped automatically; include and exclude patterns
match against file base names.

Examples:
  glot batch ./src
  glot batch ./src --recursive --workers 8
  glot batch ./src --include '*.go' --exclude '*_test.go'
  glot batch ./src --format csv --output results.csv
  glot batch ./src --rank --stats`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		config := &batch.Config{
			ModelsDir: cfg.ModelsDir,
			ModelPath: cfg.Classifier.ModelPath,

			Format:     cfg.Output.Format,
			OutputFile: cfg.Output.File,

			Workers:          cfg.Batch.Workers,
			Recursive:        cfg.Batch.Recursive,
			ContinueOnError:  cfg.Batch.ContinueOnError,
			IncludePatterns:  cfg.Batch.IncludePatterns,
			ExcludePatterns:  cfg.Batch.ExcludePatterns,
			MaxFileBytes:     int64(cfg.Batch.MaxFileSizeKB) * 1024,
			ProgressInterval: cfg.Batch.ProgressInterval,
		}

		// CLI flags override config file and environment values.
		if cmd.Flags().Changed("model") {
			config.ModelPath, _ = cmd.Flags().GetString("model")
		}
		if cmd.Flags().Changed("format") {
			config.Format, _ = cmd.Flags().GetString("format")
		}
		if cmd.Flags().Changed("output") {
			config.OutputFile, _ = cmd.Flags().GetString("output")
		}
		if cmd.Flags().Changed("workers") {
			config.Workers, _ = cmd.Flags().GetInt("workers")
		}
		if cmd.Flags().Changed("recursive") {
			config.Recursive, _ = cmd.Flags().GetBool("recursive")
		}
		if cmd.Flags().Changed("continue-on-error") {
			config.ContinueOnError, _ = cmd.Flags().GetBool("continue-on-error")
		}
		if cmd.Flags().Changed("include") {
			config.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
		}
		if cmd.Flags().Changed("exclude") {
			config.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
		}
		if cmd.Flags().Changed("max-file-size") {
			maxKB, _ := cmd.Flags().GetInt("max-file-size")
			config.MaxFileBytes = int64(maxKB) * 1024
		}

		config.Rank, _ = cmd.Flags().GetBool("rank")
		config.Quiet, _ = cmd.Flags().GetBool("quiet")
		config.ShowStats, _ = cmd.Flags().GetBool("stats")
		noProgress, _ := cmd.Flags().GetBool("no-progress")
		config.ShowProgress = !noProgress

		// Cancel the pool cleanly on interrupt.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		result, err := batch.ProcessBatch(ctx, args, config)
		if err != nil {
			return err
		}

		if err := result.SaveResults(cmd.OutOrStdout(), config.Format, config.OutputFile, config.Quiet); err != nil {
			return err
		}

		if config.ShowStats {
			result.PrintStats(cmd.OutOrStdout(), config.Quiet)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringP("model", "m", "", "model table file (default: embedded model)")
	batchCmd.Flags().StringP("format", "f", "text", "output format (text, json, csv)")
	batchCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	batchCmd.Flags().IntP("workers", "w", 0, "number of parallel workers (0 = number of CPUs)")
	batchCmd.Flags().BoolP("recursive", "r", false, "recurse into subdirectories")
	batchCmd.Flags().Bool("continue-on-error", false, "keep processing when individual files fail")
	batchCmd.Flags().StringSlice("include", nil, "glob patterns of files to include (e.g. '*.go')")
	batchCmd.Flags().StringSlice("exclude", nil, "glob patterns of files to exclude (e.g. '*_test.go')")
	batchCmd.Flags().Int("max-file-size", 0, "skip files larger than this size in KB (0 = no limit)")
	batchCmd.Flags().Bool("rank", false, "include confidence scores for all languages")
	batchCmd.Flags().BoolP("quiet", "q", false, "suppress progress and statistics output")
	batchCmd.Flags().Bool("stats", false, "print processing statistics")
	batchCmd.Flags().Bool("no-progress", false, "disable the progress bar")
}
