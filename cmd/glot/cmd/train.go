package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/glotscan/glot/internal/trainer"
)

// trainCmd represents the train command.
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a model table from a labeled snippet corpus",
	Long: `Train a classifier model table from a labeled corpus directory.

The corpus is laid out with one subdirectory per language tag, each
containing sample source files:

  corpus/
    go/    main.go util.go ...
    py/    app.py ...
    js/    index.js ...

After training, the model is evaluated against its own corpus and the
resulting table is written as YAML.

Examples:
  glot train --corpus ./corpus --output models/classifier.yaml
  glot train --corpus ./corpus --min-samples 10 --no-evaluate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		corpusDir := cfg.Train.CorpusDir
		if cmd.Flags().Changed("corpus") {
			corpusDir, _ = cmd.Flags().GetString("corpus")
		}
		if corpusDir == "" {
			return fmt.Errorf("no corpus directory provided (use --corpus)")
		}

		outputPath := cfg.Train.OutputPath
		if cmd.Flags().Changed("output") {
			outputPath, _ = cmd.Flags().GetString("output")
		}
		if outputPath == "" {
			return fmt.Errorf("no output path provided (use --output)")
		}

		minSamples := cfg.Train.MinSamples
		if cmd.Flags().Changed("min-samples") {
			minSamples, _ = cmd.Flags().GetInt("min-samples")
		}

		evaluate, _ := cmd.Flags().GetBool("evaluate")

		slog.Info("Training model", "corpus", corpusDir, "min_samples", minSamples)

		model, err := trainer.Train(corpusDir, minSamples)
		if err != nil {
			return fmt.Errorf("training failed: %w", err)
		}

		langs := trainer.Languages(model)
		slog.Info("Training completed",
			"languages", len(langs),
			"features", model.FeatureCount(),
		)

		if evaluate {
			report, err := trainer.Evaluate(model, corpusDir)
			if err != nil {
				return fmt.Errorf("evaluation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.String())
		}

		if dir := filepath.Dir(outputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := model.Save(outputPath); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Model written to %s\n", outputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainCmd.Flags().StringP("corpus", "c", "", "labeled corpus directory (one subdirectory per tag)")
	trainCmd.Flags().StringP("output", "o", "", "output path for the trained model table")
	trainCmd.Flags().Int("min-samples", 1, "minimum samples required per language")
	trainCmd.Flags().Bool("evaluate", true, "evaluate the model against its corpus after training")
}
