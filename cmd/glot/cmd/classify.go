package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/glotscan/glot/internal/analyzer"
	"github.com/glotscan/glot/internal/classifier"
	"github.com/glotscan/glot/internal/models"
)

// classifyCmd represents the classify command.
var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Classify the programming language of a code snippet",
	Long: `Classify a single code snippet read from a file, from stdin, or from
the --snippet flag, and print the best-guess language tag.

Examples:
  glot classify main.go
  glot classify - < snippet.txt
  glot classify --snippet 'def add(a, b): return a + b'
  glot classify main.go --rank --format json
  glot classify main.go --analyse`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		snippet, err := readClassifyInput(cmd, args)
		if err != nil {
			return err
		}

		modelPath := cfg.Classifier.ModelPath
		if cmd.Flags().Changed("model") {
			modelPath, _ = cmd.Flags().GetString("model")
		}

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}

		switch format {
		case "", "text", "json":
		default:
			return fmt.Errorf("unsupported output format: %s", format)
		}

		precision := cfg.Output.ConfidencePrecision
		rank, _ := cmd.Flags().GetBool("rank")
		analyse, _ := cmd.Flags().GetBool("analyse")

		c, err := buildClassifier(modelPath, cfg.ModelsDir)
		if err != nil {
			return err
		}

		lang, err := c.Classify(snippet)
		if err != nil {
			return fmt.Errorf("classification failed: %w", err)
		}
		scores, err := c.Rank(snippet)
		if err != nil {
			return fmt.Errorf("classification failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if format == "json" {
			return writeClassifyJSON(out, snippet, lang, scores, rank, analyse)
		}
		return writeClassifyText(out, snippet, lang, scores, rank, analyse, precision)
	},
}

// readClassifyInput resolves the snippet from flag, file argument, or stdin.
func readClassifyInput(cmd *cobra.Command, args []string) (string, error) {
	if cmd.Flags().Changed("snippet") {
		snippet, _ := cmd.Flags().GetString("snippet")
		return snippet, nil
	}

	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0]) //nolint:gosec // G304: path comes from CLI args
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// buildClassifier loads the requested model table, falling back to the
// embedded default when none is configured.
func buildClassifier(modelPath, modelsDir string) (*classifier.Classifier, error) {
	var model *classifier.Model
	var err error

	if modelPath != "" {
		path := models.ResolveModelPath(modelsDir, modelPath)
		if err := models.ValidateModelExists(path); err != nil {
			return nil, err
		}
		model, err = classifier.LoadModel(path)
	} else {
		model, err = classifier.DefaultModel()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	return classifier.New(model)
}

func confidenceFor(lang classifier.Language, scores []classifier.Score) float64 {
	for _, s := range scores {
		if s.Language == lang {
			return s.Confidence
		}
	}
	return 0
}

func writeClassifyJSON(
	out io.Writer,
	snippet string,
	lang classifier.Language,
	scores []classifier.Score,
	rank, analyse bool,
) error {
	obj := map[string]interface{}{
		"language":   lang.String(),
		"name":       lang.Name(),
		"confidence": confidenceFor(lang, scores),
	}
	if rank {
		obj["scores"] = scores
	}
	if analyse {
		if guess, ok := analyzer.Guess(snippet); ok {
			obj["lexer_guess"] = guess.String()
			obj["lexer_agrees"] = guess == lang
		} else {
			obj["lexer_guess"] = nil
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(obj)
}

func writeClassifyText(
	out io.Writer,
	snippet string,
	lang classifier.Language,
	scores []classifier.Score,
	rank, analyse bool,
	precision int,
) error {
	if precision <= 0 {
		precision = 3
	}

	fmt.Fprintf(out, "%s (%s) %.*f\n", lang, lang.Name(), precision, confidenceFor(lang, scores))

	if rank {
		for _, s := range scores {
			fmt.Fprintf(out, "  %-8s %.*f\n", s.Language, precision, s.Confidence)
		}
	}

	if analyse {
		if guess, ok := analyzer.Guess(snippet); ok {
			agreement := "disagrees"
			if guess == lang {
				agreement = "agrees"
			}
			fmt.Fprintf(out, "lexer: %s (%s)\n", guess, agreement)
		} else {
			fmt.Fprintln(out, "lexer: no match")
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringP("snippet", "s", "", "classify the given snippet text instead of a file")
	classifyCmd.Flags().StringP("model", "m", "", "model table file (default: embedded model)")
	classifyCmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	classifyCmd.Flags().BoolP("rank", "r", false, "print confidence scores for all languages")
	classifyCmd.Flags().BoolP("analyse", "a", false, "cross-check the result with a lexer-based guess")
}
