package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glotscan/glot/internal/analyzer"
	"github.com/glotscan/glot/internal/classifier"
)

// languagesCmd represents the languages command.
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported language tags",
	Long: `List every language tag the classifier can return, together with its
display name. With --model, only the languages present in the given
model table are listed.

Examples:
  glot languages
  glot languages --format json
  glot languages --model models/classifier.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		modelPath := cfg.Classifier.ModelPath
		if cmd.Flags().Changed("model") {
			modelPath, _ = cmd.Flags().GetString("model")
		}

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}

		langs := classifier.Supported()
		if modelPath != "" {
			c, err := buildClassifier(modelPath, cfg.ModelsDir)
			if err != nil {
				return err
			}
			info := c.ModelInfo()
			tags, _ := info["languages"].([]string)
			langs = langs[:0]
			for _, tag := range tags {
				langs = append(langs, classifier.Language(tag))
			}
		}

		out := cmd.OutOrStdout()
		if format == "json" {
			type entry struct {
				Tag     string `json:"tag"`
				Name    string `json:"name"`
				Lexer   string `json:"lexer,omitempty"`
				Default bool   `json:"default,omitempty"`
			}
			entries := make([]entry, len(langs))
			for i, l := range langs {
				entries[i] = entry{
					Tag:     l.String(),
					Name:    l.Name(),
					Lexer:   analyzer.LexerName(l),
					Default: l == classifier.DefaultLanguage,
				}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		for _, l := range langs {
			marker := ""
			if l == classifier.DefaultLanguage {
				marker = " (default)"
			}
			fmt.Fprintf(out, "%-6s %s%s\n", l, l.Name(), marker)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	languagesCmd.Flags().StringP("model", "m", "", "list only languages present in this model table")
	languagesCmd.Flags().StringP("format", "f", "text", "output format (text, json)")
}
