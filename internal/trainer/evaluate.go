package trainer

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/glotscan/glot/internal/analyzer"
	"github.com/glotscan/glot/internal/classifier"
)

// LanguageReport holds evaluation results for one language.
type LanguageReport struct {
	Language classifier.Language `json:"language"`
	Samples  int                 `json:"samples"`
	Correct  int                 `json:"correct"`
	// LexerAgreement counts samples where the independent chroma-based
	// analyzer agrees with the corpus label.
	LexerAgreement int `json:"lexer_agreement"`
}

// Accuracy returns the fraction of correctly classified samples.
func (r LanguageReport) Accuracy() float64 {
	if r.Samples == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Samples)
}

// Report holds evaluation results for a whole corpus.
type Report struct {
	PerLanguage []LanguageReport `json:"per_language"`
	Samples     int              `json:"samples"`
	Correct     int              `json:"correct"`
}

// Accuracy returns the overall fraction of correctly classified samples.
func (r Report) Accuracy() float64 {
	if r.Samples == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Samples)
}

// String renders the report as an aligned text table.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %8s %8s %10s %8s\n", "tag", "samples", "correct", "accuracy", "lexer")
	for _, lr := range r.PerLanguage {
		fmt.Fprintf(&b, "%-8s %8d %8d %9.1f%% %8d\n",
			lr.Language, lr.Samples, lr.Correct, lr.Accuracy()*100, lr.LexerAgreement)
	}
	fmt.Fprintf(&b, "%-8s %8d %8d %9.1f%%\n", "total", r.Samples, r.Correct, r.Accuracy()*100)
	return b.String()
}

// Evaluate classifies every sample of a labeled corpus with the given
// model and reports per-language accuracy, with an independent
// lexer-based agreement column for comparison.
func Evaluate(model *classifier.Model, corpusDir string) (*Report, error) {
	return EvaluateFS(model, os.DirFS(corpusDir))
}

// EvaluateFS is Evaluate over a corpus filesystem.
func EvaluateFS(model *classifier.Model, fsys fs.FS) (*Report, error) {
	c, err := classifier.New(model)
	if err != nil {
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus root: %w", err)
	}

	report := &Report{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		lang, err := classifier.ParseLanguage(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("corpus directory %q: %w", entry.Name(), err)
		}

		lr, err := evaluateLanguage(c, fsys, entry.Name(), lang)
		if err != nil {
			return nil, err
		}

		report.PerLanguage = append(report.PerLanguage, lr)
		report.Samples += lr.Samples
		report.Correct += lr.Correct
	}

	return report, nil
}

func evaluateLanguage(
	c *classifier.Classifier,
	fsys fs.FS,
	dir string,
	lang classifier.Language,
) (LanguageReport, error) {
	lr := LanguageReport{Language: lang}

	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read sample %s: %w", path, err)
		}
		snippet := string(data)

		got, err := c.Classify(snippet)
		if err != nil {
			return err
		}

		lr.Samples++
		if got == lang {
			lr.Correct++
		}
		if guess, ok := analyzer.Guess(snippet); ok && guess == lang {
			lr.LexerAgreement++
		}
		return nil
	})
	if err != nil {
		return LanguageReport{}, fmt.Errorf("failed to walk corpus directory %s: %w", dir, err)
	}

	return lr, nil
}
