// Package trainer builds classifier model tables from a labeled corpus
// of source files. The corpus is a directory with one subdirectory per
// supported language tag, each holding sample listings of that language.
package trainer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"sort"

	"github.com/glotscan/glot/internal/classifier"
)

// maxSampleBytes bounds a single corpus file. Larger files are skipped
// with a warning; a labeled sample that big is almost always a mistake.
const maxSampleBytes = 4 << 20

// Train builds a model table from a corpus directory on disk.
func Train(corpusDir string, minSamples int) (*classifier.Model, error) {
	return TrainFS(os.DirFS(corpusDir), minSamples)
}

// TrainFS builds a model table from a corpus filesystem. Each top-level
// directory must be named after a supported language tag; every regular
// file below it counts as one labeled sample.
func TrainFS(fsys fs.FS, minSamples int) (*classifier.Model, error) {
	if minSamples < 1 {
		minSamples = 1
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus root: %w", err)
	}

	// featureDocs[lang][feature] = number of lang samples containing feature.
	featureDocs := make(map[classifier.Language]map[string]int)
	sampleCounts := make(map[classifier.Language]int)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		lang, err := classifier.ParseLanguage(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("corpus directory %q: %w", entry.Name(), err)
		}

		docs, count, err := collectLanguageSamples(fsys, entry.Name())
		if err != nil {
			return nil, err
		}
		if count < minSamples {
			return nil, fmt.Errorf("language %q has %d samples (minimum %d)", lang, count, minSamples)
		}

		featureDocs[lang] = docs
		sampleCounts[lang] = count
	}

	if len(featureDocs) == 0 {
		return nil, fmt.Errorf("corpus contains no language directories")
	}

	return buildModel(featureDocs, sampleCounts), nil
}

// collectLanguageSamples reads every file under one language directory
// and returns per-feature document counts plus the number of samples.
func collectLanguageSamples(fsys fs.FS, dir string) (map[string]int, int, error) {
	docs := make(map[string]int)
	count := 0

	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > maxSampleBytes {
			slog.Warn("skipping oversized corpus sample", "file", path, "size", info.Size())
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read sample %s: %w", path, err)
		}

		for feature := range classifier.Features(string(data)) {
			docs[feature]++
		}
		count++
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to walk corpus directory %s: %w", dir, err)
	}

	return docs, count, nil
}

// buildModel converts per-language document frequencies into a weight
// table. A feature's weight for a language is its relative document
// frequency there, boosted by rarity across languages so that tokens
// shared by every language carry little signal.
func buildModel(
	featureDocs map[classifier.Language]map[string]int,
	sampleCounts map[classifier.Language]int,
) *classifier.Model {
	// How many languages contain each feature at all.
	langsWithFeature := make(map[string]int)
	for _, docs := range featureDocs {
		for feature := range docs {
			langsWithFeature[feature]++
		}
	}
	numLangs := len(featureDocs)

	languages := make(map[classifier.Language]classifier.FeatureWeights, numLangs)
	for lang, docs := range featureDocs {
		weights := make(classifier.FeatureWeights, len(docs))
		total := float64(sampleCounts[lang])
		for feature, df := range docs {
			rarity := math.Log1p(float64(numLangs) / float64(langsWithFeature[feature]))
			weights[feature] = round6(float64(df) / total * rarity)
		}
		languages[lang] = weights
	}

	return &classifier.Model{
		Version:   classifier.ModelVersion,
		Languages: languages,
	}
}

// round6 rounds to six decimals so emitted tables are stable across runs.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// Languages returns the tags present in a model in lexicographic order.
func Languages(model *classifier.Model) []classifier.Language {
	langs := make([]classifier.Language, 0, len(model.Languages))
	for lang := range model.Languages {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}
