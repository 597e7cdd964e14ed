package classifier

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotTrained is returned when classification is requested before
	// a model has been built. Callers recover by falling back to
	// DefaultLanguage rather than treating this as fatal.
	ErrNotTrained = errors.New("classifier is not trained")

	// ErrUnknownLanguage is returned for tags outside the supported set.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrEmptyModel is returned for a model table without languages.
	ErrEmptyModel = errors.New("model contains no languages")
)

// featureCountCap bounds the contribution of a single repeated feature,
// so one token cannot swamp the rest of the snippet.
const featureCountCap = 3

// Score pairs a language with its normalized confidence for one snippet.
type Score struct {
	Language   Language `json:"language"`
	Name       string   `json:"name"`
	Confidence float64  `json:"confidence"`
}

// Classifier maps code snippets to supported language tags by scoring
// lexical features against a model table. The zero value is untrained;
// a trained Classifier is read-only and safe for concurrent use.
type Classifier struct {
	model *Model
	// langs caches the model's tags in lexicographic order, which is
	// also the tie-break priority among equal scores.
	langs []Language
}

// New creates a trained classifier from a validated model.
func New(model *Model) (*Classifier, error) {
	if model == nil {
		return nil, errors.New("model cannot be nil")
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	langs := make([]Language, 0, len(model.Languages))
	for lang := range model.Languages {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return &Classifier{model: model, langs: langs}, nil
}

// IsTrained reports whether the classifier holds a built model.
func (c *Classifier) IsTrained() bool {
	return c != nil && c.model != nil
}

// Classify returns the best-guess language tag for a snippet.
//
// It returns ErrNotTrained before a model is built. Once trained it
// never fails: an empty or whitespace-only snippet resolves to
// DefaultLanguage, as does a snippet with zero feature overlap, and
// any other text resolves to the closest-scoring supported tag. Equal
// top scores resolve to the lexicographically smallest tag. The result
// is deterministic for a given snippet and model.
func (c *Classifier) Classify(snippet string) (Language, error) {
	if !c.IsTrained() {
		return "", ErrNotTrained
	}
	return c.classify(snippet), nil
}

// ClassifyOrDefault is Classify with the caller-side fallback applied:
// it returns DefaultLanguage when the classifier is untrained.
func (c *Classifier) ClassifyOrDefault(snippet string) Language {
	lang, err := c.Classify(snippet)
	if err != nil {
		return DefaultLanguage
	}
	return lang
}

// Rank scores a snippet against every language in the model and returns
// the results ordered by descending confidence, ties in tag order.
func (c *Classifier) Rank(snippet string) ([]Score, error) {
	if !c.IsTrained() {
		return nil, ErrNotTrained
	}

	scores, total := c.score(snippet)
	ranked := make([]Score, 0, len(c.langs))
	for _, lang := range c.langs {
		confidence := 0.0
		if total > 0 {
			confidence = scores[lang] / total
		}
		ranked = append(ranked, Score{
			Language:   lang,
			Name:       lang.Name(),
			Confidence: confidence,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	return ranked, nil
}

// ModelInfo returns metadata about the underlying model, or a bare
// untrained marker when no model is built.
func (c *Classifier) ModelInfo() map[string]interface{} {
	if !c.IsTrained() {
		return map[string]interface{}{"trained": false}
	}
	info := c.model.Info()
	info["trained"] = true
	return info
}

func (c *Classifier) classify(snippet string) Language {
	scores, total := c.score(snippet)
	if total == 0 {
		return DefaultLanguage
	}

	best := DefaultLanguage
	bestScore := -1.0
	for _, lang := range c.langs {
		if scores[lang] > bestScore {
			best = lang
			bestScore = scores[lang]
		}
	}
	return best
}

// score accumulates the weighted feature overlap per language. Feature
// counts are capped so a single repeated token cannot dominate.
func (c *Classifier) score(snippet string) (map[Language]float64, float64) {
	scores := make(map[Language]float64, len(c.langs))
	if strings.TrimSpace(snippet) == "" {
		return scores, 0
	}

	features := extractFeatures(snippet)
	total := 0.0
	for feature, count := range features {
		if count > featureCountCap {
			count = featureCountCap
		}
		for lang, weights := range c.model.Languages {
			if weight, ok := weights[feature]; ok && weight > 0 {
				contribution := float64(count) * weight
				scores[lang] += contribution
				total += contribution
			}
		}
	}
	return scores, total
}
