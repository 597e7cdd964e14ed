package classifier

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ModelVersion is the table schema version this build understands.
const ModelVersion = 1

//go:embed model.yaml
var embeddedModel []byte

// FeatureWeights maps a lexical feature to its per-language score weight.
type FeatureWeights map[string]float64

// Model is the precomputed per-language feature statistics the scorer
// runs against. A model is immutable after loading.
type Model struct {
	Version   int                         `yaml:"version"`
	Languages map[Language]FeatureWeights `yaml:"languages"`
}

// DefaultModel parses the model table embedded in the binary.
func DefaultModel() (*Model, error) {
	model, err := ParseModel(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded model: %w", err)
	}
	return model, nil
}

// LoadModel reads and validates a model table from a YAML file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: model path comes from config or CLI flag
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	model, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("invalid model file %s: %w", path, err)
	}
	return model, nil
}

// ParseModel unmarshals and validates a model table.
func ParseModel(data []byte) (*Model, error) {
	var model Model
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model: %w", err)
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return &model, nil
}

// Validate checks the model against the build-time supported set.
func (m *Model) Validate() error {
	if m.Version != ModelVersion {
		return fmt.Errorf("unsupported model version %d (want %d)", m.Version, ModelVersion)
	}
	if len(m.Languages) == 0 {
		return ErrEmptyModel
	}
	for lang, weights := range m.Languages {
		if !lang.IsSupported() {
			return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
		}
		if len(weights) == 0 {
			return fmt.Errorf("language %q has no features", lang)
		}
		for feature, weight := range weights {
			if feature == "" {
				return fmt.Errorf("language %q has an empty feature", lang)
			}
			if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
				return fmt.Errorf("language %q feature %q has invalid weight %v", lang, feature, weight)
			}
		}
	}
	return nil
}

// Save writes the model table to a YAML file.
func (m *Model) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}
	return nil
}

// FeatureCount returns the total number of weighted features in the table.
func (m *Model) FeatureCount() int {
	total := 0
	for _, weights := range m.Languages {
		total += len(weights)
	}
	return total
}

// Info returns metadata about the model for logging and the server API.
func (m *Model) Info() map[string]interface{} {
	tags := make([]string, 0, len(m.Languages))
	for _, lang := range Supported() {
		if _, ok := m.Languages[lang]; ok {
			tags = append(tags, lang.String())
		}
	}
	return map[string]interface{}{
		"version":   m.Version,
		"languages": tags,
		"features":  m.FeatureCount(),
	}
}
