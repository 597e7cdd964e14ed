// Package models resolves classifier model table files on disk. The
// embedded default table needs no file at all; this package locates
// custom trained tables when a caller overrides the default.
package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Model filename constants to avoid typos and ensure consistency.
const (
	// DefaultModelFile is the filename of a trained classifier table.
	DefaultModelFile = "classifier.yaml"
)

// Default models directory.
const DefaultModelsDir = "models"

// Environment variable for models directory override.
const EnvModelsDir = "GLOT_MODELS_DIR"

// ModelInfo contains metadata about a model table on disk.
type ModelInfo struct {
	Name        string
	Path        string
	Description string
}

// findProjectRoot finds the project root by looking for go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.New("could not find project root (go.mod not found)")
}

// GetModelsDir returns the models directory path from various sources.
// Priority: 1. Explicit modelsDir parameter, 2. Environment variable,
// 3. Project root + default.
func GetModelsDir(modelsDir string) string {
	if modelsDir != "" {
		return modelsDir
	}

	if envDir := os.Getenv(EnvModelsDir); envDir != "" {
		return envDir
	}

	if projectRoot, err := findProjectRoot(); err == nil {
		return filepath.Join(projectRoot, DefaultModelsDir)
	}

	// Fallback to relative path if project root can't be found
	return DefaultModelsDir
}

// ResolveModelPath resolves a model filename to its full path under the
// models directory. An absolute filename is returned unchanged.
func ResolveModelPath(modelsDir, filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(GetModelsDir(modelsDir), filename)
}

// ValidateModelExists checks if a model file exists at the given path.
func ValidateModelExists(modelPath string) error {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", modelPath)
	}
	return nil
}

// ListAvailableModels returns information about model tables found in
// the models directory, ordered by filename. The embedded default table
// is always available and is not listed here.
func ListAvailableModels(modelsDir string) []ModelInfo {
	base := GetModelsDir(modelsDir)

	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}

	var infos []ModelInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		desc := "Trained classifier model table"
		if e.Name() == DefaultModelFile {
			desc = "Default trained classifier model table"
		}
		infos = append(infos, ModelInfo{
			Name:        strings.TrimSuffix(e.Name(), ".yaml"),
			Path:        filepath.Join(base, e.Name()),
			Description: desc,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
