package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearGlotEnvVars clears all GLOT_ environment variables so a test run
// in a configured shell does not leak into loader behavior.
func clearGlotEnvVars() {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, EnvPrefix+"_") {
			parts := strings.SplitN(env, "=", 2)
			if len(parts) > 0 {
				_ = os.Unsetenv(parts[0])
			}
		}
	}
}

// TestNewLoader tests loader creation.
func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if loader.v == nil {
		t.Error("Loader viper instance is nil")
	}
}

// TestLoadWithNoConfigFile tests loading with no config file present.
func TestLoadWithNoConfigFile(t *testing.T) {
	clearGlotEnvVars()

	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(originalWd) }()

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		t.Errorf("Load() unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.LogLevel != infoLevel {
		t.Errorf("Expected default log level, got %s", cfg.LogLevel)
	}
}

// TestLoadWithFile tests loading from an explicit config file.
func TestLoadWithFile(t *testing.T) {
	clearGlotEnvVars()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "glot.yaml")
	content := "log_level: debug\nserver:\n  port: 9090\n"
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.LoadWithFile(configPath)
	if err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected server port 9090, got %d", cfg.Server.Port)
	}
}

// TestLoadWithMissingFile tests loading from a nonexistent config file.
func TestLoadWithMissingFile(t *testing.T) {
	loader := NewLoader()
	_, err := loader.LoadWithFile("/nonexistent/glot.yaml")
	if err == nil {
		t.Fatal("LoadWithFile() expected error for missing file")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Unexpected error: %v", err)
	}
}

// TestLoadWithInvalidConfig tests that validation errors surface on load.
func TestLoadWithInvalidConfig(t *testing.T) {
	clearGlotEnvVars()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "glot.yaml")
	content := "log_level: nope\n"
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewLoader()
	if _, err := loader.LoadWithFile(configPath); err == nil {
		t.Fatal("LoadWithFile() expected validation error")
	}
}

// TestGenerateDefaultConfigFile tests default config file generation.
func TestGenerateDefaultConfigFile(t *testing.T) {
	clearGlotEnvVars()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "generated.yaml")

	if err := GenerateDefaultConfigFile(configPath); err != nil {
		t.Fatalf("GenerateDefaultConfigFile() unexpected error: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read generated config: %v", err)
	}
	for _, key := range []string{"log_level", "server", "batch", "train"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Generated config missing key %q", key)
		}
	}
}

// TestGetConfigSearchPaths tests the search path list.
func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()
	if len(paths) == 0 {
		t.Fatal("GetConfigSearchPaths() returned no paths")
	}
	if paths[0] != "." {
		t.Errorf("Expected first search path '.', got %s", paths[0])
	}
	last := paths[len(paths)-1]
	if last != "/etc/glot" {
		t.Errorf("Expected last search path '/etc/glot', got %s", last)
	}
}
