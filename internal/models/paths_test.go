package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetModelsDir_ExplicitParameter(t *testing.T) {
	dir := GetModelsDir("/custom/models")
	assert.Equal(t, "/custom/models", dir)
}

func TestGetModelsDir_EnvironmentVariable(t *testing.T) {
	t.Setenv(EnvModelsDir, "/env/models")

	dir := GetModelsDir("")
	assert.Equal(t, "/env/models", dir)
}

func TestGetModelsDir_ExplicitOverridesEnv(t *testing.T) {
	t.Setenv(EnvModelsDir, "/env/models")

	dir := GetModelsDir("/explicit/models")
	assert.Equal(t, "/explicit/models", dir)
}

func TestGetModelsDir_ProjectRootFallback(t *testing.T) {
	t.Setenv(EnvModelsDir, "")

	dir := GetModelsDir("")
	// Either project-root based or the bare default when no go.mod is
	// reachable from the working directory.
	assert.Equal(t, DefaultModelsDir, filepath.Base(dir))
}

func TestResolveModelPath(t *testing.T) {
	path := ResolveModelPath("/models", DefaultModelFile)
	assert.Equal(t, filepath.Join("/models", DefaultModelFile), path)
}

func TestResolveModelPath_AbsoluteFilename(t *testing.T) {
	path := ResolveModelPath("/models", "/elsewhere/custom.yaml")
	assert.Equal(t, "/elsewhere/custom.yaml", path)
}

func TestValidateModelExists(t *testing.T) {
	tmpDir := t.TempDir()
	modelPath := filepath.Join(tmpDir, "classifier.yaml")

	require.Error(t, ValidateModelExists(modelPath))

	require.NoError(t, os.WriteFile(modelPath, []byte("version: 1\n"), 0o600))
	require.NoError(t, ValidateModelExists(modelPath))
}

func TestListAvailableModels(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "classifier.yaml"), []byte("version: 1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "custom.yaml"), []byte("version: 1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "subdir"), 0o750))

	infos := ListAvailableModels(tmpDir)
	require.Len(t, infos, 2)
	assert.Equal(t, "classifier", infos[0].Name)
	assert.Equal(t, "custom", infos[1].Name)
	for _, info := range infos {
		assert.NotEmpty(t, info.Path)
		assert.NotEmpty(t, info.Description)
	}
}

func TestListAvailableModels_MissingDirectory(t *testing.T) {
	infos := ListAvailableModels(filepath.Join(t.TempDir(), "nope"))
	assert.Nil(t, infos)
}
