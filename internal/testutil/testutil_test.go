package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProjectRoot(t *testing.T) {
	root, err := GetProjectRoot()
	require.NoError(t, err)
	assert.True(t, FileExists(filepath.Join(root, "go.mod")))
}

func TestGetProjectRootValidated(t *testing.T) {
	root, err := GetProjectRootValidated()
	require.NoError(t, err)
	assert.True(t, DirExists(filepath.Join(root, "internal")))
	assert.True(t, DirExists(filepath.Join(root, "cmd")))
}

func TestValidateProjectRoot_MissingGoMod(t *testing.T) {
	err := ValidateProjectRoot(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "go.mod not found")
}

func TestFileAndDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	assert.True(t, FileExists(file))
	assert.True(t, DirExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "absent")))
	assert.False(t, DirExists(file))
}

func TestWriteCorpus(t *testing.T) {
	dir := WriteCorpus(t, DefaultSnippetFixtures())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for _, tag := range []string{"go", "js", "py"} {
		assert.True(t, DirExists(filepath.Join(dir, tag)))
	}

	data, err := os.ReadFile(filepath.Join(dir, "go", "main.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package main")
}
