package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SnippetFixture is one labeled code sample.
type SnippetFixture struct {
	Language string
	Filename string
	Snippet  string
}

// DefaultSnippetFixtures returns a small labeled sample set covering a
// handful of distinctive languages. Useful for training throwaway
// models in tests without touching testdata/.
func DefaultSnippetFixtures() []SnippetFixture {
	return []SnippetFixture{
		{
			Language: "go",
			Filename: "main.go",
			Snippet:  "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}\n",
		},
		{
			Language: "go",
			Filename: "util.go",
			Snippet:  "package util\n\nfunc Add(a, b int) int {\n\treturn a + b\n}\n",
		},
		{
			Language: "js",
			Filename: "app.js",
			Snippet:  "const fs = require('fs');\n\nfunction main() {\n  console.log('hello');\n}\n",
		},
		{
			Language: "js",
			Filename: "util.js",
			Snippet:  "const add = (a, b) => a + b;\nmodule.exports = { add };\n",
		},
		{
			Language: "py",
			Filename: "app.py",
			Snippet:  "import os\n\ndef main():\n    print(os.getcwd())\n",
		},
		{
			Language: "py",
			Filename: "util.py",
			Snippet:  "def add(a, b):\n    return a + b\n",
		},
	}
}

// WriteCorpus materializes fixtures as a labeled corpus directory tree
// (one subdirectory per language tag) and returns its path.
func WriteCorpus(t *testing.T, fixtures []SnippetFixture) string {
	t.Helper()

	dir := t.TempDir()
	for _, f := range fixtures {
		langDir := filepath.Join(dir, f.Language)
		require.NoError(t, EnsureDir(langDir))
		path := filepath.Join(langDir, f.Filename)
		require.NoError(t, os.WriteFile(path, []byte(f.Snippet), 0o600))
	}
	return dir
}
