package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// canonicalSnippets holds an idiomatic snippet per supported language.
var canonicalSnippets = map[Language]string{
	Bash:       "#!/bin/bash\necho \"Hello\"\n",
	C:          "#include <stdio.h>\n\nint main(void) {\n    printf(\"hi\\n\");\n    return 0;\n}\n",
	CPP:        "#include <iostream>\n\nint main() {\n    std::cout << \"hi\" << std::endl;\n    return 0;\n}\n",
	CSharp:     "using System;\n\nnamespace Demo {\n    class Program {\n        static void Main() {\n            Console.WriteLine(\"hi\");\n        }\n    }\n}\n",
	Go:         "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n",
	HTML:       "<!DOCTYPE html>\n<html>\n<body>\n<h1>Hello</h1>\n</body>\n</html>\n",
	Java:       "public class Foo {\n    void bar() {}\n}\n",
	JavaScript: "function foo() { return 1; }",
	Kotlin:     "fun main() {\n    println(\"Hello\")\n}\n",
	PHP:        "<?php\necho \"Hello\";\n?>\n",
	Python:     "def foo():\n    return 1\n",
	Ruby:       "def greet\n  puts \"Hello\"\nend\n",
	Rust:       "fn main() {\n    println!(\"Hello\");\n}\n",
	SQL:        "SELECT * FROM users WHERE id = 1;\n",
	Swift:      "import Foundation\n\nfunc greet(name: String) {\n    guard let n = name else { return }\n}\n",
	XML:        "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<note>\n  <to>Alice</to>\n</note>\n",
}

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	model, err := DefaultModel()
	require.NoError(t, err)
	c, err := New(model)
	require.NoError(t, err)
	return c
}

func TestNew_NilModel(t *testing.T) {
	c, err := New(nil)
	require.Error(t, err)
	assert.Nil(t, c)
}

func TestNew_InvalidModel(t *testing.T) {
	c, err := New(&Model{Version: ModelVersion})
	require.ErrorIs(t, err, ErrEmptyModel)
	assert.Nil(t, c)
}

func TestClassify_CanonicalSnippets(t *testing.T) {
	c := newTestClassifier(t)

	for lang, snippet := range canonicalSnippets {
		got, err := c.Classify(snippet)
		require.NoError(t, err)
		assert.Equal(t, lang, got, "snippet for %s misclassified as %s", lang, got)
	}
}

func TestClassify_JavaScriptFunction(t *testing.T) {
	c := newTestClassifier(t)

	lang, err := c.Classify("function foo() { return 1; }")
	require.NoError(t, err)
	assert.Equal(t, JavaScript, lang)
}

func TestClassify_JavaClass(t *testing.T) {
	c := newTestClassifier(t)

	lang, err := c.Classify("public class Foo { void bar() {} }")
	require.NoError(t, err)
	assert.Equal(t, Java, lang)
}

func TestClassify_EmptySnippet(t *testing.T) {
	c := newTestClassifier(t)

	for _, snippet := range []string{"", "   ", "\n\t\n", "  \r\n  "} {
		lang, err := c.Classify(snippet)
		require.NoError(t, err)
		assert.Equal(t, DefaultLanguage, lang)
	}
}

func TestClassify_NoFeatureOverlap(t *testing.T) {
	c := newTestClassifier(t)

	// Tokens that appear in no language table resolve to the default
	// tag rather than an error or an "unknown" outcome.
	lang, err := c.Classify("zzz qqq xyzzy plugh")
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, lang)
}

func TestClassify_ForeignProse(t *testing.T) {
	c := newTestClassifier(t)

	lang, err := c.Classify("Der schnelle braune Fuchs springt über den faulen Hund.")
	require.NoError(t, err)
	assert.True(t, lang.IsSupported())
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier(t)

	for lang, snippet := range canonicalSnippets {
		first, err := c.Classify(snippet)
		require.NoError(t, err)
		for range 10 {
			again, err := c.Classify(snippet)
			require.NoError(t, err)
			assert.Equal(t, first, again, "classification of %s snippet changed between calls", lang)
		}
	}
}

func TestClassify_TieBreak(t *testing.T) {
	c := newTestClassifier(t)

	// "include" carries the same weight for c and cpp and nothing else,
	// so the two tie exactly; the lexicographically smaller tag wins.
	for range 10 {
		lang, err := c.Classify("include")
		require.NoError(t, err)
		assert.Equal(t, C, lang)
	}
}

func TestClassify_Untrained(t *testing.T) {
	var c Classifier

	lang, err := c.Classify("function foo() {}")
	require.ErrorIs(t, err, ErrNotTrained)
	assert.Empty(t, lang)
}

func TestClassifyOrDefault_Untrained(t *testing.T) {
	var c Classifier
	assert.Equal(t, DefaultLanguage, c.ClassifyOrDefault("function foo() {}"))
}

func TestClassifyOrDefault_Trained(t *testing.T) {
	c := newTestClassifier(t)
	assert.Equal(t, Go, c.ClassifyOrDefault(canonicalSnippets[Go]))
}

func TestIsTrained(t *testing.T) {
	var untrained Classifier
	assert.False(t, untrained.IsTrained())

	c := newTestClassifier(t)
	assert.True(t, c.IsTrained())
}

func TestRank_Untrained(t *testing.T) {
	var c Classifier

	scores, err := c.Rank("x")
	require.ErrorIs(t, err, ErrNotTrained)
	assert.Nil(t, scores)
}

func TestRank_OrderAndNormalization(t *testing.T) {
	c := newTestClassifier(t)

	scores, err := c.Rank(canonicalSnippets[Go])
	require.NoError(t, err)
	require.Len(t, scores, len(Supported()))

	assert.Equal(t, Go, scores[0].Language)
	assert.Equal(t, "Go", scores[0].Name)

	total := 0.0
	for i, s := range scores {
		if i > 0 {
			assert.LessOrEqual(t, s.Confidence, scores[i-1].Confidence)
		}
		assert.GreaterOrEqual(t, s.Confidence, 0.0)
		total += s.Confidence
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestRank_EmptySnippet(t *testing.T) {
	c := newTestClassifier(t)

	scores, err := c.Rank("")
	require.NoError(t, err)
	require.Len(t, scores, len(Supported()))
	for _, s := range scores {
		assert.Zero(t, s.Confidence)
	}
}

func TestRank_Deterministic(t *testing.T) {
	c := newTestClassifier(t)

	first, err := c.Rank(canonicalSnippets[Python])
	require.NoError(t, err)
	for range 5 {
		again, err := c.Rank(canonicalSnippets[Python])
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestModelInfo(t *testing.T) {
	var untrained Classifier
	info := untrained.ModelInfo()
	assert.Equal(t, false, info["trained"])

	c := newTestClassifier(t)
	info = c.ModelInfo()
	assert.Equal(t, true, info["trained"])
	assert.Equal(t, ModelVersion, info["version"])
}

func TestClassify_ResultAlwaysSupported(t *testing.T) {
	c := newTestClassifier(t)

	inputs := []string{
		"SELECT name FROM t",
		"{}[]();",
		"0 1 2 3 4 5",
		"\x00\x01\x02",
		"日本語のテキスト",
		"console.log('hi')",
	}
	for _, in := range inputs {
		lang, err := c.Classify(in)
		require.NoError(t, err)
		assert.True(t, lang.IsSupported(), "got unsupported tag %q for %q", lang, in)
	}
}
