// Package analyzer provides an independent, lexer-based language guess
// used to cross-check the statistical classifier. It delegates content
// analysis to the chroma lexer registry and maps the winning lexer back
// to a supported language tag.
package analyzer

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/glotscan/glot/internal/classifier"
)

// lexerTags maps chroma lexer names to supported language tags.
var lexerTags = map[string]classifier.Language{
	"Bash":       classifier.Bash,
	"C":          classifier.C,
	"C++":        classifier.CPP,
	"C#":         classifier.CSharp,
	"Go":         classifier.Go,
	"HTML":       classifier.HTML,
	"Java":       classifier.Java,
	"JavaScript": classifier.JavaScript,
	"Kotlin":     classifier.Kotlin,
	"PHP":        classifier.PHP,
	"Python":     classifier.Python,
	"Ruby":       classifier.Ruby,
	"Rust":       classifier.Rust,
	"SQL":        classifier.SQL,
	"Swift":      classifier.Swift,
	"XML":        classifier.XML,
}

// Guess analyses a snippet with the chroma lexer registry and returns
// the matching supported tag. The second result is false when no lexer
// matched or the winning lexer has no supported tag.
func Guess(snippet string) (classifier.Language, bool) {
	if strings.TrimSpace(snippet) == "" {
		return "", false
	}

	lexer := lexers.Analyse(snippet)
	if lexer == nil {
		return "", false
	}

	tag, ok := lexerTags[lexer.Config().Name]
	return tag, ok
}

// LexerName returns the chroma lexer name registered for a supported
// tag, or the empty string when no lexer cross-reference exists.
func LexerName(lang classifier.Language) string {
	for name, tag := range lexerTags {
		if tag == lang {
			return name
		}
	}
	return ""
}
