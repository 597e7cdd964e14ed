// Package classifier guesses the programming language of a code snippet.
//
// Classification scores a snippet's lexical features against a precomputed
// per-language weight table and returns the highest-scoring supported
// language tag. The supported tag set and the default fallback tag are
// fixed at build time.
package classifier

import (
	"fmt"
	"sort"
)

// Language is a short tag identifying a supported programming language.
type Language string

// Supported language tags.
const (
	Bash       Language = "bash"
	C          Language = "c"
	CPP        Language = "cpp"
	CSharp     Language = "cs"
	Go         Language = "go"
	HTML       Language = "html"
	Java       Language = "java"
	JavaScript Language = "js"
	Kotlin     Language = "kt"
	PHP        Language = "php"
	Python     Language = "py"
	Ruby       Language = "rb"
	Rust       Language = "rs"
	SQL        Language = "sql"
	Swift      Language = "swift"
	XML        Language = "xml"
)

// DefaultLanguage is the tag callers fall back to when no better guess
// exists: empty input, zero feature overlap, or an untrained classifier.
const DefaultLanguage = JavaScript

// languageNames maps every supported tag to its display name.
var languageNames = map[Language]string{
	Bash:       "Bash",
	C:          "C",
	CPP:        "C++",
	CSharp:     "C#",
	Go:         "Go",
	HTML:       "HTML",
	Java:       "Java",
	JavaScript: "JavaScript",
	Kotlin:     "Kotlin",
	PHP:        "PHP",
	Python:     "Python",
	Ruby:       "Ruby",
	Rust:       "Rust",
	SQL:        "SQL",
	Swift:      "Swift",
	XML:        "XML",
}

// languageAliases maps common alternate spellings to supported tags.
var languageAliases = map[string]Language{
	"c++":        CPP,
	"c#":         CSharp,
	"csharp":     CSharp,
	"golang":     Go,
	"javascript": JavaScript,
	"kotlin":     Kotlin,
	"node":       JavaScript,
	"python":     Python,
	"ruby":       Ruby,
	"rust":       Rust,
	"sh":         Bash,
	"shell":      Bash,
	"swiftlang":  Swift,
}

// String returns the tag itself.
func (l Language) String() string {
	return string(l)
}

// Name returns the display name for the tag, or the tag itself when unknown.
func (l Language) Name() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return string(l)
}

// IsSupported reports whether the tag is a member of the supported set.
func (l Language) IsSupported() bool {
	_, ok := languageNames[l]
	return ok
}

// Supported returns all supported language tags in lexicographic order.
func Supported() []Language {
	langs := make([]Language, 0, len(languageNames))
	for l := range languageNames {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// ParseLanguage resolves a tag or a known alias to a supported language.
func ParseLanguage(s string) (Language, error) {
	if l := Language(s); l.IsSupported() {
		return l, nil
	}
	if l, ok := languageAliases[s]; ok {
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}
