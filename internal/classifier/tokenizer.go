package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	// maxSnippetBytes bounds the text considered per classification.
	// Longer snippets are truncated at a rune boundary; the leading
	// portion of a listing carries the distinctive tokens.
	maxSnippetBytes = 1 << 20

	// maxWordRunes bounds a single word feature.
	maxWordRunes = 32

	// maxPunctRunes bounds a punctuation-run feature. Runs longer than
	// this keep only their head, which is where the signature lives
	// ("#!", "<?", "</", ":=", "=>").
	maxPunctRunes = 2

	// shebangFeature is counted once per line that begins with "#!".
	// An interpreter directive only means anything at line start, so
	// this is a separate feature from the "#!" punctuation run. Three
	// runes long on purpose: punctuation runs are capped at two, so no
	// scanned token can collide with it.
	shebangFeature = "#!/"
)

// Features tokenizes a snippet into lexical features and returns the
// count of each distinct feature. The trainer uses the same extraction
// as the scorer so trained weights line up with classification input.
func Features(snippet string) map[string]int {
	return extractFeatures(snippet)
}

// extractFeatures tokenizes a snippet into lexical features and returns
// the count of each distinct feature. Word-shaped tokens are lowercased,
// digit runs carry no signal and are dropped, and punctuation runs are
// truncated to their first maxPunctRunes runes.
func extractFeatures(snippet string) map[string]int {
	snippet = truncateRunes(snippet, maxSnippetBytes)
	snippet = norm.NFC.String(snippet)

	counts := make(map[string]int)
	for line := range strings.Lines(snippet) {
		if strings.HasPrefix(line, "#!") {
			counts[shebangFeature]++
		}
	}

	var word strings.Builder

	flushWord := func() {
		if word.Len() == 0 {
			return
		}
		counts[strings.ToLower(word.String())]++
		word.Reset()
	}

	var punct []rune
	flushPunct := func() {
		if len(punct) == 0 {
			return
		}
		counts[string(punct)]++
		punct = punct[:0]
	}

	inWord := false
	wordRunes := 0
	for _, r := range snippet {
		switch {
		case isWordRune(r):
			flushPunct()
			if inWord {
				if wordRunes < maxWordRunes {
					word.WriteRune(r)
					wordRunes++
				}
				continue
			}
			if unicode.IsDigit(r) {
				// Digit-led runs are numbers, not identifiers.
				inWord = false
				continue
			}
			inWord = true
			wordRunes = 1
			word.WriteRune(r)
		case unicode.IsSpace(r):
			flushWord()
			flushPunct()
			inWord = false
		default:
			flushWord()
			inWord = false
			if len(punct) < maxPunctRunes {
				punct = append(punct, r)
			}
		}
	}
	flushWord()
	flushPunct()

	return counts
}

// isWordRune reports whether r can be part of an identifier-shaped token.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// truncateRunes shortens s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
