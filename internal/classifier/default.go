package classifier

import (
	"sync"
	"sync/atomic"
)

// The process-wide classifier is built at most once, survives for the
// process lifetime and is never torn down. Setup publishes it through
// an atomic pointer so IsTrained can answer without triggering a build.
var (
	setupOnce    sync.Once
	setupErr     error
	processWide  atomic.Pointer[Classifier]
)

// Setup builds the process-wide classifier from the embedded model.
// It is safe to call from multiple goroutines; exactly one build runs
// and every caller observes the fully built state afterwards. Repeated
// calls return the first build's outcome.
func Setup() error {
	setupOnce.Do(func() {
		model, err := DefaultModel()
		if err != nil {
			setupErr = err
			return
		}
		c, err := New(model)
		if err != nil {
			setupErr = err
			return
		}
		processWide.Store(c)
	})
	return setupErr
}

// Default returns the process-wide classifier, building it on first use.
func Default() (*Classifier, error) {
	if err := Setup(); err != nil {
		return nil, err
	}
	return processWide.Load(), nil
}

// IsTrained reports whether the process-wide classifier is built. It
// never initializes anything itself and never regresses to false once
// Setup has completed.
func IsTrained() bool {
	return processWide.Load() != nil
}

// Classify classifies a snippet with the process-wide classifier. It
// returns ErrNotTrained until Setup has completed.
func Classify(snippet string) (Language, error) {
	c := processWide.Load()
	if c == nil {
		return "", ErrNotTrained
	}
	return c.Classify(snippet)
}

// ClassifyOrDefault classifies a snippet with the process-wide
// classifier, falling back to DefaultLanguage while untrained.
func ClassifyOrDefault(snippet string) Language {
	c := processWide.Load()
	if c == nil {
		return DefaultLanguage
	}
	return c.ClassifyOrDefault(snippet)
}

// Rank ranks a snippet with the process-wide classifier. It returns
// ErrNotTrained until Setup has completed.
func Rank(snippet string) ([]Score, error) {
	c := processWide.Load()
	if c == nil {
		return nil, ErrNotTrained
	}
	return c.Rank(snippet)
}
