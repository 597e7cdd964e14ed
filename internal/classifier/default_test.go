package classifier

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProcessWideLifecycle drives the package-level classifier through
// its whole life: untrained, concurrently initialized exactly once,
// then trained for good. It is the only test in this package touching
// the process-wide state, so the initial untrained phase is reliable.
func TestProcessWideLifecycle(t *testing.T) {
	// Phase 1: nothing is built yet and nothing builds implicitly.
	assert.False(t, IsTrained())

	_, err := Classify("function foo() {}")
	require.ErrorIs(t, err, ErrNotTrained)

	_, err = Rank("function foo() {}")
	require.ErrorIs(t, err, ErrNotTrained)

	assert.Equal(t, DefaultLanguage, ClassifyOrDefault("package main"))
	assert.False(t, IsTrained(), "probing must not build the model")

	// Phase 2: many goroutines race the first initialization. All must
	// succeed and observe the same single classifier instance.
	const goroutines = 32
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		instance *Classifier
	)
	errs := make([]error, goroutines)
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = Setup()
			c, err := Default()
			if err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if instance == nil {
				instance = c
			} else if instance != c {
				errs[i] = assert.AnError
			}
		}()
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err, "goroutine %d", i)
	}
	require.NotNil(t, instance)

	// Phase 3: trained, and it stays that way.
	assert.True(t, IsTrained())

	lang, err := Classify("function foo() { return 1; }")
	require.NoError(t, err)
	assert.Equal(t, JavaScript, lang)

	lang, err = Classify("public class Foo { void bar() {} }")
	require.NoError(t, err)
	assert.Equal(t, Java, lang)

	assert.Equal(t, Go, ClassifyOrDefault("package main\nfunc main() {}"))

	scores, err := Rank("def foo():\n    return 1\n")
	require.NoError(t, err)
	require.NotEmpty(t, scores)
	assert.Equal(t, Python, scores[0].Language)

	require.NoError(t, Setup(), "repeated setup must stay idempotent")
	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, instance, again, "setup must never rebuild the model")
	assert.True(t, IsTrained())
}
