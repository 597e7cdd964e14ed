package batch

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/glotscan/glot/internal/classifier"
	"github.com/glotscan/glot/internal/common"
)

// fileJob represents a single file classification job.
type fileJob struct {
	index int
	path  string
}

// fileJobResult represents the outcome of classifying a single file.
type fileJobResult struct {
	index  int
	result FileResult
	err    error
}

// classifyFilesParallel classifies files using a worker pool and returns
// results in input order. With ContinueOnError set, per-file failures are
// recorded in the result rather than aborting the run.
func classifyFilesParallel(
	ctx context.Context,
	c *classifier.Classifier,
	files []string,
	config *Config,
	progress ProgressCallback,
) ([]FileResult, error) {
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	if progress == nil {
		progress = NoOpProgressCallback{}
	}
	progress.OnStart(len(files))
	defer progress.OnComplete()

	jobs := make(chan fileJob, len(files))
	results := make(chan fileJobResult, len(files))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			classifyWorker(ctx, c, config, jobs, results)
		}()
	}

	go func() {
		defer close(jobs)
		for i, path := range files {
			select {
			case jobs <- fileJob{index: i, path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]FileResult, len(files))
	var firstErr error
	processed := 0

	for res := range results {
		ordered[res.index] = res.result
		processed++

		if res.err != nil {
			progress.OnError(res.index, res.err)
			if !config.ContinueOnError && firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", files[res.index], res.err)
			}
		}
		progress.OnProgress(processed, len(files))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return ordered, nil
}

// classifyWorker pulls jobs from the channel until it is closed or the
// context is canceled.
func classifyWorker(
	ctx context.Context,
	c *classifier.Classifier,
	config *Config,
	jobs <-chan fileJob,
	results chan<- fileJobResult,
) {
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}

			result, err := classifyFile(c, job.path, config)

			select {
			case results <- fileJobResult{index: job.index, result: result, err: err}:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// classifyFile reads and classifies a single file.
func classifyFile(c *classifier.Classifier, path string, config *Config) (FileResult, error) {
	timer := common.NewTimer()
	result := FileResult{Path: path}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from batch discovery
	if err != nil {
		err = fmt.Errorf("failed to read file: %w", err)
		result.Error = err.Error()
		result.DurationMs = timer.Stop().Milliseconds()
		return result, err
	}

	snippet := string(data)
	lang, err := c.Classify(snippet)
	if err != nil {
		result.Error = err.Error()
		result.DurationMs = timer.Stop().Milliseconds()
		return result, err
	}

	scores, err := c.Rank(snippet)
	if err != nil {
		result.Error = err.Error()
		result.DurationMs = timer.Stop().Milliseconds()
		return result, err
	}

	result.Language = lang
	result.Name = lang.Name()
	for _, s := range scores {
		if s.Language == lang {
			result.Confidence = s.Confidence
			break
		}
	}
	if config.Rank {
		result.Scores = scores
	}
	result.DurationMs = timer.Stop().Milliseconds()
	return result, nil
}
