// Package batch classifies many source files in parallel with a worker
// pool, glob-based file discovery, and json/csv/text output.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/glotscan/glot/internal/classifier"
	"github.com/glotscan/glot/internal/models"
)

// ProcessBatch discovers, classifies, and aggregates results for the
// given files and directories.
func ProcessBatch(ctx context.Context, args []string, config *Config) (*Result, error) {
	if len(args) == 0 {
		return nil, errors.New("no input files or directories provided")
	}
	if config == nil {
		return nil, errors.New("batch config cannot be nil")
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}

	c, err := buildClassifier(config)
	if err != nil {
		return nil, err
	}

	files, err := discoverSourceFiles(args, config)
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no classifiable files found")
	}

	slog.Debug("Starting batch classification",
		"files", len(files),
		"workers", config.Workers,
	)

	progress := buildProgressCallback(config)

	start := time.Now()
	results, err := classifyFilesParallel(ctx, c, files, config, progress)
	if err != nil {
		return nil, err
	}

	return &Result{
		Results:     results,
		Duration:    time.Since(start),
		WorkerCount: config.Workers,
	}, nil
}

// buildClassifier loads the configured model table, falling back to the
// embedded default when none is specified.
func buildClassifier(config *Config) (*classifier.Classifier, error) {
	var model *classifier.Model
	var err error

	switch {
	case config.ModelPath != "":
		path := models.ResolveModelPath(config.ModelsDir, config.ModelPath)
		if err := models.ValidateModelExists(path); err != nil {
			return nil, err
		}
		model, err = classifier.LoadModel(path)
	default:
		model, err = classifier.DefaultModel()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	return classifier.New(model)
}

// buildProgressCallback selects the progress reporter for the run.
func buildProgressCallback(config *Config) ProgressCallback {
	if !config.ShowProgress || config.Quiet {
		return NoOpProgressCallback{}
	}
	cb := NewConsoleProgressCallback(os.Stderr, "")
	if config.ProgressInterval > 0 {
		cb = cb.WithUpdateInterval(config.ProgressInterval)
	}
	return cb
}
