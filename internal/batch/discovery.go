package batch

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// binarySniffBytes is how much of a file head is inspected for NUL
// bytes when deciding whether it is text.
const binarySniffBytes = 512

// discoverSourceFiles finds all classifiable files in the given files
// and directories, honoring include/exclude patterns and the size cap.
func discoverSourceFiles(args []string, config *Config) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			found, err := discoverInDirectory(arg, config)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
		} else if includeFile(arg, info.Size(), config) {
			files = append(files, arg)
		}
	}

	return files, nil
}

// discoverInDirectory walks a directory collecting classifiable files.
func discoverInDirectory(dir string, config *Config) ([]string, error) {
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !config.Recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		if includeFile(path, info.Size(), config) {
			files = append(files, path)
		}
		return nil
	}

	return files, filepath.Walk(dir, walkFn)
}

// includeFile decides whether a file enters the batch: pattern match,
// size cap, and a binary-content sniff.
func includeFile(path string, size int64, config *Config) bool {
	if !matchesPatterns(path, config.IncludePatterns, config.ExcludePatterns) {
		return false
	}
	if config.MaxFileBytes > 0 && size > config.MaxFileBytes {
		return false
	}
	return !looksBinary(path)
}

// matchesPatterns applies exclude patterns first, then include patterns.
// With no include patterns everything not excluded passes.
func matchesPatterns(path string, includePatterns, excludePatterns []string) bool {
	if matchesAnyPattern(path, excludePatterns) {
		return false
	}
	if len(includePatterns) == 0 {
		return true
	}
	return matchesAnyPattern(path, includePatterns)
}

// matchesAnyPattern checks if a file's base name matches any pattern.
func matchesAnyPattern(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// looksBinary reports whether the head of a file contains a NUL byte.
// Unreadable files are left in the batch so the worker reports the
// read error instead of silently dropping the file.
func looksBinary(path string) bool {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from CLI args
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, binarySniffBytes)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return false
	}
	return bytes.IndexByte(head[:n], 0) >= 0
}
