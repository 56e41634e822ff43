package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Directories never searched when walking a target.
var excludeDirs = []string{".git", "build", "node_modules", "vendor"}

// findFiles returns target itself when it is a file, or every file below it
// accepted by match when it is a directory.
func findFiles(target string, match func(string) bool) ([]string, error) {
	var files []string

	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{target}, nil
	}

	err = filepath.Walk(target, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		for _, excludeDir := range excludeDirs {
			if info.IsDir() && info.Name() == excludeDir {
				return filepath.SkipDir
			}
		}

		if !info.IsDir() && match(path) {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

// findAll expands every target with findFiles, keeping argument order.
func findAll(targets []string, match func(string) bool) ([]string, error) {
	var files []string
	for _, target := range targets {
		found, err := findFiles(target, match)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", target, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

// isHeader checks if a file is a C header file
func isHeader(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".h"
}

// isCSource checks if a file is a C source file
func isCSource(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".c"
}

// readInput reads a file, or standard input when name is "-".
func readInput(name string, stdin io.Reader) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", name, err)
	}
	return string(data), nil
}

// writeToFile writes content to a specific file
func writeToFile(filename string, content []byte) error {
	if err := os.WriteFile(filename, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
