package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minhvu/coolsearch/internal/domain"
)

// ReadLines reads a line-oriented UTF-8 catalog source file. A missing file
// yields an empty catalog, not an error; the caller just ends up with nothing
// to sync.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return lines, nil
}

// ParseFile reads and parses a catalog source file in one pass.
func ParseFile(path string) ([]domain.Product, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	return NewParser().ParseLines(lines), nil
}

// WriteArtifact serializes the parsed catalog as an ordered JSON list. The
// artifact is the hand-off format between the parser and the sync pipeline.
func WriteArtifact(path string, products []domain.Product) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create artifact directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog artifact: %w", err)
	}
	return nil
}

// ReadArtifact loads a previously written catalog artifact. A missing file
// yields an empty catalog.
func ReadArtifact(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read catalog artifact: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog artifact: %w", err)
	}
	return products, nil
}
