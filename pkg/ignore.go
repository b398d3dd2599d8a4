package dupetree

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreManager holds glob patterns for paths that should not be materialized.
// Patterns use doublestar syntax and are matched against slash-separated paths
// relative to the walked root.
type IgnoreManager struct {
	patterns []string
}

// NewIgnoreManager creates an ignore manager seeded with patterns
func NewIgnoreManager(patterns ...string) (*IgnoreManager, error) {
	im := &IgnoreManager{patterns: make([]string, 0, len(patterns))}
	for _, pattern := range patterns {
		if err := im.AddPattern(pattern); err != nil {
			return nil, err
		}
	}
	return im, nil
}

// AddPattern adds a new ignore pattern
func (im *IgnoreManager) AddPattern(pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid ignore pattern: %s", pattern)
	}
	im.patterns = append(im.patterns, pattern)
	return nil
}

// LoadIgnoreFile appends patterns from an ignore file. A missing file is not an error.
func (im *IgnoreManager) LoadIgnoreFile(path string) error {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := im.AddPattern(line); err != nil {
			return fmt.Errorf("%s line %d: %w", path, lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ignore file: %w", err)
	}
	return nil
}

// ForRoot returns a copy extended with the root's own ignore file, if any
func (im *IgnoreManager) ForRoot(root string) (*IgnoreManager, error) {
	scoped := &IgnoreManager{}
	if im != nil {
		scoped.patterns = append(scoped.patterns, im.patterns...)
	}
	if err := scoped.LoadIgnoreFile(filepath.Join(root, IgnoreFileName)); err != nil {
		return nil, err
	}
	return scoped, nil
}

// ShouldIgnore checks if a root-relative path matches any pattern
func (im *IgnoreManager) ShouldIgnore(relativePath string) bool {
	if im == nil || len(im.patterns) == 0 {
		return false
	}

	normalisedPath := filepath.ToSlash(relativePath)
	for _, pattern := range im.patterns {
		if matched, _ := doublestar.Match(pattern, normalisedPath); matched {
			return true
		}
	}
	return false
}

// Patterns returns the loaded patterns
func (im *IgnoreManager) Patterns() []string {
	if im == nil {
		return nil
	}
	return im.patterns
}

// HasPatterns returns true if there are any ignore patterns loaded
func (im *IgnoreManager) HasPatterns() bool {
	return im != nil && len(im.patterns) > 0
}
