package common

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CleanPath sanitizes a file path to prevent directory traversal attacks
func CleanPath(path string) (string, error) {
	// Clean the path to remove any ../ or ./ sequences
	cleaned := filepath.Clean(path)

	// Check for suspicious patterns
	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid path: contains directory traversal")
	}

	// Convert to absolute path if needed
	if !filepath.IsAbs(cleaned) {
		abs, err := filepath.Abs(cleaned)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		cleaned = abs
	}

	return cleaned, nil
}

// TopLevel returns the first segment of a relative slash- or
// OS-separated path. It is the unit of granularity used when deleting
// and staging vendored files.
func TopLevel(path string) string {
	path = filepath.ToSlash(filepath.Clean(path))
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

// TopLevels returns the distinct top-level components of the given
// relative paths, in first-seen order.
func TopLevels(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var tops []string
	for _, p := range paths {
		top := TopLevel(p)
		if top == "" || top == "." {
			continue
		}
		if !seen[top] {
			seen[top] = true
			tops = append(tops, top)
		}
	}
	return tops
}
