package safeio

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
)

var (
	// ErrTraversal is returned when a path would escape its base directory.
	ErrTraversal = errors.New("path traversal detected")
	// ErrEmptyPath is returned for paths that clean down to nothing.
	ErrEmptyPath = errors.New("empty path")
)

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	for _, seg := range strings.Split(filepath.ToSlash(c), "/") {
		if seg == ".." {
			return "", ErrTraversal
		}
	}
	return filepath.ToSlash(c), nil
}

// CleanMemberPath normalizes an archive member name into a relative slash
// path that is safe to join under an extraction root. Absolute names, drive
// letters and any ".." segment are rejected.
func CleanMemberPath(name string) (string, error) {
	n := strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	if n == "" {
		return "", ErrEmptyPath
	}
	if strings.HasPrefix(n, "/") || (len(n) > 1 && n[1] == ':') {
		return "", ErrTraversal
	}
	for _, seg := range strings.Split(n, "/") {
		if seg == ".." {
			return "", ErrTraversal
		}
	}
	c := path.Clean(n)
	if c == "." {
		return "", ErrEmptyPath
	}
	return c, nil
}
