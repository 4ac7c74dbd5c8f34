// Package ignore decides which entries of an import tree are left out, using
// gitignore syntax from go-git plus doublestar exclude globs
package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// DefaultIgnoreFile is the per-tree ignore file read from the import root.
const DefaultIgnoreFile = ".contentignore"

// Matcher provides gitignore-based filtering of import entries
type Matcher struct {
	matcher  gitignore.Matcher
	excludes []string
	patterns int
}

// NewMatcher creates a matcher with two layers:
// 1. ignoreFile at the import root, in gitignore syntax (missing file is fine)
// 2. exclude globs in doublestar syntax, matched against the relative slash path
func NewMatcher(fsys billy.Filesystem, root, ignoreFile string, excludes []string) (*Matcher, error) {
	var patterns []gitignore.Pattern

	if ignoreFile != "" {
		lines, err := readIgnoreFile(fsys, fsys.Join(root, ignoreFile))
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			patterns = append(patterns, gitignore.ParsePattern(line, nil))
		}
	}

	cleaned := make([]string, 0, len(excludes))
	for _, glob := range excludes {
		glob = strings.TrimPrefix(strings.TrimSpace(glob), "/")
		if glob == "" {
			continue
		}
		if !doublestar.ValidatePattern(glob) {
			return nil, fmt.Errorf("invalid exclude pattern %q", glob)
		}
		cleaned = append(cleaned, glob)
	}

	return &Matcher{
		matcher:  gitignore.NewMatcher(patterns),
		excludes: cleaned,
		patterns: len(patterns),
	}, nil
}

// readIgnoreFile reads patterns from a text file (like .contentignore)
func readIgnoreFile(fsys billy.Filesystem, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ignore file %s: %w", name, err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ignore file %s: %w", name, err)
	}
	return patterns, nil
}

// Match reports whether the entry at rel (slash path below the import root)
// is ignored.
func (m *Matcher) Match(rel string, isDir bool) bool {
	parts := splitPath(rel)
	if len(parts) == 0 {
		return false
	}
	if m.matcher.Match(parts, isDir) {
		return true
	}
	joined := strings.Join(parts, "/")
	for _, glob := range m.excludes {
		if ok, _ := doublestar.Match(glob, joined); ok {
			return true
		}
	}
	return false
}


// Empty reports whether the matcher has no rules at all.
func (m *Matcher) Empty() bool { return m.patterns == 0 && len(m.excludes) == 0 }

// splitPath converts a slash-separated path into components for go-git matching
func splitPath(path string) []string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimPrefix(path, "/")

	parts := strings.Split(path, "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}
