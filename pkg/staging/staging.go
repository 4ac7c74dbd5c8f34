// Package staging materializes imported payloads on a billy filesystem so
// the pack bundler can pick them up later.
package staging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/fulmenhq/contentpacks/pkg/safeio"
)

const (
	// ContentDir holds one file per non-exercise leaf, named <id>.<ext>.
	ContentDir = "content"
	// AssessmentDir holds the resource files extracted from exercise archives.
	AssessmentDir = "assessment"
)

// ContentStage writes leaf payloads under a directory of fsys.
type ContentStage struct {
	fs      billy.Filesystem
	dir     string
	created bool
}

// NewContentStage returns a stage rooted at dir. The directory is created on
// first use.
func NewContentStage(fsys billy.Filesystem, dir string) *ContentStage {
	return &ContentStage{fs: fsys, dir: dir}
}

// Stage copies r to <id>.<ext> and returns that name.
func (s *ContentStage) Stage(id, ext string, r io.Reader) (string, error) {
	if id == "" || strings.ContainsAny(id, "/\\") || strings.ContainsAny(ext, "/\\") {
		return "", fmt.Errorf("invalid staged name %q.%q", id, ext)
	}
	if !s.created {
		if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
			return "", fmt.Errorf("create staging directory %s: %w", s.dir, err)
		}
		s.created = true
	}
	name := id + "." + ext
	if err := writeAtomic(s.fs, s.fs.Join(s.dir, name), r); err != nil {
		return "", err
	}
	return name, nil
}

// Open reads back a staged payload.
func (s *ContentStage) Open(name string) (billy.File, error) {
	return s.fs.Open(s.fs.Join(s.dir, name))
}

// List returns the staged names in sorted order. A stage that never received
// a file lists nothing.
func (s *ContentStage) List() ([]string, error) {
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), tmpSuffix) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// AssessmentCache stores exercise resource files by their member path.
type AssessmentCache struct {
	fs  billy.Filesystem
	dir string
}

// NewAssessmentCache returns a cache rooted at dir.
func NewAssessmentCache(fsys billy.Filesystem, dir string) *AssessmentCache {
	return &AssessmentCache{fs: fsys, dir: dir}
}

// Cache writes r below the cache directory at the cleaned member path and
// returns that path as the reference. Members that would escape the cache
// directory are rejected.
func (c *AssessmentCache) Cache(name string, r io.Reader) (string, error) {
	ref, err := safeio.CleanMemberPath(name)
	if err != nil {
		return "", fmt.Errorf("assessment file %q: %w", name, err)
	}
	target := c.fs.Join(c.dir, ref)
	if err := c.fs.MkdirAll(path.Dir(path.Join(c.dir, ref)), 0o755); err != nil {
		return "", fmt.Errorf("create cache directory for %s: %w", ref, err)
	}
	if err := writeAtomic(c.fs, target, r); err != nil {
		return "", err
	}
	return ref, nil
}

// Open reads back a cached file by reference.
func (c *AssessmentCache) Open(ref string) (billy.File, error) {
	clean, err := safeio.CleanMemberPath(ref)
	if err != nil {
		return nil, err
	}
	return c.fs.Open(c.fs.Join(c.dir, clean))
}

const tmpSuffix = ".tmp"

// writeAtomic writes to a temporary sibling and renames it into place.
func writeAtomic(fsys billy.Filesystem, dst string, r io.Reader) error {
	tmp := dst + tmpSuffix
	f, err := fsys.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = fsys.Remove(tmp)
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("close %s: %w", dst, err)
	}
	if err := fsys.Rename(tmp, dst); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("rename %s: %w", dst, err)
	}
	return nil
}
