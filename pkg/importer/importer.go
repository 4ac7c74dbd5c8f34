// Package importer builds a content tree from a directory hierarchy.
//
// Directories become Topic nodes, recognized files become leaf nodes, and
// exercise archives additionally contribute assessment items and resource
// files. The walk is single-threaded and deterministic: the same input
// always produces the same nodes, ids and sort orders.
package importer

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/fulmenhq/contentpacks/pkg/logger"
)

// ErrInvalidInput is returned when the import path or channel cannot be used.
var ErrInvalidInput = errors.New("invalid input")

// Options configures the collaborators of an import. Nil collaborators are
// skipped: without Stage nothing is copied, without Assets exercise
// resources are not extracted.
type Options struct {
	Stage    ContentStager
	Assets   FileCache
	Archives ArchiveOpener
	Ignore   IgnoreMatcher

	// ValidateMetadata checks sidecars against the embedded schema.
	ValidateMetadata bool
}

// Result is the output of one import run.
type Result struct {
	// Nodes are in sort order; the root topic is last.
	Nodes           []*Node
	AssessmentItems []AssessmentItem
	// AssessmentFiles are the sorted cache references of exercise resources.
	AssessmentFiles []string
}

// Root returns the root topic, or nil for an empty result.
func (r *Result) Root() *Node {
	for i := len(r.Nodes) - 1; i >= 0; i-- {
		if r.Nodes[i].ID == rootID {
			return r.Nodes[i]
		}
	}
	return nil
}

// CountKind returns the number of nodes of kind k.
func (r *Result) CountKind(k Kind) int {
	n := 0
	for _, node := range r.Nodes {
		if node.Kind == k {
			n++
		}
	}
	return n
}

// Importer walks a directory tree on a billy filesystem.
type Importer struct {
	fs   billy.Filesystem
	opts Options
}

// New returns an Importer reading from fsys.
func New(fsys billy.Filesystem, opts Options) *Importer {
	return &Importer{fs: fsys, opts: opts}
}

// Run imports the directory at location under channel. Input is checked
// before anything is read or staged.
func (im *Importer) Run(location, channel string) (*Result, error) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return nil, fmt.Errorf("%w: channel name is required", ErrInvalidInput)
	}
	location = strings.TrimSuffix(location, "/")
	if location == "" {
		return nil, fmt.Errorf("%w: import path is required", ErrInvalidInput)
	}
	info, err := im.fs.Stat(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, location, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidInput, location)
	}

	b := &builder{
		fs:        im.fs,
		root:      path.Clean(location),
		channel:   channel,
		meta:      NewMetadataReader(im.fs, im.opts.ValidateMetadata),
		exercises: NewExerciseReader(im.opts.Archives, im.opts.Assets),
		stage:     im.opts.Stage,
		ignore:    im.opts.Ignore,
	}
	cache := newBuildCache()
	if _, _, err := b.build(b.root, "", cache, 0); err != nil {
		return nil, err
	}

	ResolveRelatedContent(cache.nodes)

	files := make([]string, 0, len(cache.files))
	for ref := range cache.files {
		files = append(files, ref)
	}
	sort.Strings(files)

	items := cache.items
	if items == nil {
		items = []AssessmentItem{}
	}
	res := &Result{
		Nodes:           cache.nodes,
		AssessmentItems: items,
		AssessmentFiles: files,
	}
	logger.Info("Import complete",
		logger.String("channel", channel),
		logger.Int("nodes", len(res.Nodes)),
		logger.Int("assessment_items", len(res.AssessmentItems)),
		logger.Int("assessment_files", len(res.AssessmentFiles)))
	return res, nil
}
