package importer

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/fulmenhq/contentpacks/pkg/logger"
)

// rootID is the identifier of the node that stands for the import directory.
const rootID = "root"

// ContentStager receives the payload of every non-exercise leaf under the
// name <id>.<ext> and returns the staged name.
type ContentStager interface {
	Stage(id, ext string, r io.Reader) (string, error)
}

// IgnoreMatcher decides whether an entry, given as a slash path relative to
// the import root, is left out of the tree.
type IgnoreMatcher interface {
	Match(rel string, isDir bool) bool
}

// buildCache is the state threaded through one walk.
type buildCache struct {
	nodes []*Node
	slugs *SlugRegistry
	items []AssessmentItem
	files map[string]struct{}
}

func newBuildCache() *buildCache {
	return &buildCache{
		slugs: NewSlugRegistry(),
		files: make(map[string]struct{}),
	}
}

// builder holds the collaborators of one walk. It is not safe for concurrent use.
type builder struct {
	fs        billy.Filesystem
	root      string
	channel   string
	meta      *MetadataReader
	exercises *ExerciseReader
	stage     ContentStager
	ignore    IgnoreMatcher
}

// build visits location and returns its node together with the next free
// sort order. Entries that do not become nodes return a nil node and leave
// sortOrder untouched. Children are numbered before their topic, so the sort
// order of every node equals its index in cache.nodes.
func (b *builder) build(location, parentPath string, cache *buildCache, sortOrder float64) (*Node, float64, error) {
	location = strings.TrimSuffix(location, "/")
	base := path.Base(location)
	if IsSidecar(base) {
		return nil, sortOrder, nil
	}
	isRoot := parentPath == ""

	info, err := b.fs.Stat(location)
	if err != nil {
		return nil, sortOrder, fmt.Errorf("stat %s: %w", location, err)
	}
	isDir := info.IsDir()

	if !isRoot && b.ignore != nil && b.ignore.Match(b.relative(location), isDir) {
		logger.Debug("Skipping ignored entry", logger.String("path", location))
		return nil, sortOrder, nil
	}

	name := base
	if isRoot {
		name = b.channel
	}
	slug := cache.slugs.Allocate(name)

	meta, err := b.meta.Read(location)
	if err != nil {
		return nil, sortOrder, err
	}

	// unknown files still hold their slug
	kind, ok := Classify(base, isDir)
	if !ok {
		logger.Debug("Skipping file with unknown kind", logger.String("path", location))
		return nil, sortOrder, nil
	}
	node := &Node{
		Path: parentPath + slug + "/",
		Slug: slug,
		Kind: kind,
	}

	var items []AssessmentItem
	if isDir {
		node.ID = slug
		if isRoot {
			node.ID = rootID
		}
		node.apply(meta)
		sortOrder, err = b.buildChildren(node, location, cache, sortOrder)
		if err != nil {
			return nil, sortOrder, err
		}
	} else {
		node.ID, err = HashFile(b.fs, b.channel, location)
		if err != nil {
			return nil, sortOrder, err
		}
		if kind == KindExercise {
			data, err := b.exercises.Read(b.fs, location)
			if err != nil {
				return nil, sortOrder, err
			}
			node.apply(data.Config.Merge(meta))
			node.UsesAssessmentItems = data.HasItems
			items = data.Items
			for _, ref := range data.Files {
				cache.files[ref] = struct{}{}
			}
		} else {
			node.Format = Extension(base)
			if err := b.stageLeaf(node.ID, node.Format, location); err != nil {
				return nil, sortOrder, err
			}
			node.apply(meta)
		}
	}
	node.SortOrder = sortOrder

	if !node.titled {
		node.Title = defaultTitle(name, isDir)
		logger.Warn("No title found, using name", logger.String("path", location), logger.String("title", node.Title))
	}

	kept := node.Clone()
	if kind == KindExercise {
		kept.AllAssessmentItems = make([]ItemRef, 0, len(items))
		for _, item := range items {
			kept.AllAssessmentItems = append(kept.AllAssessmentItems, ItemRef{ID: item.ID})
		}
		cache.items = append(cache.items, items...)
	}
	cache.nodes = append(cache.nodes, kept)
	logger.Debug("Node built",
		logger.String("path", kept.Path),
		logger.String("kind", string(kept.Kind)),
		logger.Float("sort_order", kept.SortOrder))

	return node, sortOrder + 1, nil
}

// buildChildren walks the entries of a topic in name order and records the
// kinds found below it.
func (b *builder) buildChildren(topic *Node, location string, cache *buildCache, sortOrder float64) (float64, error) {
	entries, err := b.fs.ReadDir(location)
	if err != nil {
		return sortOrder, fmt.Errorf("read directory %s: %w", location, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	contains := make(map[Kind]struct{})
	for _, entry := range entries {
		child, next, err := b.build(b.fs.Join(location, entry.Name()), topic.Path, cache, sortOrder)
		if err != nil {
			return sortOrder, err
		}
		sortOrder = next
		if child == nil {
			continue
		}
		contains[child.Kind] = struct{}{}
		for _, k := range child.Contains {
			contains[k] = struct{}{}
		}
	}
	topic.Contains = sortedKinds(contains)
	return sortOrder, nil
}

func (b *builder) stageLeaf(id, ext, location string) error {
	if b.stage == nil {
		return nil
	}
	f, err := b.fs.Open(location)
	if err != nil {
		return fmt.Errorf("open %s: %w", location, err)
	}
	defer f.Close()
	staged, err := b.stage.Stage(id, ext, f)
	if err != nil {
		return fmt.Errorf("stage %s: %w", location, err)
	}
	logger.Debug("Staged content file", logger.String("source", location), logger.String("staged", staged))
	return nil
}

// relative returns location as a slash path below the import root.
func (b *builder) relative(location string) string {
	if b.root == "" || b.root == "." {
		return location
	}
	rel := strings.TrimPrefix(location, b.root)
	return strings.TrimPrefix(rel, "/")
}

// defaultTitle is the full name for directories and the name without its
// extension for files.
func defaultTitle(name string, isDir bool) string {
	if isDir {
		return name
	}
	if s := stem(name); s != "" {
		return s
	}
	return name
}
