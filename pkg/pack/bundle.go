package pack

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/klauspost/compress/zip"

	"github.com/fulmenhq/contentpacks/pkg/importer"
	"github.com/fulmenhq/contentpacks/pkg/logger"
)

// Fixed entry names inside the bundle.
const (
	MetadataEntry        = "metadata.json"
	ContentEntry         = "content.json"
	AssessmentItemsEntry = "assessmentitems.json"
	ReadmeEntry          = "README.md"
	ContentPrefix        = "content/"
	AssessmentPrefix     = "assessment/"
)

// FileSource opens staged files by name.
type FileSource interface {
	Open(name string) (billy.File, error)
}

// Contents is everything that goes into one bundle.
type Contents struct {
	Options  Options
	Metadata Metadata
	Result   *importer.Result

	// Content serves <id>.<format> payloads of leaf nodes.
	Content FileSource
	// Assessment serves exercise resource files by reference.
	Assessment FileSource
}

// Bundle writes the pack as a zip archive to w. Entry order and timestamps
// depend only on c, so equal inputs give equal archives.
func Bundle(w io.Writer, c Contents) error {
	if c.Result == nil {
		return fmt.Errorf("bundle: no import result")
	}
	zw := zip.NewWriter(w)
	b := &bundler{zw: zw, modified: c.Metadata.GeneratedAt}
	if b.modified.IsZero() {
		b.modified = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	if err := b.writeJSON(MetadataEntry, c.Metadata); err != nil {
		return err
	}
	if err := b.writeJSON(ContentEntry, c.Result.Nodes); err != nil {
		return err
	}
	items := c.Result.AssessmentItems
	if c.Options.NoAssessmentItems || items == nil {
		items = []importer.AssessmentItem{}
	}
	if err := b.writeJSON(AssessmentItemsEntry, items); err != nil {
		return err
	}
	readme, err := RenderReadme(c.Metadata, c.Result)
	if err != nil {
		return err
	}
	if err := b.writeBytes(ReadmeEntry, []byte(readme)); err != nil {
		return err
	}

	if c.Content != nil {
		for _, name := range ContentFiles(c.Result) {
			if err := b.copyFrom(c.Content, name, ContentPrefix+name); err != nil {
				return err
			}
		}
	}
	if c.Assessment != nil && !c.Options.NoAssessmentResources {
		for _, ref := range c.Result.AssessmentFiles {
			if err := b.copyFrom(c.Assessment, ref, AssessmentPrefix+ref); err != nil {
				return err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish bundle: %w", err)
	}
	logger.Debug("Bundle written", logger.Int("entries", b.entries))
	return nil
}

// ContentFiles lists the staged payload names referenced by res, sorted and
// without duplicates.
func ContentFiles(res *importer.Result) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, n := range res.Nodes {
		if n.IsTopic() || n.Kind == importer.KindExercise || n.Format == "" {
			continue
		}
		name := n.ID + "." + n.Format
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type bundler struct {
	zw       *zip.Writer
	modified time.Time
	entries  int
}

func (b *bundler) create(name string) (io.Writer, error) {
	w, err := b.zw.CreateHeader(&zip.FileHeader{
		Name:     path.Clean(name),
		Method:   zip.Deflate,
		Modified: b.modified,
	})
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", name, err)
	}
	b.entries++
	return w, nil
}

func (b *bundler) writeBytes(name string, data []byte) error {
	w, err := b.create(name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (b *bundler) writeJSON(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return b.writeBytes(name, data)
}

func (b *bundler) copyFrom(src FileSource, name, entry string) error {
	f, err := src.Open(name)
	if err != nil {
		return fmt.Errorf("open staged %s: %w", name, err)
	}
	defer f.Close()
	w, err := b.create(entry)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copy %s: %w", name, err)
	}
	return nil
}
