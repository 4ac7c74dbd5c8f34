package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/klauspost/compress/zip"

	"github.com/fulmenhq/contentpacks/pkg/logger"
)

// ErrMemberNotFound is returned when an archive has no member of the requested name.
var ErrMemberNotFound = errors.New("archive member not found")

const (
	exerciseConfigMember  = "exercise.json"
	assessmentItemsMember = "assessment_items.json"
)

// Archive is the read side of a bundled exercise.
type Archive interface {
	// Members lists member names in archive order.
	Members() []string
	// ReadMember returns the full content of a member or ErrMemberNotFound.
	ReadMember(name string) ([]byte, error)
	// OpenMember streams a member or returns ErrMemberNotFound.
	OpenMember(name string) (io.ReadCloser, error)
	Close() error
}

// ArchiveOpener opens exercise files as archives.
type ArchiveOpener interface {
	OpenArchive(fsys billy.Filesystem, path string) (Archive, error)
}

// ZipOpener reads exercise files as zip archives.
type ZipOpener struct{}

type zipArchive struct {
	file    billy.File
	reader  *zip.Reader
	members map[string]*zip.File
}

// OpenArchive implements ArchiveOpener.
func (ZipOpener) OpenArchive(fsys billy.Filesystem, name string) (Archive, error) {
	info, err := fsys.Stat(name)
	if err != nil {
		return nil, err
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read zip %s: %w", name, err)
	}
	members := make(map[string]*zip.File, len(zr.File))
	for _, zf := range zr.File {
		members[zf.Name] = zf
	}
	return &zipArchive{file: f, reader: zr, members: members}, nil
}

func (a *zipArchive) Members() []string {
	names := make([]string, 0, len(a.reader.File))
	for _, zf := range a.reader.File {
		names = append(names, zf.Name)
	}
	return names
}

func (a *zipArchive) OpenMember(name string) (io.ReadCloser, error) {
	zf, ok := a.members[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrMemberNotFound)
	}
	return zf.Open()
}

func (a *zipArchive) ReadMember(name string) ([]byte, error) {
	rc, err := a.OpenMember(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (a *zipArchive) Close() error { return a.file.Close() }

// FileCache stores supplementary exercise files and returns a stable reference.
type FileCache interface {
	Cache(name string, r io.Reader) (string, error)
}

// ExerciseData is what an exercise archive contributes to its node.
type ExerciseData struct {
	Config Metadata
	// HasItems is true when the archive carries an assessment_items.json member.
	HasItems bool
	Items    []AssessmentItem
	// Files are the cache references of the supplementary members.
	Files []string
}

// ExerciseReader extracts configuration, assessment items and resource
// files from exercise archives.
type ExerciseReader struct {
	opener ArchiveOpener
	cache  FileCache
}

// NewExerciseReader builds a reader. A nil opener defaults to zip; a nil
// cache skips resource extraction.
func NewExerciseReader(opener ArchiveOpener, cache FileCache) *ExerciseReader {
	if opener == nil {
		opener = ZipOpener{}
	}
	return &ExerciseReader{opener: opener, cache: cache}
}

// Read opens the archive at name and collects its exercise data. Missing
// exercise.json or assessment_items.json members are not errors.
func (r *ExerciseReader) Read(fsys billy.Filesystem, name string) (*ExerciseData, error) {
	ar, err := r.opener.OpenArchive(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("open exercise archive %s: %w", name, err)
	}
	defer ar.Close()

	data := &ExerciseData{}

	raw, err := ar.ReadMember(exerciseConfigMember)
	switch {
	case errors.Is(err, ErrMemberNotFound):
		logger.Debug("No exercise metadata available in archive", logger.String("file", name))
	case err != nil:
		return nil, fmt.Errorf("read %s from %s: %w", exerciseConfigMember, name, err)
	default:
		if err := json.Unmarshal(raw, &data.Config); err != nil {
			return nil, fmt.Errorf("%s in %s: %w", exerciseConfigMember, name, err)
		}
	}

	raw, err = ar.ReadMember(assessmentItemsMember)
	switch {
	case errors.Is(err, ErrMemberNotFound):
		logger.Debug("No assessment items found in archive", logger.String("file", name))
	case err != nil:
		return nil, fmt.Errorf("read %s from %s: %w", assessmentItemsMember, name, err)
	default:
		items, err := parseAssessmentItems(raw)
		if err != nil {
			return nil, fmt.Errorf("%s in %s: %w", assessmentItemsMember, name, err)
		}
		data.HasItems = true
		data.Items = items
	}

	if r.cache == nil {
		return data, nil
	}
	seen := make(map[string]struct{})
	for _, member := range ar.Members() {
		if !isResourceMember(member) {
			continue
		}
		ref, err := r.cacheMember(ar, member)
		if err != nil {
			return nil, fmt.Errorf("cache %s from %s: %w", member, name, err)
		}
		if _, dup := seen[ref]; !dup {
			seen[ref] = struct{}{}
			data.Files = append(data.Files, ref)
		}
	}
	sort.Strings(data.Files)
	return data, nil
}

func (r *ExerciseReader) cacheMember(ar Archive, member string) (string, error) {
	rc, err := ar.OpenMember(member)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return r.cache.Cache(member, rc)
}

// isResourceMember selects the members that are rendering resources:
// regular files that are not JSON documents.
func isResourceMember(name string) bool {
	if name == "" || strings.HasSuffix(name, "/") {
		return false
	}
	return !strings.EqualFold(path.Ext(name), ".json")
}

// parseAssessmentItems decodes the item list and addresses each item by the
// digest of its compact serialization.
func parseAssessmentItems(raw []byte) ([]AssessmentItem, error) {
	var defs []json.RawMessage
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, err
	}
	items := make([]AssessmentItem, 0, len(defs))
	for _, def := range defs {
		var buf bytes.Buffer
		if err := json.Compact(&buf, def); err != nil {
			return nil, err
		}
		items = append(items, AssessmentItem{
			ID:          HashBytes("", buf.Bytes()),
			ItemData:    buf.String(),
			AuthorNames: "",
		})
	}
	return items, nil
}
