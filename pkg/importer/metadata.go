package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/fulmenhq/contentpacks/internal/assets"
	"github.com/fulmenhq/contentpacks/internal/schema"
	"github.com/fulmenhq/contentpacks/pkg/logger"
)

// ErrMalformedMetadata is returned when a sidecar document cannot be parsed
// or does not match the sidecar schema.
var ErrMalformedMetadata = errors.New("malformed metadata")

// sidecarName returns the metadata document path for an entry.
func sidecarName(location string) string { return location + ".json" }

// MetadataReader loads sidecar documents from the import filesystem.
type MetadataReader struct {
	fs       billy.Filesystem
	validate bool
}

// NewMetadataReader returns a reader over fsys. With validate set, every
// sidecar is checked against the embedded sidecar schema.
func NewMetadataReader(fsys billy.Filesystem, validate bool) *MetadataReader {
	return &MetadataReader{fs: fsys, validate: validate}
}

// Read returns the sidecar for location. A missing sidecar is logged and
// yields empty metadata.
func (r *MetadataReader) Read(location string) (Metadata, error) {
	name := sidecarName(location)
	f, err := r.fs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("No metadata for file", logger.String("file", location))
			return Metadata{}, nil
		}
		return Metadata{}, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return Metadata{}, fmt.Errorf("read %s: %w", name, err)
	}
	return r.decode(name, raw)
}

func (r *MetadataReader) decode(name string, raw []byte) (Metadata, error) {
	if r.validate {
		res, err := schema.ValidateBytes(raw, assets.SidecarMetadataSchema)
		if err != nil {
			return Metadata{}, fmt.Errorf("%w: %s: %v", ErrMalformedMetadata, name, err)
		}
		if !res.Valid {
			msgs := make([]string, 0, len(res.Errors))
			for _, e := range res.Errors {
				msgs = append(msgs, e.Path+": "+e.Message)
			}
			return Metadata{}, fmt.Errorf("%w: %s: %s", ErrMalformedMetadata, name, strings.Join(msgs, "; "))
		}
	}

	var m Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return Metadata{}, fmt.Errorf("%w: %s: %v", ErrMalformedMetadata, name, err)
	}
	return m, nil
}
