package importer

import (
	"bytes"
	"io"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// member is one zip entry; a name ending in "/" is a directory entry.
type member struct {
	name string
	body string
}

func newTree(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fsys := memfs.New()
	for name, body := range files {
		require.NoError(t, util.WriteFile(fsys, name, []byte(body), 0o644))
	}
	return fsys
}

func zipBytes(t *testing.T, members ...member) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range members {
		w, err := zw.Create(m.name)
		require.NoError(t, err)
		if m.body != "" {
			_, err = io.WriteString(w, m.body)
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeZip(t *testing.T, fsys billy.Filesystem, name string, members ...member) {
	t.Helper()
	require.NoError(t, util.WriteFile(fsys, name, zipBytes(t, members...), 0o644))
}

// recordingStage remembers what the builder staged.
type recordingStage struct {
	staged map[string]string
}

func newRecordingStage() *recordingStage {
	return &recordingStage{staged: make(map[string]string)}
}

func (s *recordingStage) Stage(id, ext string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	name := id + "." + ext
	s.staged[name] = string(data)
	return name, nil
}

// recordingCache returns the member name as the reference.
type recordingCache struct {
	files map[string]string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{files: make(map[string]string)}
}

func (c *recordingCache) Cache(name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	c.files[name] = string(data)
	return name, nil
}

type prefixIgnore []string

func (p prefixIgnore) Match(rel string, isDir bool) bool {
	for _, prefix := range p {
		if rel == prefix {
			return true
		}
	}
	return false
}

func nodeByPath(t *testing.T, nodes []*Node, p string) *Node {
	t.Helper()
	for _, n := range nodes {
		if n.Path == p {
			return n
		}
	}
	t.Fatalf("no node with path %q", p)
	return nil
}
