package staging

import (
	"io"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/contentpacks/pkg/safeio"
)

func TestContentStageCreatesDirectoryOnFirstUse(t *testing.T) {
	fsys := memfs.New()
	stage := NewContentStage(fsys, "build/content")

	names, err := stage.List()
	require.NoError(t, err)
	assert.Empty(t, names)
	_, err = fsys.Stat("build/content")
	assert.Error(t, err, "directory should not exist before staging")

	name, err := stage.Stage("abc123", "mp4", strings.NewReader("frames"))
	require.NoError(t, err)
	assert.Equal(t, "abc123.mp4", name)

	data, err := util.ReadFile(fsys, "build/content/abc123.mp4")
	require.NoError(t, err)
	assert.Equal(t, "frames", string(data))
}

func TestContentStageOpenAndList(t *testing.T) {
	stage := NewContentStage(memfs.New(), "content")
	_, err := stage.Stage("b", "pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	_, err = stage.Stage("a", "mp4", strings.NewReader("mp4"))
	require.NoError(t, err)

	names, err := stage.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp4", "b.pdf"}, names)

	f, err := stage.Open("b.pdf")
	require.NoError(t, err)
	defer f.Close()
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(body))
}

func TestContentStageRejectsPathsInNames(t *testing.T) {
	stage := NewContentStage(memfs.New(), "content")
	_, err := stage.Stage("../x", "mp4", strings.NewReader(""))
	assert.Error(t, err)
	_, err = stage.Stage("", "mp4", strings.NewReader(""))
	assert.Error(t, err)
}

func TestContentStageOnDisk(t *testing.T) {
	dir := t.TempDir()
	stage := NewContentStage(osfs.New(dir), ContentDir)
	_, err := stage.Stage("id", "txt", strings.NewReader("on disk"))
	require.NoError(t, err)

	names, err := stage.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"id.txt"}, names)
}

func TestAssessmentCache(t *testing.T) {
	fsys := memfs.New()
	cache := NewAssessmentCache(fsys, "build/assessment")

	tests := []struct {
		name    string
		member  string
		wantRef string
		wantErr error
	}{
		{name: "nested", member: "images/a.png", wantRef: "images/a.png"},
		{name: "backslashes", member: `images\b.png`, wantRef: "images/b.png"},
		{name: "dot segments", member: "./images/./c.png", wantRef: "images/c.png"},
		{name: "traversal", member: "../escape.png", wantErr: safeio.ErrTraversal},
		{name: "absolute", member: "/etc/passwd", wantErr: safeio.ErrTraversal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := cache.Cache(tt.member, strings.NewReader(tt.name))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRef, ref)

			f, err := cache.Open(ref)
			require.NoError(t, err)
			defer f.Close()
			body, err := io.ReadAll(f)
			require.NoError(t, err)
			assert.Equal(t, tt.name, string(body))
		})
	}
}

func TestAssessmentCacheSameMemberOverwrites(t *testing.T) {
	cache := NewAssessmentCache(memfs.New(), AssessmentDir)
	first, err := cache.Cache("a.png", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := cache.Cache("a.png", strings.NewReader("two"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	f, err := cache.Open(first)
	require.NoError(t, err)
	defer f.Close()
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "two", string(body))
}
