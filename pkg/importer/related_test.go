package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunResolvesRelatedContent(t *testing.T) {
	fsys := newTree(t, map[string]string{
		"course/alpha.mp4":      "alpha",
		"course/beta.mp4":       "beta",
		"course/beta.mp4.json":  `{"related_content":"alpha.mp4"}`,
		"course/gamma.pdf":      "gamma",
		"course/gamma.pdf.json": `{"related_content":"nonexistent"}`,
	})

	res, err := New(fsys, Options{}).Run("course", "chan")
	require.NoError(t, err)

	alpha := nodeByPath(t, res.Nodes, "chan/alpha/")
	beta := nodeByPath(t, res.Nodes, "chan/beta/")
	assert.Equal(t, []RelatedContent{{
		ID:    alpha.ID,
		Kind:  alpha.Kind,
		Path:  alpha.Path,
		Title: alpha.Title,
	}}, beta.RelatedContent)

	gamma := nodeByPath(t, res.Nodes, "chan/gamma/")
	assert.Nil(t, gamma.RelatedContent)
	fields, err := gamma.Fields()
	require.NoError(t, err)
	assert.NotContains(t, fields, "related_content")
}

func TestResolveRelatedContentKeepsOnlyHits(t *testing.T) {
	target := &Node{Slug: "unit-one", ID: "u1", Kind: KindTopic, Path: "c/unit-one/", Title: "Unit One"}
	src := &Node{Slug: "s", relatedRefs: []string{"missing", "Unit One", "unit-one.extra.bits"}}

	ResolveRelatedContent([]*Node{target, src})

	require.Len(t, src.RelatedContent, 2)
	assert.Equal(t, "u1", src.RelatedContent[0].ID)
	assert.Equal(t, "u1", src.RelatedContent[1].ID)
	assert.Nil(t, target.RelatedContent)
}

func TestResolveRelatedContentLastSlugWins(t *testing.T) {
	first := &Node{Slug: "dup", ID: "first"}
	second := &Node{Slug: "dup", ID: "second"}
	src := &Node{Slug: "s", relatedRefs: []string{"dup"}}

	ResolveRelatedContent([]*Node{first, second, src})

	require.Len(t, src.RelatedContent, 1)
	assert.Equal(t, "second", src.RelatedContent[0].ID)
}
