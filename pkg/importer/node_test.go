package importer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListAcceptsStringOrList(t *testing.T) {
	var doc struct {
		One  StringList `json:"one"`
		Many StringList `json:"many"`
		Null StringList `json:"null"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"one":"math","many":["a","b"],"null":null}`), &doc))
	assert.Equal(t, StringList{"math"}, doc.One)
	assert.Equal(t, StringList{"a", "b"}, doc.Many)
	assert.Nil(t, doc.Null)

	var bad StringList
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestMetadataUnmarshalDropsComputedKeys(t *testing.T) {
	var m Metadata
	raw := `{"title":"Fractions","tags":"math","id":"forged","sort_order":9,"license":"CC-BY"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	assert.Equal(t, "Fractions", m.Title)
	assert.Equal(t, StringList{"math"}, m.Tags)
	assert.Equal(t, map[string]json.RawMessage{"license": json.RawMessage(`"CC-BY"`)}, m.Extra)
}

func TestMetadataMergeOverWins(t *testing.T) {
	base := Metadata{
		Title:       "From archive",
		Description: "archive description",
		Extra:       map[string]json.RawMessage{"difficulty": json.RawMessage(`1`), "author": json.RawMessage(`"a"`)},
	}
	over := Metadata{
		Title: "From sidecar",
		Extra: map[string]json.RawMessage{"difficulty": json.RawMessage(`3`)},
	}
	got := base.Merge(over)

	assert.Equal(t, "From sidecar", got.Title)
	assert.Equal(t, "archive description", got.Description)
	assert.Equal(t, json.RawMessage(`3`), got.Extra["difficulty"])
	assert.Equal(t, json.RawMessage(`"a"`), got.Extra["author"])
	// base is left alone
	assert.Equal(t, json.RawMessage(`1`), base.Extra["difficulty"])
}

func TestMetadataExplicitEmptyTitle(t *testing.T) {
	var sidecar Metadata
	require.NoError(t, json.Unmarshal([]byte(`{"title": ""}`), &sidecar))
	assert.True(t, sidecar.HasTitle())

	var none Metadata
	require.NoError(t, json.Unmarshal([]byte(`{"description": "d"}`), &none))
	assert.False(t, none.HasTitle())

	got := Metadata{Title: "From archive"}.Merge(sidecar)
	assert.Equal(t, "", got.Title)
	assert.True(t, got.HasTitle())

	got = Metadata{Title: "From archive"}.Merge(none)
	assert.Equal(t, "From archive", got.Title)
}

func TestNodeMarshalTopic(t *testing.T) {
	n := &Node{Path: "chan/", Slug: "chan", Kind: KindTopic, ID: "root", Title: "Chan"}
	fields, err := n.Fields()
	require.NoError(t, err)

	assert.Equal(t, []interface{}{}, fields["contains"])
	assert.Equal(t, "root", fields["id"])
	assert.Equal(t, float64(0), fields["sort_order"])
	assert.NotContains(t, fields, "format")
	assert.NotContains(t, fields, "uses_assessment_items")
	assert.NotContains(t, fields, "related_content")
}

func TestNodeMarshalExtraNeverShadowsComputed(t *testing.T) {
	n := &Node{
		Path: "chan/a/", Slug: "a", Kind: KindVideo, ID: "abc", Title: "A", Format: "mp4",
		Extra: map[string]json.RawMessage{"slug": json.RawMessage(`"evil"`), "license": json.RawMessage(`"CC"`)},
	}
	fields, err := n.Fields()
	require.NoError(t, err)
	assert.Equal(t, "a", fields["slug"])
	assert.Equal(t, "CC", fields["license"])
	assert.Equal(t, "mp4", fields["format"])
	assert.NotContains(t, fields, "contains")
	assert.Equal(t, []string{"license", "slug"}, n.ExtraKeys())
}

func TestNodeMarshalExercise(t *testing.T) {
	n := &Node{
		Path: "chan/q/", Slug: "q", Kind: KindExercise, ID: "abc", Title: "Q",
		UsesAssessmentItems: true,
		AllAssessmentItems:  []ItemRef{{ID: "i1"}},
	}
	fields, err := n.Fields()
	require.NoError(t, err)
	assert.Equal(t, true, fields["uses_assessment_items"])
	assert.Equal(t, []interface{}{map[string]interface{}{"id": "i1"}}, fields["all_assessment_items"])
}

func TestNodeCloneIsDeep(t *testing.T) {
	n := &Node{
		Tags:     []string{"a"},
		Contains: []Kind{KindVideo},
		Extra:    map[string]json.RawMessage{"k": json.RawMessage(`1`)},
	}
	c := n.Clone()
	c.Tags[0] = "b"
	c.Contains[0] = KindAudio
	c.Extra["k"] = json.RawMessage(`2`)

	assert.Equal(t, "a", n.Tags[0])
	assert.Equal(t, KindVideo, n.Contains[0])
	assert.Equal(t, json.RawMessage(`1`), n.Extra["k"])
}
