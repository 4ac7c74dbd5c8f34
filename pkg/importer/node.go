package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fulmenhq/contentpacks/pkg/logger"
)

// StringList decodes either a single JSON string or an array of strings.
// A single string becomes a one-element list.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*s = many
	return nil
}

// computedKeys are owned by the builder. Metadata documents cannot set them.
var computedKeys = map[string]bool{
	"path":                  true,
	"slug":                  true,
	"sort_order":            true,
	"kind":                  true,
	"id":                    true,
	"format":                true,
	"contains":              true,
	"uses_assessment_items": true,
	"all_assessment_items":  true,
}

// Metadata is a sidecar or exercise.json document. Keys without a typed
// field are kept verbatim in Extra and emitted on the node.
type Metadata struct {
	Title string
	// titleSet records an explicit "title" key, which may be empty.
	titleSet bool

	Description    string
	Tags           StringList
	Keywords       StringList
	RelatedContent StringList
	Extra          map[string]json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Metadata{}
	for key, value := range raw {
		var err error
		switch key {
		case "title":
			err = json.Unmarshal(value, &m.Title)
			m.titleSet = true
		case "description":
			err = json.Unmarshal(value, &m.Description)
		case "tags":
			err = json.Unmarshal(value, &m.Tags)
		case "keywords":
			err = json.Unmarshal(value, &m.Keywords)
		case "related_content":
			err = json.Unmarshal(value, &m.RelatedContent)
		default:
			if computedKeys[key] {
				logger.Debug("Ignoring computed field in metadata", logger.String("key", key))
				continue
			}
			if m.Extra == nil {
				m.Extra = make(map[string]json.RawMessage)
			}
			m.Extra[key] = value
		}
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}
	return nil
}

// HasTitle reports whether the document names a title, including an
// explicit empty one.
func (m Metadata) HasTitle() bool { return m.titleSet || m.Title != "" }

// Merge returns m overlaid with over. Any field set in over wins.
func (m Metadata) Merge(over Metadata) Metadata {
	out := m
	if over.HasTitle() {
		out.Title = over.Title
		out.titleSet = true
	}
	if over.Description != "" {
		out.Description = over.Description
	}
	if over.Tags != nil {
		out.Tags = over.Tags
	}
	if over.Keywords != nil {
		out.Keywords = over.Keywords
	}
	if over.RelatedContent != nil {
		out.RelatedContent = over.RelatedContent
	}
	if len(m.Extra) > 0 || len(over.Extra) > 0 {
		out.Extra = make(map[string]json.RawMessage, len(m.Extra)+len(over.Extra))
		for k, v := range m.Extra {
			out.Extra[k] = v
		}
		for k, v := range over.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// AssessmentItem is one gradable question extracted from an exercise archive.
type AssessmentItem struct {
	ID          string `json:"id"`
	ItemData    string `json:"item_data"`
	AuthorNames string `json:"author_names"`
}

// ItemRef points at an AssessmentItem by id.
type ItemRef struct {
	ID string `json:"id"`
}

// RelatedContent is a resolved cross-reference to another node.
type RelatedContent struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Path  string `json:"path"`
	Title string `json:"title"`
}

// Node is one entry of the content tree: a Topic directory or a leaf file.
type Node struct {
	Path      string
	Slug      string
	SortOrder float64
	Kind      Kind
	ID        string
	Title     string
	// titled is set once metadata supplied a title, even an empty one.
	titled bool

	Description string
	Format      string
	Tags        []string
	Keywords    []string

	// Contains is set on Topic nodes only and is never nil for them.
	Contains []Kind

	UsesAssessmentItems bool
	// AllAssessmentItems is only attached to the copy kept in the result list.
	AllAssessmentItems []ItemRef

	RelatedContent []RelatedContent
	// relatedRefs holds raw related_content entries until resolution.
	relatedRefs []string

	Extra map[string]json.RawMessage
}

// IsTopic reports whether the node is a container.
func (n *Node) IsTopic() bool { return n.Kind == KindTopic }

// apply merges a metadata document into the node. Metadata values win over
// computed defaults; computed identity fields are never touched.
func (n *Node) apply(m Metadata) {
	if m.HasTitle() {
		n.Title = m.Title
		n.titled = true
	}
	if m.Description != "" {
		n.Description = m.Description
	}
	if m.Tags != nil {
		n.Tags = append([]string(nil), m.Tags...)
	}
	if m.Keywords != nil {
		n.Keywords = append([]string(nil), m.Keywords...)
	}
	if m.RelatedContent != nil {
		n.relatedRefs = append([]string(nil), m.RelatedContent...)
	}
	if len(m.Extra) > 0 {
		if n.Extra == nil {
			n.Extra = make(map[string]json.RawMessage, len(m.Extra))
		}
		for k, v := range m.Extra {
			n.Extra[k] = v
		}
	}
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	c.Tags = cloneStrings(n.Tags)
	c.Keywords = cloneStrings(n.Keywords)
	c.relatedRefs = cloneStrings(n.relatedRefs)
	if n.Contains != nil {
		c.Contains = append([]Kind{}, n.Contains...)
	}
	if n.AllAssessmentItems != nil {
		c.AllAssessmentItems = append([]ItemRef{}, n.AllAssessmentItems...)
	}
	if n.RelatedContent != nil {
		c.RelatedContent = append([]RelatedContent{}, n.RelatedContent...)
	}
	if n.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(n.Extra))
		for k, v := range n.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}

// MarshalJSON emits the node as a flat object. Extra metadata keys are
// written alongside the computed fields and never shadow them.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, 12+len(n.Extra))
	for k, v := range n.Extra {
		out[k] = v
	}
	out["path"] = n.Path
	out["slug"] = n.Slug
	out["sort_order"] = n.SortOrder
	out["kind"] = n.Kind
	out["id"] = n.ID
	out["title"] = n.Title
	if n.Description != "" {
		out["description"] = n.Description
	}
	if n.IsTopic() {
		contains := n.Contains
		if contains == nil {
			contains = []Kind{}
		}
		out["contains"] = contains
	}
	if n.Format != "" {
		out["format"] = n.Format
	}
	if n.Tags != nil {
		out["tags"] = n.Tags
	}
	if n.Keywords != nil {
		out["keywords"] = n.Keywords
	}
	if n.UsesAssessmentItems {
		out["uses_assessment_items"] = true
	}
	if n.AllAssessmentItems != nil {
		out["all_assessment_items"] = n.AllAssessmentItems
	}
	if len(n.RelatedContent) > 0 {
		out["related_content"] = n.RelatedContent
	}
	return json.Marshal(out)
}

// Fields returns the node as a generic map, in the shape MarshalJSON emits.
func (n *Node) Fields() (map[string]interface{}, error) {
	raw, err := n.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ExtraKeys lists the pass-through metadata keys in sorted order.
func (n *Node) ExtraKeys() []string {
	keys := make([]string, 0, len(n.Extra))
	for k := range n.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
