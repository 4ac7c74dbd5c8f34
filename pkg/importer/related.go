package importer

import (
	"strings"

	"github.com/fulmenhq/contentpacks/pkg/logger"
)

// ResolveRelatedContent replaces the raw related_content entries of every
// node with references to the nodes they name. An entry names a node by the
// slug of its text up to the first "."; entries that match nothing are
// dropped, and a node left with no matches has no related content at all.
// When two nodes share a slug the later one in the list wins.
func ResolveRelatedContent(nodes []*Node) {
	bySlug := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		bySlug[n.Slug] = n
	}

	for _, n := range nodes {
		if n.relatedRefs == nil {
			continue
		}
		var resolved []RelatedContent
		for _, ref := range n.relatedRefs {
			key := ref
			if i := strings.Index(ref, "."); i >= 0 {
				key = ref[:i]
			}
			target, ok := bySlug[Slugify(key)]
			if !ok {
				logger.Debug("Related content not found",
					logger.String("node", n.Path), logger.String("ref", ref))
				continue
			}
			resolved = append(resolved, RelatedContent{
				ID:    target.ID,
				Kind:  target.Kind,
				Path:  target.Path,
				Title: target.Title,
			})
		}
		n.RelatedContent = resolved
	}
}
