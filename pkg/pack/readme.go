package pack

import (
	"fmt"
	"strings"

	"github.com/aymerick/raymond"

	"github.com/fulmenhq/contentpacks/internal/assets"
	"github.com/fulmenhq/contentpacks/pkg/importer"
)

const readmeTemplatePath = "templates/pack/README.md.hbs"

type readmeTopic struct {
	Title string `handlebars:"title"`
	Path  string `handlebars:"path"`
}

// RenderReadme renders the bundle README from the embedded template.
func RenderReadme(meta Metadata, res *importer.Result) (string, error) {
	src, err := assets.GetTemplate(readmeTemplatePath)
	if err != nil {
		return "", fmt.Errorf("load README template: %w", err)
	}
	tpl, err := raymond.Parse(string(src))
	if err != nil {
		return "", fmt.Errorf("parse README template: %w", err)
	}

	ctx := map[string]interface{}{
		"code":                  meta.Code,
		"name":                  meta.Name,
		"native_name":           nativeIfDifferent(meta),
		"channel":               meta.Channel,
		"software_version":      meta.SoftwareVersion,
		"build_id":              meta.BuildID,
		"generated_at":          meta.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		"content_count":         meta.ContentCount,
		"video_count":           meta.VideoCount,
		"assessment_item_count": meta.AssessmentItemCount,
		"topics":                topLevelTopics(res),
	}
	out, err := tpl.Exec(ctx)
	if err != nil {
		return "", fmt.Errorf("render README: %w", err)
	}
	return out, nil
}

func nativeIfDifferent(meta Metadata) string {
	if meta.NativeName == meta.Name {
		return ""
	}
	return meta.NativeName
}

// topLevelTopics lists the direct topic children of the root in sort order.
func topLevelTopics(res *importer.Result) []readmeTopic {
	if res == nil {
		return nil
	}
	var topics []readmeTopic
	for _, n := range res.Nodes {
		if n.IsTopic() && strings.Count(n.Path, "/") == 2 {
			topics = append(topics, readmeTopic{Title: n.Title, Path: n.Path})
		}
	}
	return topics
}
