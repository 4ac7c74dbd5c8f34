package assets

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaInfo holds schema metadata.
type SchemaInfo struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Draft string `json:"draft"`
}

// GetSchema returns the embedded schema bytes by embed path
// (e.g., "embedded_schemas/schemas/content/v1.0.0/sidecar-metadata.yaml").
func GetSchema(relPath string) ([]byte, bool) {
	data, err := Schemas.ReadFile(relPath)
	return data, err == nil
}

// GetSchemaNames returns the registered schemas that are actually embedded.
func GetSchemaNames() []SchemaInfo {
	var infos []SchemaInfo
	for _, info := range Registry {
		if info.Family != "schema" {
			continue
		}
		if _, ok := GetSchema(info.Path); ok {
			infos = append(infos, SchemaInfo{Name: info.Name, Path: info.Path, Draft: detectDraft(info.Path)})
		}
	}
	return infos
}

// detectDraft heuristically detects draft from schema bytes via $schema key.
func detectDraft(path string) string {
	raw, ok := GetSchema(path)
	if !ok {
		return "Unknown"
	}
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return "Unknown"
		}
	}
	if m, ok := doc.(map[string]interface{}); ok {
		if v, ok := m["$schema"].(string); ok {
			if strings.Contains(v, "draft-07") {
				return "Draft-07"
			}
			if strings.Contains(v, "2020-12") {
				return "Draft-2020-12"
			}
		}
	}
	return "Unknown"
}
