package assets

import (
	"embed"
	"io/fs"
)

//go:embed embedded_templates
var Templates embed.FS

//go:embed embedded_schemas
var Schemas embed.FS

func GetTemplatesFS() fs.FS {
	if sub, err := fs.Sub(Templates, "embedded_templates"); err == nil {
		return sub
	}
	return Templates
}

func GetSchemasFS() fs.FS {
	if sub, err := fs.Sub(Schemas, "embedded_schemas"); err == nil {
		return sub
	}
	return Schemas
}

// GetTemplate reads a template relative to embedded_templates
// (e.g., "templates/pack/README.md.hbs").
func GetTemplate(relPath string) ([]byte, error) {
	return fs.ReadFile(GetTemplatesFS(), relPath)
}

// GetEmbeddedAsset retrieves an embedded asset by its full embed path
func GetEmbeddedAsset(path string) ([]byte, error) {
	if data, err := fs.ReadFile(Templates, path); err == nil {
		return data, nil
	}
	if data, err := fs.ReadFile(Schemas, path); err == nil {
		return data, nil
	}
	return nil, fs.ErrNotExist
}
