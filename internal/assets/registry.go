package assets

// Registry lists embedded assets available at runtime.
// Update this when adding/removing curated assets.

type AssetInfo struct {
	Family  string // e.g., schema, template
	Name    string // lookup name
	Version string
	Path    string // embed path
}

// Names used by the rest of the module to look assets up.
const (
	SidecarMetadataSchema = "sidecar-metadata-v1.0.0"
	PackReadmeTemplate    = "pack-readme"
)

var Registry = []AssetInfo{
	{
		Family:  "schema",
		Name:    SidecarMetadataSchema,
		Version: "v1.0.0",
		Path:    "embedded_schemas/schemas/content/v1.0.0/sidecar-metadata.yaml",
	},
	{
		Family:  "template",
		Name:    PackReadmeTemplate,
		Version: "v1.0.0",
		Path:    "embedded_templates/templates/pack/README.md.hbs",
	},
}

// Lookup finds a registry entry by name.
func Lookup(name string) (AssetInfo, bool) {
	for _, info := range Registry {
		if info.Name == name {
			return info, true
		}
	}
	return AssetInfo{}, false
}
