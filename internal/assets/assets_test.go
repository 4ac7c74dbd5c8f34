package assets

import (
	"bytes"
	"io/fs"
	"testing"
)

func TestGetTemplatesFS(t *testing.T) {
	fsys := GetTemplatesFS()
	if fsys == nil {
		t.Fatal("GetTemplatesFS returned nil")
	}

	data, err := fs.ReadFile(fsys, "templates/pack/README.md.hbs")
	if err != nil {
		t.Fatalf("Failed to read pack README template: %v", err)
	}
	if !bytes.Contains(data, []byte("{{name}}")) {
		t.Fatalf("pack README template should reference the pack name")
	}
}

func TestGetSchemasFS(t *testing.T) {
	fsys := GetSchemasFS()
	if fsys == nil {
		t.Fatal("GetSchemasFS returned nil")
	}

	data, err := fs.ReadFile(fsys, "schemas/content/v1.0.0/sidecar-metadata.yaml")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	if len(data) == 0 {
		t.Error("Schema file is empty")
	}
}

func TestRegistryEntriesAreEmbedded(t *testing.T) {
	for _, info := range Registry {
		t.Run(info.Name, func(t *testing.T) {
			data, err := GetEmbeddedAsset(info.Path)
			if err != nil {
				t.Fatalf("registry entry %s not embedded at %s: %v", info.Name, info.Path, err)
			}
			if len(data) == 0 {
				t.Fatalf("registry entry %s is empty", info.Name)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	info, ok := Lookup(SidecarMetadataSchema)
	if !ok {
		t.Fatal("sidecar schema not registered")
	}
	if info.Family != "schema" {
		t.Errorf("Family = %q; want schema", info.Family)
	}
	if _, ok := Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
}

func TestGetSchemaNames(t *testing.T) {
	names := GetSchemaNames()
	if len(names) != 1 {
		t.Fatalf("expected one embedded schema, got %d", len(names))
	}
	if names[0].Draft != "Draft-07" {
		t.Errorf("Draft = %q; want Draft-07", names[0].Draft)
	}
}

func TestGetEmbeddedAssetMissing(t *testing.T) {
	if _, err := GetEmbeddedAsset("embedded_templates/nope.hbs"); err == nil {
		t.Fatal("expected error for missing asset")
	}
}
