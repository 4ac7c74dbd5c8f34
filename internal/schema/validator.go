package schema

import (
	"encoding/json"
	"fmt"

	"github.com/fulmenhq/contentpacks/internal/assets"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a single validation error.
type ValidationError struct {
	Path    string `json:"path,omitempty"` // Single string path (e.g., "tags.0")
	Message string `json:"message"`
}

// Result holds the validation result.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// registry holds pre-compiled schemas keyed by asset name (e.g., "sidecar-metadata-v1.0.0").
var registry = make(map[string]*gojsonschema.Schema)

func init() {
	for _, info := range assets.Registry {
		if info.Family != "schema" {
			continue
		}
		schema, err := compile(info.Path)
		if err != nil {
			// Skip on error; Validate reports the schema as unknown
			continue
		}
		registry[info.Name] = schema
	}
}

func compile(path string) (*gojsonschema.Schema, error) {
	schemaBytes, ok := assets.GetSchema(path)
	if !ok || len(schemaBytes) == 0 {
		return nil, fmt.Errorf("schema asset %s not embedded", path)
	}
	// Convert YAML to JSON for gojsonschema
	var schemaData interface{}
	if err := yaml.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, err
	}
	jsonBytes, err := json.Marshal(schemaData)
	if err != nil {
		return nil, err
	}
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jsonBytes))
}

// Known reports whether a schema name is registered.
func Known(schemaName string) bool {
	_, ok := registry[schemaName]
	return ok
}

// Validate validates data (interface{}) against the named schema.
func Validate(data interface{}, schemaName string) (*Result, error) {
	return validate(gojsonschema.NewGoLoader(data), schemaName)
}

// ValidateBytes validates a raw JSON document against the named schema.
// Malformed JSON is returned as an error, not as a failed Result.
func ValidateBytes(raw []byte, schemaName string) (*Result, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("document is not valid JSON")
	}
	return validate(gojsonschema.NewBytesLoader(raw), schemaName)
}

func validate(doc gojsonschema.JSONLoader, schemaName string) (*Result, error) {
	schema, ok := registry[schemaName]
	if !ok {
		return nil, fmt.Errorf("schema %s not found in registry", schemaName)
	}

	result, err := schema.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	res := &Result{Valid: result.Valid()}
	if !result.Valid() {
		for _, verr := range result.Errors() {
			field := verr.Field()
			if field == "" {
				field = "root"
			}
			res.Errors = append(res.Errors, ValidationError{
				Path:    field,
				Message: verr.Description(),
			})
		}
	}

	return res, nil
}
