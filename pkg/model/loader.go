package model

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type schemaDocument struct {
	Survey Schema `json:"survey" yaml:"survey"`
}

// Parse decodes a schema document from JSON or YAML and validates it. The
// document wraps the schema under a top-level "survey" key.
func Parse(data []byte) (Schema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Schema{}, fmt.Errorf("model: schema document is empty")
	}

	doc, err := parseDocument(data)
	if err != nil {
		return Schema{}, err
	}
	if err := Validate(doc.Survey); err != nil {
		return Schema{}, err
	}
	return doc.Survey, nil
}

func parseDocument(data []byte) (schemaDocument, error) {
	var doc schemaDocument
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return schemaDocument{}, fmt.Errorf("model: parse schema: invalid JSON or YAML")
}

// LoadFS reads a schema document at path within fsys.
func LoadFS(fsys fs.FS, path string) (Schema, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Schema{}, fmt.Errorf("model: read %s: %w", path, err)
	}
	schema, err := Parse(data)
	if err != nil {
		return Schema{}, fmt.Errorf("model: %s: %w", path, err)
	}
	return schema, nil
}

// LoadFile reads a schema document from the local filesystem.
func LoadFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("model: read %s: %w", path, err)
	}
	schema, err := Parse(data)
	if err != nil {
		return Schema{}, fmt.Errorf("model: %s: %w", path, err)
	}
	return schema, nil
}
