// Package testsupport holds fixture and golden-file helpers shared by the
// package tests.
package testsupport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveykit/pkg/answers"
	"github.com/goliatone/go-surveykit/pkg/model"
)

// MustLoadSchema reads and validates a schema fixture.
func MustLoadSchema(t *testing.T, path string) model.Schema {
	t.Helper()

	schema, err := model.LoadFile(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return schema
}

// MustLoadRawTree loads a JSON fixture holding a wire-shaped response tree.
func MustLoadRawTree(t *testing.T, path string) answers.RawTree {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load responses: %v", err)
	}
	var raw answers.RawTree
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal responses: %v", err)
	}
	return raw
}

// MustDecodeTree loads a raw tree fixture and types it against the schema.
func MustDecodeTree(t *testing.T, schema model.Schema, path string) answers.Tree {
	t.Helper()

	tree, err := answers.DecodeTree(schema, MustLoadRawTree(t, path))
	if err != nil {
		t.Fatalf("decode responses: %v", err)
	}
	return tree
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
