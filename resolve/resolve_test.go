package resolve_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rocrate-validate/rocrate-validator/profile"
	"github.com/rocrate-validate/rocrate-validator/resolve"
)

func writeProfile(t *testing.T, dir, name, descriptor string, shapeFiles map[string]string) {
	t.Helper()
	profDir := filepath.Join(dir, name)
	if err := os.MkdirAll(profDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(profDir, profile.DescriptorFileName), []byte(descriptor), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	for fname, content := range shapeFiles {
		if err := os.WriteFile(filepath.Join(profDir, fname), []byte(content), 0o644); err != nil {
			t.Fatalf("write shape file: %v", err)
		}
	}
}

const baseDescriptor = `{
  "@context": "https://www.w3.org/ns/dx/prof/context.jsonld",
  "@id": "https://example.org/profiles/base",
  "hasToken": "base",
  "hasVersion": "1.0",
  "artifacts": { "shapes": ["shapes.json"] }
}`

const baseShapes = `{
  "shapes": [
    { "id": "Dataset", "targetClass": "schema:Dataset", "properties": [
      { "id": "name_required", "path": "schema:name", "minCount": 1, "message": "name required" }
    ] }
  ]
}`

const childDescriptor = `{
  "@context": "https://www.w3.org/ns/dx/prof/context.jsonld",
  "@id": "https://example.org/profiles/child",
  "hasToken": "child",
  "hasVersion": "1.0",
  "isProfileOf": ["https://example.org/profiles/base"],
  "artifacts": { "shapes": ["shapes.json"] }
}`

const childShapes = `{
  "shapes": [
    { "id": "Dataset", "targetClass": "schema:Dataset", "properties": [
      { "id": "name_required", "path": "schema:name", "minCount": 1, "message": "name required (overridden)" }
    ] },
    { "id": "License", "targetClass": "schema:Dataset", "properties": [
      { "id": "license_required", "path": "schema:license", "minCount": 1, "message": "license required" }
    ] }
  ]
}`

func buildRegistry(t *testing.T) *profile.Registry {
	t.Helper()
	dir := t.TempDir()
	writeProfile(t, dir, "base", baseDescriptor, map[string]string{"shapes.json": baseShapes})
	writeProfile(t, dir, "child", childDescriptor, map[string]string{"shapes.json": childShapes})

	reg := profile.NewRegistry(profile.NewProgrammaticChecks())
	if err := reg.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	return reg
}

func TestResolveOrdersBaseFirstAndOverrides(t *testing.T) {
	reg := buildRegistry(t)
	child, ok := reg.Get("child", nil)
	if !ok {
		t.Fatal("expected child profile registered")
	}

	reqs, err := resolve.Resolve(reg, child)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements (Dataset overridden, License added), got %d", len(reqs))
	}
	if reqs[0].ID != "Dataset" {
		t.Fatalf("expected Dataset requirement first (base-first order), got %q", reqs[0].ID)
	}
	if reqs[0].ProfileToken != "child" {
		t.Fatalf("expected child's override to win, got ProfileToken=%q", reqs[0].ProfileToken)
	}
	if reqs[0].Shape.Properties[0].Message != "name required (overridden)" {
		t.Fatalf("expected overridden message, got %q", reqs[0].Shape.Properties[0].Message)
	}
	if reqs[1].ID != "License" {
		t.Fatalf("expected License requirement second, got %q", reqs[1].ID)
	}
}

func TestResolveDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	aDesc := `{
	  "@context": "https://www.w3.org/ns/dx/prof/context.jsonld",
	  "@id": "https://example.org/profiles/a",
	  "hasToken": "a",
	  "hasVersion": "1.0",
	  "isProfileOf": ["https://example.org/profiles/b"],
	  "artifacts": { "shapes": [] }
	}`
	bDesc := `{
	  "@context": "https://www.w3.org/ns/dx/prof/context.jsonld",
	  "@id": "https://example.org/profiles/b",
	  "hasToken": "b",
	  "hasVersion": "1.0",
	  "isProfileOf": ["https://example.org/profiles/a"],
	  "artifacts": { "shapes": [] }
	}`
	writeProfile(t, dir, "a", aDesc, nil)
	writeProfile(t, dir, "b", bDesc, nil)

	reg := profile.NewRegistry(profile.NewProgrammaticChecks())
	if err := reg.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	a, _ := reg.Get("a", nil)
	if _, err := resolve.Resolve(reg, a); err == nil {
		t.Fatal("expected cycle detection error")
	}
}
