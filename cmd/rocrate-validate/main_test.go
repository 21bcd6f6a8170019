package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validCrate = `{
  "@context": "https://w3id.org/ro-crate/1.1/context",
  "@graph": [
    { "@id": "ro-crate-metadata.json", "@type": "CreativeWork", "about": { "@id": "./" } },
    { "@id": "./", "@type": "Dataset", "name": "a named dataset", "description": "d", "datePublished": "2024-01-01" }
  ]
}`

const invalidCrate = `{
  "@context": "https://w3id.org/ro-crate/1.1/context",
  "@graph": [
    { "@id": "ro-crate-metadata.json", "@type": "CreativeWork", "about": { "@id": "./" } },
    { "@id": "./", "@type": "Dataset" }
  ]
}`

func writeCrate(t *testing.T, metadata string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ro-crate-metadata.json"), []byte(metadata), 0o644); err != nil {
		t.Fatalf("write metadata: %v", err)
	}
	return dir
}

func TestRunNoArgsReturnsUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader(""), &stdout, &stderr)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--help"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "usage:") {
		t.Fatalf("expected usage text, got %q", stdout.String())
	}
}

func TestRunValidateValidCrateExitsZero(t *testing.T) {
	dir := writeCrate(t, validCrate)
	var stdout, stderr bytes.Buffer
	code := run([]string{"validate", dir}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0, stderr=%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "valid") {
		t.Fatalf("expected report to say valid, got %q", stdout.String())
	}
}

func TestRunValidateInvalidCrateExitsOne(t *testing.T) {
	dir := writeCrate(t, invalidCrate)
	var stdout, stderr bytes.Buffer
	code := run([]string{"validate", dir}, strings.NewReader(""), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1, stdout=%s", code, stdout.String())
	}
}

func TestRunValidateMissingCrateExitsTwo(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"validate", filepath.Join(t.TempDir(), "does-not-exist")}, strings.NewReader(""), &stdout, &stderr)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2, stderr=%s", code, stderr.String())
	}
}

func TestRunValidateJSONOutput(t *testing.T) {
	dir := writeCrate(t, validCrate)
	var stdout, stderr bytes.Buffer
	code := run([]string{"validate", "--json", dir}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0, stderr=%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"selected_profiles"`) {
		t.Fatalf("expected JSON report, got %q", stdout.String())
	}
}

func TestRunValidateUnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"validate", "--bogus"}, strings.NewReader(""), &stdout, &stderr)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestRunValidateWrongPositionalCount(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"validate"}, strings.NewReader(""), &stdout, &stderr)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}
