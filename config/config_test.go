package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rocrate-validate/rocrate-validator/config"
	"github.com/rocrate-validate/rocrate-validator/severity"
	"github.com/rocrate-validate/rocrate-validator/validate"
)

func writeOverlay(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing overlay file: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsWithNoOverlay(t *testing.T) {
	flags := config.Overlay{RocrateURI: strPtr("/tmp/crate")}

	set, err := config.Load("", nil, flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.RequirementSeverity != severity.Required {
		t.Errorf("RequirementSeverity = %v, want REQUIRED", set.RequirementSeverity)
	}
	if !set.InheritProfiles {
		t.Error("InheritProfiles should default true")
	}
	if set.DedupeScope != validate.DedupeScopeResult {
		t.Errorf("DedupeScope = %v, want result", set.DedupeScope)
	}
	if set.RocrateURI != "/tmp/crate" {
		t.Errorf("RocrateURI = %q, want /tmp/crate", set.RocrateURI)
	}
}

func TestLoadMissingRocrateURIIsUsageError(t *testing.T) {
	_, err := config.Load("", nil, config.Overlay{})
	if err == nil {
		t.Fatal("expected error for missing rocrate_uri")
	}
}

func TestLoadFileOverlayIsApplied(t *testing.T) {
	path := writeOverlay(t, "rocrate_uri: /from/file\nrequirement_severity: RECOMMENDED\n")

	set, err := config.Load(path, nil, config.Overlay{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.RocrateURI != "/from/file" {
		t.Errorf("RocrateURI = %q, want /from/file", set.RocrateURI)
	}
	if set.RequirementSeverity != severity.Recommended {
		t.Errorf("RequirementSeverity = %v, want RECOMMENDED", set.RequirementSeverity)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeOverlay(t, "rocrate_uri: /from/file\n")
	environ := []string{"ROCRATE_VALIDATE_ROCRATE_URI=/from/env"}

	set, err := config.Load(path, environ, config.Overlay{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.RocrateURI != "/from/env" {
		t.Errorf("RocrateURI = %q, want /from/env", set.RocrateURI)
	}
}

func TestLoadFlagsOverrideEnvAndFile(t *testing.T) {
	path := writeOverlay(t, "rocrate_uri: /from/file\n")
	environ := []string{"ROCRATE_VALIDATE_ROCRATE_URI=/from/env"}
	flags := config.Overlay{RocrateURI: strPtr("/from/flag")}

	set, err := config.Load(path, environ, flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.RocrateURI != "/from/flag" {
		t.Errorf("RocrateURI = %q, want /from/flag", set.RocrateURI)
	}
}

func TestLoadEnvBooleanParseError(t *testing.T) {
	environ := []string{"ROCRATE_VALIDATE_DRY_RUN=not-a-bool"}
	_, err := config.Load("", environ, config.Overlay{RocrateURI: strPtr("/tmp/crate")})
	if err == nil {
		t.Fatal("expected error for unparseable boolean env var")
	}
}

func TestLoadFileStrictUnknownFieldRejected(t *testing.T) {
	path := writeOverlay(t, "not_a_real_field: true\n")
	_, err := config.Load(path, nil, config.Overlay{RocrateURI: strPtr("/tmp/crate")})
	if err == nil {
		t.Fatal("expected strict decode to reject unknown field")
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	set, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), nil, config.Overlay{RocrateURI: strPtr("/tmp/crate")})
	if err != nil {
		t.Fatalf("Load with missing overlay file: %v", err)
	}
	if set.RocrateURI != "/tmp/crate" {
		t.Errorf("RocrateURI = %q, want /tmp/crate", set.RocrateURI)
	}
}

func TestLoadInvalidDedupeScope(t *testing.T) {
	flags := config.Overlay{RocrateURI: strPtr("/tmp/crate"), DedupeScope: strPtr("bogus")}
	_, err := config.Load("", nil, flags)
	if err == nil {
		t.Fatal("expected error for invalid dedupe_scope")
	}
}

func strPtr(s string) *string { return &s }
