package rcverr_test

import (
	"errors"
	"testing"

	"github.com/rocrate-validate/rocrate-validator/rcverr"
)

func TestKindExitCodes(t *testing.T) {
	cases := []rcverr.Kind{
		rcverr.CrateNotFound,
		rcverr.MetadataMissing,
		rcverr.MetadataMalformed,
		rcverr.UnsupportedScheme,
		rcverr.NetworkError,
		rcverr.ArchiveCorrupt,
		rcverr.ProfileNotFound,
		rcverr.ProfileMalformed,
		rcverr.ProfileCycle,
		rcverr.DuplicateIdentifier,
		rcverr.ShapeEngineFailure,
		rcverr.CheckInternalError,
		rcverr.UnknownShape,
		rcverr.CLIUsage,
		rcverr.InternalError,
	}
	for _, k := range cases {
		if got := k.ExitCode(); got != 2 {
			t.Errorf("%s.ExitCode() = %d, want 2", k, got)
		}
	}
}

func TestErrorFormat(t *testing.T) {
	e := rcverr.New(rcverr.MetadataMissing, "ro-crate-metadata.json not found")
	want := "rocrate-validator: METADATA_MISSING: ro-crate-metadata.json not found"
	if e.Error() != want {
		t.Fatalf("got %q, want %q", e.Error(), want)
	}
}

func TestErrorFormatWithFocusNode(t *testing.T) {
	e := rcverr.New(rcverr.InternalError, "unexpected state").At("./", "conformsTo")
	want := "rocrate-validator: INTERNAL_ERROR: unexpected state (focus=./)"
	if e.Error() != want {
		t.Fatalf("got %q, want %q", e.Error(), want)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	e := rcverr.Wrap(rcverr.NetworkError, "download failed", cause)
	if !errors.Is(e, cause) {
		t.Fatal("Unwrap did not return cause")
	}
	want := "rocrate-validator: NETWORK_ERROR: download failed: underlying"
	if got := e.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestErrorAs(t *testing.T) {
	e := rcverr.New(rcverr.DuplicateIdentifier, "duplicate profile id \"ro-crate\"")
	var target *rcverr.Error
	if !errors.As(e, &target) {
		t.Fatal("errors.As failed")
	}
	if target.Kind != rcverr.DuplicateIdentifier {
		t.Fatalf("kind = %s, want DUPLICATE_IDENTIFIER", target.Kind)
	}
}

func TestErrorIsComparesKind(t *testing.T) {
	a := rcverr.New(rcverr.ProfileCycle, "cycle at a -> b -> a")
	b := rcverr.New(rcverr.ProfileCycle, "different message")
	c := rcverr.New(rcverr.ProfileNotFound, "not found")
	if !errors.Is(a, b) {
		t.Fatal("expected same-kind errors to match via errors.Is")
	}
	if errors.Is(a, c) {
		t.Fatal("expected different-kind errors not to match via errors.Is")
	}
}
