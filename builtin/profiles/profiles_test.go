package profiles_test

import (
	"testing"

	"github.com/rocrate-validate/rocrate-validator/builtin/profiles"
	"github.com/rocrate-validate/rocrate-validator/profile"
	"github.com/rocrate-validate/rocrate-validator/resolve"
	selectprofile "github.com/rocrate-validate/rocrate-validator/select"
)

func newRegistry(t *testing.T) *profile.Registry {
	t.Helper()
	reg := profile.NewRegistry(profile.NewProgrammaticChecks())
	if err := profiles.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return reg
}

func TestRegisterLoadsAllBuiltinProfiles(t *testing.T) {
	reg := newRegistry(t)

	for _, token := range []string{"ro-crate", "workflow-ro-crate", "workflow-run-crate"} {
		if _, ok := reg.Get(token, nil); !ok {
			t.Errorf("expected built-in profile %q to be registered", token)
		}
	}
}

func TestRegisterWiresFilePresenceCheck(t *testing.T) {
	reg := newRegistry(t)
	if _, ok := reg.Checks().Get(profiles.FilePresenceCheckID); !ok {
		t.Fatal("expected file_presence to be registered")
	}
}

func TestWorkflowRunCrateInheritsTransitively(t *testing.T) {
	reg := newRegistry(t)
	p, ok := reg.Get("workflow-run-crate", nil)
	if !ok {
		t.Fatal("expected workflow-run-crate to be registered")
	}

	reqs, err := resolve.Resolve(reg, p)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	byID := make(map[string]bool)
	for _, r := range reqs {
		byID[r.ID] = true
	}
	for _, want := range []string{"RootDataset", "Dataset", "ComputationalWorkflow", "CreateAction", profiles.FilePresenceCheckID} {
		if !byID[want] {
			t.Errorf("expected resolved requirement %q, got %+v", want, reqs)
		}
	}
}

func TestSelectorFallsBackToRegisteredBaseProfile(t *testing.T) {
	reg := newRegistry(t)
	result, err := selectprofile.Select(reg, nil, "", selectprofile.Mode{})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(result.Profiles) != 1 || result.Profiles[0].Token() != selectprofile.BaseProfileToken {
		t.Fatalf("expected base profile fallback, got %+v", result.Profiles)
	}
}
