package profiles

import (
	"fmt"

	"github.com/rocrate-validate/rocrate-validator/profile"
)

// FilePresenceCheckID is the built-in ro-crate profile's programmatic
// check identifier for "does every schema:hasPart target that looks
// like a local file actually exist in the crate" (:
// "a referenced file is missing — a kind no SHACL shape can express").
const FilePresenceCheckID = "file_presence"

// RegisterChecks registers the built-in programmatic checks into checks.
// Separated from Register so a caller assembling a registry from
// multiple sources can populate the check registry once, up front,
// without pulling in the profile descriptors too.
func RegisterChecks(checks *profile.ProgrammaticChecks) {
	checks.Register(FilePresenceCheckID, filePresenceCheck)
}

// filePresenceCheck walks the root data entity's schema:hasPart values
// and reports any relative ID that does not resolve inside the crate's
// contents. Absolute IRIs (remote resources) are out of scope: the
// engine has no network access to verify them, and the loader's
// FileExists already treats them as never-present for this reason.
func filePresenceCheck(c profile.ProgrammaticCheckContext) ([]profile.ProgrammaticFinding, error) {
	var findings []profile.ProgrammaticFinding
	for _, id := range c.HasPartIDs() {
		if isAbsoluteIRI(id) || c.FileExists(id) {
			continue
		}
		findings = append(findings, profile.ProgrammaticFinding{
			FocusNode: c.RootID(),
			Path:      "http://schema.org/hasPart",
			Message:   fmt.Sprintf("hasPart entity %q has no corresponding file in the crate", id),
		})
	}
	return findings, nil
}

// isAbsoluteIRI reports whether id names a remote resource (e.g.
// http://...) rather than a path relative to the crate root. Mirrors
// crate.Crate.FileExists's own notion of "not a local file" so this
// check never flags a remote hasPart target as missing.
func isAbsoluteIRI(id string) bool {
	for i := 0; i < len(id); i++ {
		switch id[i] {
		case ':':
			return i > 0
		case '/':
			return false
		}
	}
	return false
}
