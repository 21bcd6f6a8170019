package profile

import (
	"github.com/rocrate-validate/rocrate-validator/severity"
	"github.com/rocrate-validate/rocrate-validator/shacl"
)

// Requirement is a named unit of conformance within a profile: a SHACL
// shape's requirement-level identifier, its effective severity, and the
// shape itself.
type Requirement struct {
	ID           string
	ProfileToken string
	ProfileIRI   string
	Severity     severity.Level
	Shape        shacl.Shape

	// ProgrammaticCheckID, when non-empty, identifies this as a
	// programmatic requirement backed by a registered Go function whose
	// execution is a predicate over a loaded crate; Shape is unused in
	// that case.
	ProgrammaticCheckID string
}

// IsProgrammatic reports whether this requirement is backed by a
// registered Go function rather than a SHACL shape.
func (r Requirement) IsProgrammatic() bool { return r.ProgrammaticCheckID != "" }

// EffectiveSeverity resolves a profile's declared severity for a
// requirement identifier, falling back to REQUIRED — SHACL's implicit
// default severity (sh:Violation) — when the descriptor names no
// override.
func (d *Descriptor) EffectiveSeverity(requirementID string) severity.Level {
	if d.SeverityOverrides != nil {
		if raw, ok := d.SeverityOverrides[requirementID]; ok {
			if lvl, err := severity.Parse(raw); err == nil {
				return lvl
			}
		}
	}
	return severity.Required
}
