// Package shacl models the subset of the SHACL shapes vocabulary this
// validator's built-in profiles use, and provides the Engine interface
// the Check Executor drives ( component 5, §4.5). Spec §1
// explicitly scopes the SHACL evaluator's *implementation* out of this
// design ("assumed to exist as a library dependency"); this package is
// the seam a real SHACL engine would be substituted behind, plus a
// reference-quality evaluator sufficient to drive the validator's own
// built-in profiles end to end.
package shacl

import (
	"fmt"

	"github.com/rocrate-validate/rocrate-validator/severity"
)

// NodeKind constrains the RDF term kind a property's values must have.
type NodeKind string

const (
	// NodeKindIRI requires values to be IRIs.
	NodeKindIRI NodeKind = "IRI"
	// NodeKindLiteral requires values to be literals.
	NodeKindLiteral NodeKind = "Literal"
	// NodeKindBlankNode requires values to be blank nodes.
	NodeKindBlankNode NodeKind = "BlankNode"
)

// PropertyShape is a nested property/node shape within a top-level
// Shape — the Check: "each nested property/node shape within it
// is a check whose identifier is the property-shape label (falling back
// to a stable index)".
type PropertyShape struct {
	// ID is the check identifier, unique within its requirement.
	ID string
	// IRI is the stable shape IRI the Executor maps back to
	// (profile, requirement, check) and the reference Engine reports as
	// sh:sourceShape in Findings.
	IRI string

	Path     string // full IRI of the property path this shape constrains
	MinCount *int
	MaxCount *int
	Class    string // full IRI of a required sh:class
	NodeKind NodeKind
	Pattern  string
	HasValue string
	Message  string

	// SeverityOverride, when non-nil, overrides the owning requirement's
	// severity for this specific check.
	SeverityOverride *severity.Level
}

// EffectiveSeverity returns the check's own severity override if set,
// else the requirement's severity.
func (p PropertyShape) EffectiveSeverity(requirementSeverity severity.Level) severity.Level {
	if p.SeverityOverride != nil {
		return *p.SeverityOverride
	}
	return requirementSeverity
}

// Shape is a top-level shape node — the Requirement: "each
// top-level shape in the file is treated as a requirement whose
// identifier is the shape's local name".
type Shape struct {
	// ID is the requirement identifier.
	ID  string
	IRI string

	TargetClass string // full IRI; subjects with rdf:type == TargetClass are in scope
	TargetNode  string // full IRI; exactly that node is in scope

	Properties []PropertyShape
}

// ShapesGraph is a parsed shape file: the set of top-level shapes it
// declares.
type ShapesGraph struct {
	Shapes []Shape
}

// ByIRI indexes every property shape (check) in the graph by its shape
// IRI, for the Executor's sh:sourceShape -> (profile, requirement,
// check) back-reference ( "Check identity mapping").
func (g *ShapesGraph) ByIRI() map[string]PropertyShape {
	out := make(map[string]PropertyShape)
	for _, shape := range g.Shapes {
		for _, prop := range shape.Properties {
			out[prop.IRI] = prop
		}
	}
	return out
}

// Finding is one SHACL validation-report entry, prior to Check identity
// mapping.
type Finding struct {
	// SourceShapeIRI is the IRI of the property shape that produced this
	// finding. A Finding whose SourceShapeIRI the Executor does not
	// recognize is recorded as an engine-internal Issue, never silently
	// dropped.
	SourceShapeIRI string
	FocusNode      string
	Path           string
	Message        string
}

// Report is the result of evaluating a ShapesGraph against a data graph.
type Report struct {
	Conforms bool
	Findings []Finding
}

// formatMessage formats a Finding's message from a PropertyShape's
// template, interpolating the failing focus node @id and property path
// where known.
func (p PropertyShape) formatMessage(focusNode string) string {
	if p.Message != "" {
		return fmt.Sprintf("%s (focus: %s, path: %s)", p.Message, focusNode, p.Path)
	}
	return fmt.Sprintf("value for %s on %s failed constraint %s", p.Path, focusNode, p.ID)
}
