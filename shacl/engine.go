package shacl

import (
	"regexp"

	"github.com/rocrate-validate/rocrate-validator/jsonldgraph"
)

// Engine is the interface the Check Executor drives: given a
// crate's RDF data graph and a profile's shapes, produce a Report. Spec
// §1 scopes the evaluator's implementation out of this design; a real
// SHACL engine (e.g. a generalized reasoner library) can sit behind this
// interface without the Executor changing.
type Engine interface {
	Validate(data *jsonldgraph.Graph, shapes *ShapesGraph) (*Report, error)
}

// ReferenceEngine is a minimal evaluator covering the constraint
// vocabulary the built-in profiles use: sh:minCount, sh:maxCount,
// sh:class, sh:nodeKind, sh:pattern and sh:hasValue over sh:targetClass
// and sh:targetNode selections.
type ReferenceEngine struct{}

// NewReferenceEngine constructs the built-in evaluator.
func NewReferenceEngine() *ReferenceEngine {
	return &ReferenceEngine{}
}

// Validate implements Engine.
func (e *ReferenceEngine) Validate(data *jsonldgraph.Graph, shapes *ShapesGraph) (*Report, error) {
	report := &Report{Conforms: true}
	for _, shape := range shapes.Shapes {
		for _, focus := range resolveTargets(data, shape) {
			for _, prop := range shape.Properties {
				report.Findings = append(report.Findings, evaluateProperty(data, focus, prop)...)
			}
		}
	}
	report.Conforms = len(report.Findings) == 0
	return report, nil
}

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// resolveTargets collects the focus nodes a shape applies to, per its
// sh:targetClass and/or sh:targetNode declarations.
func resolveTargets(data *jsonldgraph.Graph, shape Shape) []string {
	seen := make(map[string]struct{})
	var targets []string
	add := func(iri string) {
		if _, ok := seen[iri]; ok {
			return
		}
		seen[iri] = struct{}{}
		targets = append(targets, iri)
	}

	if shape.TargetClass != "" {
		for _, subj := range data.Subjects(rdfType, jsonldgraph.Term{Kind: jsonldgraph.KindIRI, Value: shape.TargetClass}) {
			add(subj.Value)
		}
	}
	if shape.TargetNode != "" {
		add(shape.TargetNode)
	}
	return targets
}

// evaluateProperty checks one property shape against one focus node and
// returns any Findings it produces.
func evaluateProperty(data *jsonldgraph.Graph, focus string, prop PropertyShape) []Finding {
	values := data.Objects(focus, prop.Path)

	var findings []Finding
	fail := func(msg string) {
		findings = append(findings, Finding{
			SourceShapeIRI: prop.IRI,
			FocusNode:      focus,
			Path:           prop.Path,
			Message:        msg,
		})
	}

	if prop.MinCount != nil && len(values) < *prop.MinCount {
		fail(prop.formatMessage(focus))
	}
	if prop.MaxCount != nil && len(values) > *prop.MaxCount {
		fail(prop.formatMessage(focus))
	}

	for _, v := range values {
		if prop.Class != "" && !data.HasTriple(v.Value, rdfType, prop.Class) {
			fail(prop.formatMessage(focus))
			continue
		}
		if prop.NodeKind != "" && !matchesNodeKind(v, prop.NodeKind) {
			fail(prop.formatMessage(focus))
			continue
		}
		if prop.Pattern != "" && !matchesPattern(v, prop.Pattern) {
			fail(prop.formatMessage(focus))
			continue
		}
		if prop.HasValue != "" && v.Value != prop.HasValue {
			fail(prop.formatMessage(focus))
			continue
		}
	}
	if prop.HasValue != "" && len(values) == 0 {
		fail(prop.formatMessage(focus))
	}

	return findings
}

func matchesNodeKind(t jsonldgraph.Term, kind NodeKind) bool {
	switch kind {
	case NodeKindIRI:
		return t.Kind == jsonldgraph.KindIRI
	case NodeKindLiteral:
		return t.Kind == jsonldgraph.KindLiteral
	case NodeKindBlankNode:
		return t.Kind == jsonldgraph.KindBlank
	default:
		return true
	}
}

func matchesPattern(t jsonldgraph.Term, pattern string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(t.Value)
}
