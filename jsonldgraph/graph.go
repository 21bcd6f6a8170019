// Package jsonldgraph builds RDF graphs from JSON-LD documents and
// provides the small triple-query surface the crate loader and profile
// registry need. It is the shared RDF graph construction plumbing
// behind both the crate metadata document and the profile descriptor
// format, factored out so it is not duplicated between the two JSON-LD
// consumers.
package jsonldgraph

import (
	"fmt"

	gold "github.com/piprate/json-gold/ld"
)

// TermKind identifies the RDF term category.
type TermKind int

const (
	// KindIRI is a named node.
	KindIRI TermKind = iota
	// KindBlank is a blank node.
	KindBlank
	// KindLiteral is a literal value.
	KindLiteral
)

// Term is a single RDF term (subject, predicate, or object position).
type Term struct {
	Kind     TermKind
	Value    string // IRI string, blank node label, or literal lexical form
	Datatype string // literal only
	Language string // literal only
}

// String renders the term for diagnostic messages and Issue attribution.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return t.Value
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		return t.Value
	default:
		return fmt.Sprintf("<unknown term kind %d>", t.Kind)
	}
}

// IsIRI reports whether the term names the given IRI.
func (t Term) IsIRI(iri string) bool {
	return t.Kind == KindIRI && t.Value == iri
}

// IRITerm constructs an IRI term.
func IRITerm(value string) Term {
	return Term{Kind: KindIRI, Value: value}
}

// Triple is one RDF statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// Graph is the flattened triple set produced from a JSON-LD document,
// together with the base IRI it was expanded against.
type Graph struct {
	BaseIRI string
	Triples []Triple
}

// ParseDocument expands a decoded JSON-LD document (the result of
// json.Unmarshal into interface{}) into a Graph rooted at baseIRI.
func ParseDocument(doc interface{}, baseIRI string) (*Graph, error) {
	proc := gold.NewJsonLdProcessor()
	opts := gold.NewJsonLdOptions(baseIRI)
	opts.ProduceGeneralizedRdf = true
	opts.DocumentLoader = NewOfflineDocumentLoader()

	dataset, err := proc.ToRDF(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("jsonldgraph: expand document to RDF: %w", err)
	}

	g := &Graph{BaseIRI: baseIRI}
	for _, quads := range dataset.Graphs {
		for _, q := range quads {
			g.Triples = append(g.Triples, Triple{
				Subject:   termFromNode(q.Subject),
				Predicate: termFromNode(q.Predicate),
				Object:    termFromNode(q.Object),
			})
		}
	}
	return g, nil
}

func termFromNode(n gold.Node) Term {
	switch v := n.(type) {
	case *gold.IRI:
		return Term{Kind: KindIRI, Value: v.Value}
	case *gold.BlankNode:
		return Term{Kind: KindBlank, Value: v.Attribute}
	case *gold.Literal:
		return Term{Kind: KindLiteral, Value: v.Value, Datatype: v.Datatype, Language: v.Language}
	default:
		return Term{Kind: KindIRI, Value: fmt.Sprintf("%v", n)}
	}
}

// Objects returns every object term of triples matching (subject, predicate).
// Either may be empty to act as a wildcard.
func (g *Graph) Objects(subject, predicate string) []Term {
	var out []Term
	for _, t := range g.Triples {
		if subject != "" && !t.Subject.IsIRI(subject) {
			continue
		}
		if predicate != "" && !t.Predicate.IsIRI(predicate) {
			continue
		}
		out = append(out, t.Object)
	}
	return out
}

// Subjects returns every subject term of triples matching (predicate, object).
func (g *Graph) Subjects(predicate string, object Term) []Term {
	var out []Term
	for _, t := range g.Triples {
		if predicate != "" && !t.Predicate.IsIRI(predicate) {
			continue
		}
		if t.Object != object {
			continue
		}
		out = append(out, t.Subject)
	}
	return out
}

// HasTriple reports whether the exact (subject IRI, predicate IRI, object IRI) triple exists.
func (g *Graph) HasTriple(subject, predicate, object string) bool {
	for _, t := range g.Triples {
		if t.Subject.IsIRI(subject) && t.Predicate.IsIRI(predicate) && t.Object.IsIRI(object) {
			return true
		}
	}
	return false
}

// TriplesForSubject returns every triple whose subject is the given IRI.
func (g *Graph) TriplesForSubject(subject string) []Triple {
	var out []Triple
	for _, t := range g.Triples {
		if t.Subject.IsIRI(subject) {
			out = append(out, t)
		}
	}
	return out
}
