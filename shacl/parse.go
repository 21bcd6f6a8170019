package shacl

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rocrate-validate/rocrate-validator/rcverr"
	"github.com/rocrate-validate/rocrate-validator/severity"
)

// shapeIRI deterministically derives a shape/property IRI from its
// logical name: a UUIDv5 (namespace-hashed, not random) keeps the check
// identity mapping stable across runs and processes while still giving
// every shape a globally-unique identifier, the same role the corpus's
// other repos use google/uuid for.
func shapeIRI(name string) string {
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// prefixes resolves the CURIE shorthand this validator's own shape files
// use for the vocabularies its built-in profiles target. Shape files are
// profile-internal, so this package is free to pick a convenient
// serialization rather than full JSON-LD-over-RDF for the shapes
// themselves; the data graph they are evaluated against is still real
// RDF built by jsonldgraph.
var prefixes = map[string]string{
	"schema:": "http://schema.org/",
	"dct:":    "http://purl.org/dc/terms/",
	"rdf:":    "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
}

func expandCURIE(s string) string {
	for prefix, full := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return full + strings.TrimPrefix(s, prefix)
		}
	}
	return s
}

// shapeFileDoc is the on-disk JSON shape file format.
type shapeFileDoc struct {
	Shapes []shapeDefDoc `json:"shapes"`
}

type shapeDefDoc struct {
	ID          string        `json:"id"`
	TargetClass string        `json:"targetClass,omitempty"`
	TargetNode  string        `json:"targetNode,omitempty"`
	Properties  []propertyDoc `json:"properties,omitempty"`
}

type propertyDoc struct {
	ID       string `json:"id,omitempty"`
	Path     string `json:"path"`
	MinCount *int   `json:"minCount,omitempty"`
	MaxCount *int   `json:"maxCount,omitempty"`
	Class    string `json:"class,omitempty"`
	NodeKind string `json:"nodeKind,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
	HasValue string `json:"hasValue,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity,omitempty"`
}

// ParseShapesFile parses one of this validator's SHACL shape files,
// namespacing every shape IRI under namespace (the owning profile's
// token) so identically-named shapes from different profiles never
// collide in the Executor's shape-IRI index (ShapesGraph.ByIRI).
func ParseShapesFile(data []byte, namespace string) (*ShapesGraph, error) {
	var doc shapeFileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, rcverr.Wrap(rcverr.ProfileMalformed, "parsing shape file", err)
	}

	graph := &ShapesGraph{}
	for _, sd := range doc.Shapes {
		if sd.ID == "" {
			return nil, rcverr.New(rcverr.ProfileMalformed, "shape file has a shape with no id")
		}
		shape := Shape{
			ID:          sd.ID,
			IRI:         shapeIRI(fmt.Sprintf("rocrate-validator:shape:%s:%s", namespace, sd.ID)),
			TargetClass: expandCURIE(sd.TargetClass),
			TargetNode:  expandCURIE(sd.TargetNode),
		}
		for idx, pd := range sd.Properties {
			propID := pd.ID
			if propID == "" {
				propID = strconv.Itoa(idx)
			}
			prop := PropertyShape{
				ID:       propID,
				IRI:      shapeIRI(fmt.Sprintf("rocrate-validator:shape:%s:%s/%s", namespace, sd.ID, propID)),
				Path:     expandCURIE(pd.Path),
				MinCount: pd.MinCount,
				MaxCount: pd.MaxCount,
				Class:    expandCURIE(pd.Class),
				NodeKind: NodeKind(pd.NodeKind),
				Pattern:  pd.Pattern,
				HasValue: expandCURIE(pd.HasValue),
				Message:  pd.Message,
			}
			if pd.Severity != "" {
				lvl, err := severity.Parse(pd.Severity)
				if err != nil {
					return nil, rcverr.Wrap(rcverr.ProfileMalformed, fmt.Sprintf("shape %s property %s", sd.ID, propID), err)
				}
				prop.SeverityOverride = &lvl
			}
			shape.Properties = append(shape.Properties, prop)
		}
		graph.Shapes = append(graph.Shapes, shape)
	}
	return graph, nil
}
