package shacl_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/rocrate-validate/rocrate-validator/jsonldgraph"
	"github.com/rocrate-validate/rocrate-validator/shacl"
)

const sampleShapeFile = `{
  "shapes": [
    {
      "id": "Dataset",
      "targetClass": "schema:Dataset",
      "properties": [
        {
          "id": "license_required",
          "path": "schema:license",
          "minCount": 1,
          "message": "a Dataset must declare schema:license"
        },
        {
          "id": "name_is_literal",
          "path": "schema:name",
          "nodeKind": "Literal",
          "message": "schema:name must be a literal"
        }
      ]
    }
  ]
}`

const sampleCrateDoc = `{
  "@context": "https://w3id.org/ro-crate/1.1/context",
  "@graph": [
    { "@id": "ro-crate-metadata.json", "@type": "CreativeWork", "about": { "@id": "./" } },
    { "@id": "./", "@type": "Dataset", "name": "a crate with no license" }
  ]
}`

func parseSampleGraph(t *testing.T) *jsonldgraph.Graph {
	t.Helper()
	var doc interface{}
	if err := json.Unmarshal([]byte(sampleCrateDoc), &doc); err != nil {
		t.Fatalf("unmarshal sample doc: %v", err)
	}
	g, err := jsonldgraph.ParseDocument(doc, "")
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	return g
}

func TestParseShapesFileExpandsCURIEs(t *testing.T) {
	shapes, err := shacl.ParseShapesFile([]byte(sampleShapeFile), "ro-crate")
	if err != nil {
		t.Fatalf("ParseShapesFile: %v", err)
	}
	if len(shapes.Shapes) != 1 {
		t.Fatalf("expected 1 shape, got %d", len(shapes.Shapes))
	}
	shape := shapes.Shapes[0]
	if shape.TargetClass != "http://schema.org/Dataset" {
		t.Fatalf("TargetClass = %q, want expanded schema.org IRI", shape.TargetClass)
	}
	if len(shape.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(shape.Properties))
	}
	if shape.Properties[0].Path != "http://schema.org/license" {
		t.Fatalf("Path = %q", shape.Properties[0].Path)
	}
}

func TestReferenceEngineFindsMissingLicense(t *testing.T) {
	shapes, err := shacl.ParseShapesFile([]byte(sampleShapeFile), "ro-crate")
	if err != nil {
		t.Fatalf("ParseShapesFile: %v", err)
	}
	graph := parseSampleGraph(t)

	report, err := shacl.NewReferenceEngine().Validate(graph, shapes)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if report.Conforms {
		t.Fatal("expected non-conformance: dataset has no schema:license")
	}

	var found bool
	for _, f := range report.Findings {
		if f.FocusNode == "./" && f.Path == "http://schema.org/license" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a missing-license finding, got %+v", report.Findings)
	}
}

func TestReferenceEngineNodeKindPasses(t *testing.T) {
	shapes, err := shacl.ParseShapesFile([]byte(sampleShapeFile), "ro-crate")
	if err != nil {
		t.Fatalf("ParseShapesFile: %v", err)
	}
	graph := parseSampleGraph(t)

	report, err := shacl.NewReferenceEngine().Validate(graph, shapes)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, f := range report.Findings {
		if f.Path == "http://schema.org/name" {
			t.Fatalf("schema:name literal check should not have failed: %+v", f)
		}
	}
}

func TestByIRIIndexesChecksUnderNamespace(t *testing.T) {
	shapes, err := shacl.ParseShapesFile([]byte(sampleShapeFile), "ro-crate")
	if err != nil {
		t.Fatalf("ParseShapesFile: %v", err)
	}
	idx := shapes.ByIRI()
	want := "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte("rocrate-validator:shape:ro-crate:Dataset/license_required")).String()
	if _, ok := idx[want]; !ok {
		t.Fatalf("expected indexed check IRI, got keys %v", keys(idx))
	}
}

func keys(m map[string]shacl.PropertyShape) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
