package profile

import (
	"encoding/json"

	"github.com/rocrate-validate/rocrate-validator/jsonldgraph"
	"github.com/rocrate-validate/rocrate-validator/rcverr"
	"github.com/rocrate-validate/rocrate-validator/severity"
)

const (
	profHasToken              = "http://www.w3.org/ns/dx/prof#hasToken"
	profIsProfileOf           = "http://www.w3.org/ns/dx/prof#isProfileOf"
	profIsTransitiveProfileOf = "http://www.w3.org/ns/dx/prof#isTransitiveProfileOf"
	dctHasVersion             = "http://purl.org/dc/terms/hasVersion"
)

// Descriptor is a parsed profile descriptor — the "profile
// descriptor: identity (token, version), parent profiles
// (prof:isProfileOf / prof:isTransitiveProfileOf), and the set of
// requirement sources (shape files, programmatic check identifiers) it
// contributes".
type Descriptor struct {
	IRI         string
	Token       string
	Version     *Version
	VersionRaw  string
	IsProfileOf []string // IRIs of directly or transitively declared parent profiles

	// ShapeFiles and ProgrammaticCheckIDs name this profile's own
	// contribution, resolved relative to the directory the descriptor was
	// loaded from. These are profile-internal conventions, carried as
	// plain JSON fields alongside the descriptor's prof:/dct: terms
	// rather than through RDF, since the context does not map them.
	ShapeFiles           []string
	ProgrammaticCheckIDs []string

	// SeverityOverrides maps a requirement identifier to a profile-level
	// severity override, carried as a plain JSON sibling field for the
	// same reason as ShapeFiles/ProgrammaticCheckIDs above.
	SeverityOverrides map[string]string
}

// descriptorArtifacts is the plain-JSON sibling of the JSON-LD identity
// fields; see Descriptor's doc comment.
type descriptorArtifacts struct {
	Artifacts struct {
		Shapes             []string `json:"shapes"`
		ProgrammaticChecks []string `json:"programmaticChecks"`
	} `json:"artifacts"`
	SeverityOverrides map[string]string `json:"severityOverrides"`
}

// ParseDescriptor parses a profile descriptor document.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, rcverr.Wrap(rcverr.ProfileMalformed, "parsing profile descriptor JSON", err)
	}

	graph, err := jsonldgraph.ParseDocument(doc, "")
	if err != nil {
		return nil, rcverr.Wrap(rcverr.ProfileMalformed, "expanding profile descriptor JSON-LD", err)
	}

	subject := findDescriptorSubject(graph)
	if subject == "" {
		return nil, rcverr.New(rcverr.ProfileMalformed, "profile descriptor declares no prof:hasToken subject")
	}

	d := &Descriptor{IRI: subject}
	if tokens := graph.Objects(subject, profHasToken); len(tokens) > 0 {
		d.Token = tokens[0].Value
	}
	if d.Token == "" {
		return nil, rcverr.New(rcverr.ProfileMalformed, "profile descriptor has an empty prof:hasToken")
	}

	if versions := graph.Objects(subject, dctHasVersion); len(versions) > 0 {
		d.VersionRaw = versions[0].Value
		d.Version = ParseVersionLiteral(d.VersionRaw)
	}

	for _, parent := range graph.Objects(subject, profIsProfileOf) {
		d.IsProfileOf = append(d.IsProfileOf, parent.Value)
	}
	for _, parent := range graph.Objects(subject, profIsTransitiveProfileOf) {
		d.IsProfileOf = append(d.IsProfileOf, parent.Value)
	}

	var artifacts descriptorArtifacts
	if err := json.Unmarshal(data, &artifacts); err != nil {
		return nil, rcverr.Wrap(rcverr.ProfileMalformed, "parsing profile descriptor artifacts", err)
	}
	d.ShapeFiles = artifacts.Artifacts.Shapes
	d.ProgrammaticCheckIDs = artifacts.Artifacts.ProgrammaticChecks
	d.SeverityOverrides = artifacts.SeverityOverrides
	for reqID, raw := range d.SeverityOverrides {
		if _, err := severity.Parse(raw); err != nil {
			return nil, rcverr.Wrap(rcverr.ProfileMalformed, "severity override for requirement "+reqID, err)
		}
	}

	return d, nil
}

// findDescriptorSubject locates the subject carrying prof:hasToken, the
// descriptor's own identity node.
func findDescriptorSubject(g *jsonldgraph.Graph) string {
	for _, t := range g.Triples {
		if t.Predicate.IsIRI(profHasToken) {
			return t.Subject.Value
		}
	}
	return ""
}
