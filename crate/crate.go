// Package crate implements the Crate Loader: resolving a
// crate URI (local directory, local or remote zip) to a Crate value
// exposing the metadata graph and a file-existence oracle over the
// crate's data entities.
package crate

import (
	"encoding/json"
	"fmt"

	"github.com/rocrate-validate/rocrate-validator/jsonldgraph"
	"github.com/rocrate-validate/rocrate-validator/rcverr"
)

// MetadataFileName is the well-known RO-Crate metadata document name.
const MetadataFileName = "ro-crate-metadata.json"

// DefaultRootID is used when the metadata document does not declare an
// explicit "about" relation from the metadata descriptor to the root
// data entity.
const DefaultRootID = "./"

// contentsOracle answers file-existence questions over a crate's payload
// and releases any held resources (an open zip file, a temp directory)
// when validation completes.
type contentsOracle interface {
	Exists(relativePath string) bool
	Close() error
}

// Crate is an immutable, loaded RO-Crate: its metadata graph plus a
// file-existence oracle over its data entities. Constructed per
// validation call by Load; released via Close when validation completes.
type Crate struct {
	uri            string
	graph          *jsonldgraph.Graph
	rootID         string
	rawDoc         interface{}
	metadataDigest string
	contents       contentsOracle
}

// URI returns the crate location Load was called with.
func (c *Crate) URI() string {
	return c.uri
}

// MetadataGraph returns the RDF graph expanded from ro-crate-metadata.json.
func (c *Crate) MetadataGraph() *jsonldgraph.Graph {
	return c.graph
}

// RawMetadata returns the parsed (but not RDF-expanded) JSON-LD document,
// used by programmatic checks that are more naturally expressed against
// the tree shape than against triples.
func (c *Crate) RawMetadata() interface{} {
	return c.rawDoc
}

// MetadataDigest returns the SHA-256 of the RFC 8785 canonical byte
// sequence of ro-crate-metadata.json, computed once at load time. Two
// crates with byte-identical metadata (modulo key order and whitespace)
// report the same digest, which a caller can use to confirm the
// determinism law  ("running validation twice on the same
// crate... produces identical issue sets") without re-reading the file.
func (c *Crate) MetadataDigest() string {
	return c.metadataDigest
}

// RootID returns the IRI of the root data entity — the JSON-LD "about" of
// the metadata descriptor, defaulting to "./".
func (c *Crate) RootID() string {
	return c.rootID
}

// FileExists reports whether relativeID is present in the crate's
// contents. Absolute IRIs (http(s):// etc.) are never "files" in this
// sense and always report false — only relative data-entity IDs resolve
// through the contents oracle's crate invariant.
func (c *Crate) FileExists(relativeID string) bool {
	if relativeID == "" || isAbsoluteIRI(relativeID) {
		return false
	}
	return c.contents.Exists(relativeID)
}

// Close releases resources held by the crate's contents oracle (an open
// zip archive, a downloaded temp file). Safe to call once per Load.
func (c *Crate) Close() error {
	if c.contents == nil {
		return nil
	}
	return c.contents.Close()
}

// ConformsTo returns the root entity's declared conformsTo IRIs, in
// document order, used by the Profile Selector.
func (c *Crate) ConformsTo() []string {
	terms := c.graph.Objects(c.rootID, "http://purl.org/dc/terms/conformsTo")
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.Kind == jsonldgraph.KindIRI {
			out = append(out, t.Value)
		}
	}
	return out
}

// HasPartIDs returns the root entity's declared schema:hasPart target
// IDs, in document order, the enumeration a programmatic file-presence
// check walks to find data entities that should exist in the crate's
// contents.
func (c *Crate) HasPartIDs() []string {
	terms := c.graph.Objects(c.rootID, "http://schema.org/hasPart")
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.Kind == jsonldgraph.KindIRI {
			out = append(out, t.Value)
		}
	}
	return out
}

func isAbsoluteIRI(id string) bool {
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c == ':' {
			return i > 0
		}
		if c == '/' {
			return false
		}
	}
	return false
}

// buildCrate parses the metadata bytes, expands the graph, and determines
// the root entity ID.
func buildCrate(uri string, metadataBytes []byte, contents contentsOracle) (*Crate, error) {
	var doc interface{}
	if err := json.Unmarshal(metadataBytes, &doc); err != nil {
		return nil, rcverr.Wrap(rcverr.MetadataMalformed, "ro-crate-metadata.json is not valid JSON", err)
	}

	graph, err := jsonldgraph.ParseDocument(doc, "")
	if err != nil {
		return nil, rcverr.Wrap(rcverr.MetadataMalformed, "ro-crate-metadata.json is not valid JSON-LD", err)
	}

	rootID := findRootID(graph)

	digest, err := jsonldgraph.CanonicalDigest(doc)
	if err != nil {
		return nil, rcverr.Wrap(rcverr.MetadataMalformed, "computing canonical digest of ro-crate-metadata.json", err)
	}

	return &Crate{
		uri:            uri,
		graph:          graph,
		rootID:         rootID,
		rawDoc:         doc,
		metadataDigest: digest,
		contents:       contents,
	}, nil
}

// findRootID locates the "about" target of the metadata descriptor
// entity, falling back to DefaultRootID.
func findRootID(g *jsonldgraph.Graph) string {
	about := g.Objects(MetadataFileName, "http://schema.org/about")
	if len(about) == 1 && about[0].Kind == jsonldgraph.KindIRI {
		return about[0].Value
	}
	// The metadata descriptor's own @id may have been expanded relative to
	// the crate base rather than left bare; as a fallback, scan for an
	// about triple whose subject is "ro-crate-metadata.json" or
	// "./ro-crate-metadata.json" and whose object is an IRI. Neither
	// entity's type is checked.
	for _, t := range g.Triples {
		if t.Predicate.IsIRI("http://schema.org/about") && t.Subject.Kind == jsonldgraph.KindIRI {
			if t.Subject.Value == MetadataFileName || t.Subject.Value == "./"+MetadataFileName {
				if t.Object.Kind == jsonldgraph.KindIRI {
					return t.Object.Value
				}
			}
		}
	}
	return DefaultRootID
}

func missingMetadataError(uri string) error {
	return rcverr.Newf(rcverr.MetadataMissing, "%s not found at crate root %s", MetadataFileName, uri)
}

func crateNotFoundError(uri string, cause error) error {
	return rcverr.Wrap(rcverr.CrateNotFound, fmt.Sprintf("crate not found at %s", uri), cause)
}
