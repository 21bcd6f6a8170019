package jsonldgraph

import (
	"embed"
	"encoding/json"
	"fmt"

	gold "github.com/piprate/json-gold/ld"
)

//go:embed contexts/*.jsonld
var embeddedContexts embed.FS

// knownContextIRIs maps remote context IRIs this validator recognizes to
// an embedded, offline copy. Expansion never reaches the network: a crate
// referencing an unrecognized remote context fails with a clear error
// instead of the engine silently making an outbound HTTP request during
// what is supposed to be a deterministic, single-threaded validation call
//.
var knownContextIRIs = map[string]string{
	"https://w3id.org/ro-crate/1.1/context":        "contexts/rocrate-1.1.jsonld",
	"https://w3id.org/ro-crate/1.1/context.json":   "contexts/rocrate-1.1.jsonld",
	"https://www.w3.org/ns/dx/prof/context.jsonld": "contexts/prof.jsonld",
}

// offlineDocumentLoader resolves JSON-LD context references from an
// embedded cache instead of performing network I/O.
type offlineDocumentLoader struct{}

// NewOfflineDocumentLoader returns a gold.DocumentLoader that serves the
// RO-Crate context(s) this validator ships from its embedded context
// cache and refuses to resolve anything else.
func NewOfflineDocumentLoader() gold.DocumentLoader {
	return &offlineDocumentLoader{}
}

// LoadDocument implements gold.DocumentLoader.
func (l *offlineDocumentLoader) LoadDocument(u string) (*gold.RemoteDocument, error) {
	path, ok := knownContextIRIs[u]
	if !ok {
		return nil, fmt.Errorf("jsonldgraph: context %q is not in the offline context cache", u)
	}
	raw, err := embeddedContexts.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jsonldgraph: read embedded context %q: %w", u, err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("jsonldgraph: parse embedded context %q: %w", u, err)
	}
	return &gold.RemoteDocument{DocumentURL: u, Document: doc}, nil
}
