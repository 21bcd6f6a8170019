package jsonldgraph

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	cyberphone "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// CanonicalDigest computes the SHA-256 of the RFC 8785 canonical byte
// sequence of a JSON-LD document. Two callers that load byte-identical
// JSON-LD content (modulo key order and insignificant whitespace) are
// guaranteed to get the same digest, which backs Crate.MetadataDigest and
// Profile.DescriptorDigest. The HTTP download cache does not use it: its
// key is the SHA-256 of the request URL.
func CanonicalDigest(doc interface{}) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("jsonldgraph: marshal document for digest: %w", err)
	}
	canonical, err := cyberphone.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("jsonldgraph: canonicalize document for digest: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
