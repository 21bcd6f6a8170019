package profile

import (
	"encoding/json"
	"io/fs"
	"os"
	"path"

	"github.com/rocrate-validate/rocrate-validator/jsonldgraph"
	"github.com/rocrate-validate/rocrate-validator/rcverr"
	"github.com/rocrate-validate/rocrate-validator/shacl"
)

// DescriptorFileName is the conventional descriptor filename inside a
// profile directory.
const DescriptorFileName = "profile.json"

// Profile is a fully loaded profile: its descriptor plus the SHACL
// shapes it contributes directly (not counting inherited parents, which
// the resolve package composes separately).
type Profile struct {
	Descriptor *Descriptor
	Shapes     *shacl.ShapesGraph
	Dir        string

	// DescriptorDigest is the RFC 8785 canonical digest of the raw
	// descriptor document, used by callers as a stable cache key for
	// profile-derived artifacts (e.g. a resolved-requirements cache)
	// without re-reading or re-parsing the descriptor.
	DescriptorDigest string
}

// Token returns the profile's identifying token.
func (p *Profile) Token() string { return p.Descriptor.Token }

// IRI returns the profile's descriptor subject IRI.
func (p *Profile) IRI() string { return p.Descriptor.IRI }

// LoadProfileDir loads a single profile from a directory containing a
// profile.json descriptor and the shape files it references.
func LoadProfileDir(dir string) (*Profile, error) {
	return LoadProfileFS(os.DirFS(dir), ".", dir)
}

// LoadProfileFS loads a single profile from fsys, the same shape as
// LoadProfileDir but over an fs.FS so built-in profiles embedded via
// go:embed load through the identical descriptor/shape parsing path as
// user extension directories. dirLabel is used only for error messages.
func LoadProfileFS(fsys fs.FS, dir, dirLabel string) (*Profile, error) {
	descData, err := fs.ReadFile(fsys, path.Join(dir, DescriptorFileName))
	if err != nil {
		return nil, rcverr.Wrap(rcverr.ProfileNotFound, "reading profile descriptor in "+dirLabel, err)
	}
	descriptor, err := ParseDescriptor(descData)
	if err != nil {
		return nil, err
	}

	var descDoc interface{}
	if err := json.Unmarshal(descData, &descDoc); err != nil {
		return nil, rcverr.Wrap(rcverr.ProfileMalformed, "re-parsing profile descriptor in "+dirLabel, err)
	}
	digest, err := jsonldgraph.CanonicalDigest(descDoc)
	if err != nil {
		return nil, rcverr.Wrap(rcverr.ProfileMalformed, "computing canonical digest of profile descriptor in "+dirLabel, err)
	}

	shapes := &shacl.ShapesGraph{}
	for _, rel := range descriptor.ShapeFiles {
		data, err := fs.ReadFile(fsys, path.Join(dir, rel))
		if err != nil {
			return nil, rcverr.Wrap(rcverr.ProfileNotFound, "reading shape file "+rel+" for profile "+descriptor.Token, err)
		}
		parsed, err := shacl.ParseShapesFile(data, descriptor.Token)
		if err != nil {
			return nil, err
		}
		shapes.Shapes = append(shapes.Shapes, parsed.Shapes...)
	}

	return &Profile{Descriptor: descriptor, Shapes: shapes, Dir: dirLabel, DescriptorDigest: digest}, nil
}
