package profile

import (
	"io/fs"
	"os"
	"path"
	"sort"
	"sync"

	"github.com/rocrate-validate/rocrate-validator/rcverr"
)

// Registry holds every loaded profile, indexed by descriptor IRI and by
// token name, following the registration-order-plus-mutex shape of
// ProgrammaticChecks. Unlike ProgrammaticChecks, registering a profile
// whose (token, version) already exists overwrites the previous entry
// rather than panicking: the layered directory scanning
// "built-in, then user extension directories; a user profile shadows a
// built-in of the same token and version" is an intentional override,
// not a configuration bug.
type Registry struct {
	mu      sync.RWMutex
	byIRI   map[string]*Profile
	byToken map[string][]*Profile // token name -> versions, unsorted until All/FindCandidates
	checks  *ProgrammaticChecks
}

// NewRegistry returns an empty profile registry backed by checks for
// programmatic-check identifier resolution.
func NewRegistry(checks *ProgrammaticChecks) *Registry {
	return &Registry{
		byIRI:   make(map[string]*Profile),
		byToken: make(map[string][]*Profile),
		checks:  checks,
	}
}

// Checks returns the programmatic check registry this profile registry
// resolves check identifiers against.
func (r *Registry) Checks() *ProgrammaticChecks { return r.checks }

// register adds or replaces p, keyed by (token name, version ordinal).
func (r *Registry) register(p *Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byIRI[p.IRI()] = p

	name := p.Token()
	versions := r.byToken[name]
	replaced := false
	for i, existing := range versions {
		if existing.Descriptor.Version.Ordinal() == p.Descriptor.Version.Ordinal() {
			versions[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		versions = append(versions, p)
	}
	r.byToken[name] = versions
}

// LoadDir scans dir for immediate subdirectories each containing a
// profile.json descriptor, loading and registering every one it finds.
// Profiles in a later call to LoadDir shadow earlier ones with the same
// token and version, so callers load built-in profiles first and user
// extension directories after.
func (r *Registry) LoadDir(dir string) error {
	return r.LoadFS(os.DirFS(dir), dir)
}

// LoadFS is LoadDir's fs.FS-based counterpart, used to register the
// engine's built-in profiles (embedded via go:embed) through the same
// scan-and-register logic as user extension directories.
func (r *Registry) LoadFS(fsys fs.FS, dirLabel string) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return rcverr.Wrap(rcverr.ProfileNotFound, "scanning profile directory "+dirLabel, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := fs.Stat(fsys, path.Join(entry.Name(), DescriptorFileName)); err != nil {
			continue
		}
		p, err := LoadProfileFS(fsys, entry.Name(), path.Join(dirLabel, entry.Name()))
		if err != nil {
			return err
		}
		r.register(p)
	}
	return nil
}

// FindByIRI resolves a profile by its descriptor subject IRI, used to
// follow prof:isProfileOf parent references.
func (r *Registry) FindByIRI(iri string) (*Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byIRI[iri]
	return p, ok
}

// Get resolves an exact (name, version) pair. A nil version matches the
// highest registered version for name, per the unversioned-resolves-to-
// latest rule.
func (r *Registry) Get(name string, version *Version) (*Profile, bool) {
	candidates := r.FindCandidates(name)
	if len(candidates) == 0 {
		return nil, false
	}
	if version == nil {
		return candidates[0], true
	}
	for _, c := range candidates {
		if c.Descriptor.Version.Ordinal() == version.Ordinal() {
			return c, true
		}
	}
	return nil, false
}

// FindCandidates returns every registered version of name, sorted from
// highest to lowest version ordinal, for the Selector's
// version-downgrade search.
func (r *Registry) FindCandidates(name string) []*Profile {
	r.mu.RLock()
	versions := append([]*Profile(nil), r.byToken[name]...)
	r.mu.RUnlock()

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Descriptor.Version.Ordinal() > versions[j].Descriptor.Version.Ordinal()
	})
	return versions
}

// All returns every registered profile across every token name.
func (r *Registry) All() []*Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Profile, 0, len(r.byIRI))
	for _, p := range r.byIRI {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IRI() < out[j].IRI() })
	return out
}
