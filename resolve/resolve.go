// Package resolve implements the Inheritance Resolver:
// given a selected profile, compute the transitive closure of its
// isProfileOf/isTransitiveProfileOf ancestors, ordered base-first, with
// per-identifier requirement overrides applied.
package resolve

import (
	"github.com/rocrate-validate/rocrate-validator/profile"
	"github.com/rocrate-validate/rocrate-validator/rcverr"
)

// Resolve returns p's effective requirement list: the concatenation,
// base-first, of requirements from p's transitive parents followed by
// p's own, with same-identifier requirements in a descendant replacing
// the parent's.
func Resolve(reg *profile.Registry, p *profile.Profile) ([]profile.Requirement, error) {
	order, err := ancestorOrder(reg, p, map[string]bool{}, map[string]bool{})
	if err != nil {
		return nil, err
	}

	var result []profile.Requirement
	byID := make(map[string]int)
	put := func(req profile.Requirement) {
		if idx, exists := byID[req.ID]; exists {
			result[idx] = req
			return
		}
		byID[req.ID] = len(result)
		result = append(result, req)
	}

	for _, prof := range order {
		for _, shape := range prof.Shapes.Shapes {
			put(profile.Requirement{
				ID:           shape.ID,
				ProfileToken: prof.Token(),
				ProfileIRI:   prof.IRI(),
				Severity:     prof.Descriptor.EffectiveSeverity(shape.ID),
				Shape:        shape,
			})
		}
		for _, checkID := range prof.Descriptor.ProgrammaticCheckIDs {
			put(profile.Requirement{
				ID:                  checkID,
				ProfileToken:        prof.Token(),
				ProfileIRI:          prof.IRI(),
				Severity:            prof.Descriptor.EffectiveSeverity(checkID),
				ProgrammaticCheckID: checkID,
			})
		}
	}
	return result, nil
}

// ancestorOrder performs a deterministic depth-first topological sort
// of p's isProfileOf ancestors, visiting parents before p itself
// (base-first), and detects cycles via the visiting set.
func ancestorOrder(reg *profile.Registry, p *profile.Profile, visiting, done map[string]bool) ([]*profile.Profile, error) {
	iri := p.IRI()
	if visiting[iri] {
		return nil, rcverr.New(rcverr.ProfileCycle, "cycle detected in profile inheritance at "+iri)
	}
	if done[iri] {
		return nil, nil
	}

	visiting[iri] = true
	var result []*profile.Profile
	for _, parentIRI := range p.Descriptor.IsProfileOf {
		parent, ok := reg.FindByIRI(parentIRI)
		if !ok {
			visiting[iri] = false
			return nil, rcverr.New(rcverr.ProfileNotFound, "profile "+iri+" declares unknown parent "+parentIRI)
		}
		sub, err := ancestorOrder(reg, parent, visiting, done)
		if err != nil {
			return nil, err
		}
		result = append(result, sub...)
	}
	visiting[iri] = false
	done[iri] = true
	result = append(result, p)
	return result, nil
}
