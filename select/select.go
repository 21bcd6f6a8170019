// Package select implements the Profile Selector: given a
// crate's conformsTo declarations, chooses which registered profiles
// drive validation.
package selectprofile

import (
	"sort"

	"github.com/rocrate-validate/rocrate-validator/profile"
	"github.com/rocrate-validate/rocrate-validator/rcverr"
)

// BaseProfileToken is the token of the profile every crate validates
// against when nothing more specific can be determined: a crate with no
// conformsTo value gets the base ro-crate profile applied.
const BaseProfileToken = "ro-crate"

// InteractiveChooser lets a caller pick one profile from a candidate
// list. The CLI/API layer supplies this; the engine never prompts
// directly — interactive prompting is an external collaborator's
// concern.
type InteractiveChooser func(candidates []*profile.Profile) (*profile.Profile, error)

// Mode configures how Select behaves when no conformsTo value matches a
// registered profile.
type Mode struct {
	Interactive bool
	Chooser     InteractiveChooser
}

// Result is the outcome of selection: the ordered, de-duplicated
// profile list to execute, any warnings produced along the way, and
// whether the base profile fallback path was taken.
type Result struct {
	Profiles []*profile.Profile
	Warnings []string
	Fallback bool
}

// Select implements the five-step selection procedure.
func Select(reg *profile.Registry, conformsTo []string, explicitProfile string, mode Mode) (*Result, error) {
	if explicitProfile != "" {
		tok := profile.ParseToken(explicitProfile)
		p, ok := reg.Get(tok.Name, tok.Version)
		if !ok {
			return nil, rcverr.New(rcverr.ProfileNotFound, "explicitly requested profile not registered: "+explicitProfile)
		}
		return &Result{Profiles: []*profile.Profile{p}}, nil
	}

	result := &Result{}
	var selected []*profile.Profile
	seen := make(map[string]bool)
	add := func(p *profile.Profile) {
		if seen[p.IRI()] {
			return
		}
		seen[p.IRI()] = true
		selected = append(selected, p)
	}

	for _, c := range conformsTo {
		if p, ok := reg.FindByIRI(c); ok {
			add(p)
			continue
		}

		tok := profile.ParseToken(c)
		if tok.Version == nil {
			if p, ok := reg.Get(tok.Name, nil); ok {
				add(p)
				continue
			}
			result.Warnings = append(result.Warnings, "no registered profile for conformsTo token "+c)
			continue
		}

		if p, ok := downgrade(reg, tok.Name, tok.Version); ok {
			add(p)
			continue
		}
		result.Warnings = append(result.Warnings, "no registered version of "+tok.Name+" at or below "+tok.Version.String()+" for conformsTo value "+c)
	}

	if len(selected) > 0 {
		result.Profiles = selected
		return result, nil
	}

	// Step 4: no Ci produced a match. Everything from here on is the
	// candidate/base fallback path ( step 4).
	result.Fallback = true

	candidates := candidateProfiles(reg, conformsTo)
	if mode.Interactive && len(candidates) > 0 {
		chosen, err := mode.Chooser(candidates)
		if err != nil {
			return nil, err
		}
		result.Profiles = []*profile.Profile{chosen}
		return result, nil
	}

	if len(candidates) > 0 {
		result.Profiles = candidates
		return result, nil
	}

	base, ok := reg.Get(BaseProfileToken, nil)
	if !ok {
		return nil, rcverr.New(rcverr.ProfileNotFound, "no candidate profile matched and base profile "+BaseProfileToken+" is not registered")
	}
	result.Profiles = []*profile.Profile{base}
	result.Warnings = append(result.Warnings, "PROFILE_FALLBACK: no conformsTo value matched a registered profile, falling back to "+BaseProfileToken)
	return result, nil
}

// downgrade finds the highest registered version of name that is at or
// below requested.
func downgrade(reg *profile.Registry, name string, requested *profile.Version) (*profile.Profile, bool) {
	for _, c := range reg.FindCandidates(name) {
		if c.Descriptor.Version.Ordinal() <= requested.Ordinal() {
			return c, true
		}
	}
	return nil, false
}

// candidateProfiles returns every registered profile whose token name
// appears anywhere in conformsTo, plus the base ro-crate profile if
// registered, for interactive selection or non-interactive
// validate-against-every-candidate fallback ( step 4).
func candidateProfiles(reg *profile.Registry, conformsTo []string) []*profile.Profile {
	nameSet := make(map[string]bool)
	for _, c := range conformsTo {
		nameSet[profile.ParseToken(c).Name] = true
	}
	nameSet[BaseProfileToken] = true

	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]bool)
	var out []*profile.Profile
	for _, name := range names {
		for _, p := range reg.FindCandidates(name) {
			if seen[p.IRI()] {
				continue
			}
			seen[p.IRI()] = true
			out = append(out, p)
		}
	}
	return out
}
