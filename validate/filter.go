package validate

import (
	"github.com/rocrate-validate/rocrate-validator/profile"
	"github.com/rocrate-validate/rocrate-validator/severity"
	"github.com/rocrate-validate/rocrate-validator/shacl"
)

// filterBySeverity keeps checks whose effective severity is at or above
// threshold, dropping a requirement's checks that do not clear the bar
// and dropping the requirement entirely if none remain.
func filterBySeverity(reqs []profile.Requirement, threshold severity.Level) []profile.Requirement {
	out := make([]profile.Requirement, 0, len(reqs))
	for _, req := range reqs {
		if req.IsProgrammatic() {
			if req.Severity.AtOrAbove(threshold) {
				out = append(out, req)
			}
			continue
		}

		kept := req
		kept.Shape.Properties = nil
		for _, prop := range req.Shape.Properties {
			if prop.EffectiveSeverity(req.Severity).AtOrAbove(threshold) {
				kept.Shape.Properties = append(kept.Shape.Properties, prop)
			}
		}
		if len(kept.Shape.Properties) > 0 {
			out = append(out, kept)
		}
	}
	return out
}

// shapesGraphFor builds the union shapes graph the SHACL engine
// validates against for one profile's shape-backed requirements.
func shapesGraphFor(reqs []profile.Requirement) *shacl.ShapesGraph {
	g := &shacl.ShapesGraph{}
	for _, req := range reqs {
		g.Shapes = append(g.Shapes, req.Shape)
	}
	return g
}
