package validate

import (
	"sort"

	"github.com/rocrate-validate/rocrate-validator/profile"
	"github.com/rocrate-validate/rocrate-validator/shacl"
)

type locatedFinding struct {
	focusNode string
	path      string
	message   string
}

// runShapeRequirements runs the SHACL engine once against the union of
// a profile's shape-backed requirements and maps the resulting report
// back to Issues via the check-identity (shape IRI) mapping.
func (ex *execution) runShapeRequirements(p *profile.Profile, reqs []profile.Requirement) {
	graph := shapesGraphFor(reqs)
	report, err := ex.engine.Validate(ex.crt.MetadataGraph(), graph)
	if err != nil {
		ex.recordIssue(ex.internalErrorIssue(p, "", "SHACL engine failure: "+err.Error()))
		return
	}

	byIRI := graph.ByIRI()
	findingsByShapeIRI := make(map[string][]locatedFinding)
	var unknownShapeIRIs []string
	for _, f := range report.Findings {
		if _, ok := byIRI[f.SourceShapeIRI]; !ok {
			unknownShapeIRIs = append(unknownShapeIRIs, f.SourceShapeIRI)
			continue
		}
		findingsByShapeIRI[f.SourceShapeIRI] = append(findingsByShapeIRI[f.SourceShapeIRI], locatedFinding{f.FocusNode, f.Path, f.Message})
	}

	for _, req := range reqs {
		if ex.cancel.isCancelled() {
			return
		}
		ex.publish(Event{Type: RequirementStarted, ProfileToken: p.Token(), RequirementID: req.ID})
		ex.runShapeChecks(p, req, req.Shape.Properties, findingsByShapeIRI)
		ex.publish(Event{Type: RequirementFinished, ProfileToken: p.Token(), RequirementID: req.ID})
	}

	for _, iri := range unknownShapeIRIs {
		ex.recordIssue(ex.internalErrorIssue(p, "", "SHACL report referenced unknown source shape "+iri))
	}
}

// runShapeChecks runs every check (property shape) within one
// requirement, in check-identifier order (the tie-break rule).
func (ex *execution) runShapeChecks(p *profile.Profile, req profile.Requirement, props []shacl.PropertyShape, findings map[string][]locatedFinding) {
	sorted := append([]shacl.PropertyShape(nil), props...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, prop := range sorted {
		if ex.cancel.isCancelled() {
			return
		}
		ex.publish(Event{Type: CheckStarted, ProfileToken: p.Token(), RequirementID: req.ID, CheckID: prop.ID})
		for _, f := range findings[prop.IRI] {
			ex.recordIssue(Issue{
				CheckID:       prop.ID,
				RequirementID: req.ID,
				ProfileToken:  p.Token(),
				Severity:      prop.EffectiveSeverity(req.Severity),
				Message:       f.message,
				FocusNode:     f.focusNode,
				Path:          f.path,
			})
			if ex.cancel.isCancelled() {
				break
			}
		}
		ex.publish(Event{Type: CheckFinished, ProfileToken: p.Token(), RequirementID: req.ID, CheckID: prop.ID})
	}
}
