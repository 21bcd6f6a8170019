package validate

import (
	"fmt"

	"github.com/rocrate-validate/rocrate-validator/profile"
	"github.com/rocrate-validate/rocrate-validator/severity"
)

// runProgrammaticRequirement runs a single programmatic check, recovering
// from a panic and converting any failure into the reserved
// engine-internal issue.
func (ex *execution) runProgrammaticRequirement(p *profile.Profile, req profile.Requirement) {
	ex.publish(Event{Type: RequirementStarted, ProfileToken: p.Token(), RequirementID: req.ID})
	ex.publish(Event{Type: CheckStarted, ProfileToken: p.Token(), RequirementID: req.ID, CheckID: req.ProgrammaticCheckID})

	fn, ok := ex.reg.Checks().Get(req.ProgrammaticCheckID)
	switch {
	case !ok:
		ex.recordIssue(Issue{
			CheckID:       EngineInternalCheckID,
			RequirementID: req.ID,
			ProfileToken:  p.Token(),
			Severity:      severity.Required,
			Message:       "no programmatic check registered for id " + req.ProgrammaticCheckID,
		})
	default:
		findings, err := ex.invokeProgrammaticCheck(fn)
		if err != nil {
			ex.recordIssue(Issue{
				CheckID:       EngineInternalCheckID,
				RequirementID: req.ID,
				ProfileToken:  p.Token(),
				Severity:      severity.Required,
				Message:       err.Error(),
			})
			ex.publish(Event{Type: CheckInternalErrorRecovered, ProfileToken: p.Token(), RequirementID: req.ID, CheckID: req.ProgrammaticCheckID, Message: err.Error()})
		}
		for _, f := range findings {
			ex.recordIssue(Issue{
				CheckID:       req.ProgrammaticCheckID,
				RequirementID: req.ID,
				ProfileToken:  p.Token(),
				Severity:      req.Severity,
				Message:       f.Message,
				FocusNode:     f.FocusNode,
				Path:          f.Path,
			})
		}
	}

	ex.publish(Event{Type: CheckFinished, ProfileToken: p.Token(), RequirementID: req.ID, CheckID: req.ProgrammaticCheckID})
	ex.publish(Event{Type: RequirementFinished, ProfileToken: p.Token(), RequirementID: req.ID})
}

// invokeProgrammaticCheck recovers from a panicking check function,
// converting it to an error's exception-to-Issue mapping.
func (ex *execution) invokeProgrammaticCheck(fn profile.ProgrammaticCheckFunc) (findings []profile.ProgrammaticFinding, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("programmatic check panicked: %v", r)
		}
	}()
	return fn(ex.crt)
}
