package validate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rocrate-validate/rocrate-validator/crate"
	"github.com/rocrate-validate/rocrate-validator/internal/obslog"
	"github.com/rocrate-validate/rocrate-validator/profile"
	"github.com/rocrate-validate/rocrate-validator/resolve"
	selectprofile "github.com/rocrate-validate/rocrate-validator/select"
	"github.com/rocrate-validate/rocrate-validator/severity"
	"github.com/rocrate-validate/rocrate-validator/shacl"
)

// Validate is the engine's entry point: it drives
// Loader -> Selector -> Resolver -> Executor -> Result and returns the
// ValidationResult, or a fatal *rcverr.Error if the crate or profile
// registry could not be loaded.
func Validate(ctx context.Context, reg *profile.Registry, engine shacl.Engine, settings Settings) (*ValidationResult, error) {
	logger := obslog.OrNop(settings.Logger)

	crt, err := crate.Load(ctx, settings.RocrateURI, crate.Options{
		CacheDir:   settings.CacheDir,
		HTTPClient: settings.HTTPClient,
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = crt.Close() }()
	logger.Debug("loaded crate", zap.String("uri", crt.URI()), zap.String("metadata_digest", crt.MetadataDigest()))

	mode := selectprofile.Mode{Interactive: settings.Interactive, Chooser: settings.Chooser}
	sel, err := selectprofile.Select(reg, crt.ConformsTo(), settings.ProfileIdentifier, mode)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	ex := &execution{
		reg:    reg,
		engine: engine,
		crt:    crt,
		logger: logger,
		cancel: &cancelToken{},
		runID:  runID,
		result: &ValidationResult{RunID: runID, Threshold: settings.RequirementSeverity, Warnings: sel.Warnings, DryRun: settings.DryRun},
		set:    settings,
	}
	for _, w := range sel.Warnings {
		logger.Warn("profile selection warning", zap.String("warning", w))
		ex.publish(Event{Type: ConformsToSkipped, Message: w})
	}
	if sel.Fallback {
		logger.Warn("falling back to base profile", zap.String("base_token", selectprofile.BaseProfileToken))
		ex.publish(Event{Type: ProfileFallback, Message: "no conformsTo value matched a registered profile"})
	}

	ex.publish(Event{Type: ValidationStarted})
	for _, p := range sel.Profiles {
		if ex.cancel.isCancelled() {
			break
		}
		ex.runProfile(p)
	}

	dedupe(ex.result, settings.DedupeScope)

	if ex.cancel.isCancelled() {
		ex.result.Cancelled = true
		ex.publish(Event{Type: ValidationCancelled})
	} else {
		ex.publish(Event{Type: ValidationFinished})
	}
	return ex.result, nil
}

// execution holds the per-call state the three-phase state machine
// mutates; it is never shared across calls, and never outlives the
// Validate call that created it.
type execution struct {
	reg    *profile.Registry
	engine shacl.Engine
	crt    *crate.Crate
	logger *zap.Logger
	cancel *cancelToken
	runID  string
	result *ValidationResult
	set    Settings

	loggedSubscriberPanic bool
}

// publish delivers e to every configured Subscriber, recovering from
// (and logging, once per run) a panicking handler.
func (ex *execution) publish(e Event) {
	e.Timestamp = time.Now()
	e.RunID = ex.runID
	e.cancel = ex.cancel.request
	for _, sub := range ex.set.Subscribers {
		ex.invokeSubscriber(sub, e)
	}
}

func (ex *execution) invokeSubscriber(sub Subscriber, e Event) {
	defer func() {
		if r := recover(); r != nil && !ex.loggedSubscriberPanic {
			ex.loggedSubscriberPanic = true
			ex.logger.Error("subscriber handler panicked", zap.Any("recovered", r))
		}
	}()
	sub(e)
}

// recordIssue appends an issue to the result and publishes ISSUE_FOUND,
// honoring AbortOnFirst by requesting cancellation once threshold is met.
func (ex *execution) recordIssue(issue Issue) {
	ex.result.Issues = append(ex.result.Issues, issue)
	ex.publish(Event{
		Type:          IssueFound,
		ProfileToken:  issue.ProfileToken,
		RequirementID: issue.RequirementID,
		CheckID:       issue.CheckID,
		Issue:         &issue,
	})
	if ex.set.AbortOnFirst && issue.Severity.AtOrAbove(ex.result.Threshold) {
		ex.cancel.request()
	}
}

// runProfile executes the prepare/execute/finalize state machine for a
// single selected profile.
func (ex *execution) runProfile(p *profile.Profile) {
	ex.result.SelectedProfiles = append(ex.result.SelectedProfiles, p.Token())
	ex.logger.Debug("running profile",
		zap.String("profile_token", p.Token()),
		zap.String("descriptor_digest", p.DescriptorDigest))
	ex.publish(Event{Type: ProfileStarted, ProfileToken: p.Token()})
	defer ex.publish(Event{Type: ProfileFinished, ProfileToken: p.Token()})

	// prepare
	var reqs []profile.Requirement
	var err error
	if ex.set.InheritProfiles {
		reqs, err = resolve.Resolve(ex.reg, p)
	} else {
		reqs = ownRequirements(p)
	}
	if err != nil {
		ex.recordIssue(ex.internalErrorIssue(p, "", "resolving requirements: "+err.Error()))
		return
	}
	reqs = filterBySeverity(reqs, ex.result.Threshold)

	if ex.set.DryRun {
		return
	}

	var shapeReqs, programmaticReqs []profile.Requirement
	for _, r := range reqs {
		if r.IsProgrammatic() {
			programmaticReqs = append(programmaticReqs, r)
		} else {
			shapeReqs = append(shapeReqs, r)
		}
	}

	if len(shapeReqs) > 0 {
		ex.runShapeRequirements(p, shapeReqs)
		if ex.cancel.isCancelled() {
			return
		}
	}

	for _, req := range programmaticReqs {
		if ex.cancel.isCancelled() {
			return
		}
		ex.runProgrammaticRequirement(p, req)
	}
}

// ownRequirements builds a profile's own requirement list without
// consulting its parents, for Settings.InheritProfiles == false.
func ownRequirements(p *profile.Profile) []profile.Requirement {
	var out []profile.Requirement
	for _, shape := range p.Shapes.Shapes {
		out = append(out, profile.Requirement{
			ID:           shape.ID,
			ProfileToken: p.Token(),
			ProfileIRI:   p.IRI(),
			Severity:     p.Descriptor.EffectiveSeverity(shape.ID),
			Shape:        shape,
		})
	}
	for _, id := range p.Descriptor.ProgrammaticCheckIDs {
		out = append(out, profile.Requirement{
			ID:                  id,
			ProfileToken:        p.Token(),
			ProfileIRI:          p.IRI(),
			Severity:            p.Descriptor.EffectiveSeverity(id),
			ProgrammaticCheckID: id,
		})
	}
	return out
}

// internalErrorIssue synthesizes the reserved engine-internal issue for
// execution-kind failures, always at REQUIRED severity regardless of the
// failing requirement's own configured severity.
func (ex *execution) internalErrorIssue(p *profile.Profile, requirementID, message string) Issue {
	return Issue{
		CheckID:       EngineInternalCheckID,
		RequirementID: requirementID,
		ProfileToken:  p.Token(),
		Severity:      severity.Required,
		Message:       message,
	}
}
