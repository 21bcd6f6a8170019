// Package validate implements the Check Executor, the
// Result Model, and the engine's top-level Validate entry
// point (the Loader → Selector → Resolver → Executor → Result
// control flow).
package validate

import (
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	selectprofile "github.com/rocrate-validate/rocrate-validator/select"
	"github.com/rocrate-validate/rocrate-validator/severity"
)

// EngineInternalCheckID is the reserved check identifier for issues
// synthesized from execution-kind errors rather than produced by a
// registered check.
const EngineInternalCheckID = "__engine_internal__"

// Issue is a single conformance finding.
type Issue struct {
	CheckID       string         `json:"check_id"`
	RequirementID string         `json:"requirement_id"`
	ProfileToken  string         `json:"profile_token"`
	Severity      severity.Level `json:"severity"`
	Message       string         `json:"message"`
	FocusNode     string         `json:"focus_node,omitempty"`
	Path          string         `json:"path,omitempty"`
}

func (i Issue) dedupeKey(scope DedupeScope) string {
	if scope == DedupeScopeProfile {
		return i.ProfileToken + "\x1f" + i.CheckID + "\x1f" + i.FocusNode + "\x1f" + i.Path + "\x1f" + i.Message
	}
	return i.CheckID + "\x1f" + i.FocusNode + "\x1f" + i.Path + "\x1f" + i.Message
}

// EventType enumerates the Executor's lifecycle events,
// plus the supplemental warning-severity events this repo adds.
type EventType string

const (
	ValidationStarted   EventType = "VALIDATION_STARTED"
	ProfileStarted      EventType = "PROFILE_STARTED"
	RequirementStarted  EventType = "REQUIREMENT_STARTED"
	CheckStarted        EventType = "CHECK_STARTED"
	IssueFound          EventType = "ISSUE_FOUND"
	CheckFinished       EventType = "CHECK_FINISHED"
	RequirementFinished EventType = "REQUIREMENT_FINISHED"
	ProfileFinished     EventType = "PROFILE_FINISHED"
	ValidationFinished  EventType = "VALIDATION_FINISHED"
	ValidationCancelled EventType = "VALIDATION_CANCELLED"

	// Supplemental, non-normative events.
	ProfileFallback             EventType = "PROFILE_FALLBACK"
	ConformsToSkipped           EventType = "CONFORMS_TO_SKIPPED"
	CheckInternalErrorRecovered EventType = "CHECK_INTERNAL_ERROR_RECOVERED"
)

// Event is a single lifecycle record delivered to every Subscriber.
type Event struct {
	Type          EventType
	Timestamp     time.Time
	RunID         string
	ProfileToken  string
	RequirementID string
	CheckID       string
	Issue         *Issue
	Message       string

	cancel func()
}

// RequestCancellation asks the Executor to stop at the next check
// boundary; cancellation is cooperative, taking effect at the next check
// boundary rather than immediately.
func (e Event) RequestCancellation() {
	if e.cancel != nil {
		e.cancel()
	}
}

// Subscriber receives Executor lifecycle events synchronously on the
// validation thread; handlers must be fast and non-throwing.
type Subscriber func(Event)

// cancelToken is the cooperative cancellation flag shared between the
// Executor and any Subscriber that calls Event.RequestCancellation.
type cancelToken struct {
	mu        sync.Mutex
	cancelled bool
}

func (c *cancelToken) request() {
	c.mu.Lock()
	c.cancelled = true
	c.mu.Unlock()
}

func (c *cancelToken) isCancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}

// DedupeScope selects how Issue de-duplication is scoped: across the
// whole result (the default) or per profile.
type DedupeScope int

const (
	DedupeScopeResult DedupeScope = iota
	DedupeScopeProfile
)

// Settings is the engine's external configuration surface.
type Settings struct {
	RocrateURI        string
	ProfileIdentifier string
	// RequirementSeverity's zero value is severity.Optional, not the
	// documented default of REQUIRED; config.Load always sets it
	// explicitly. Callers constructing Settings directly must do the
	// same.
	RequirementSeverity severity.Level
	Interactive         bool
	Chooser             selectprofile.InteractiveChooser
	ProfilesPath        []string
	InheritProfiles     bool
	AbortOnFirst        bool
	Subscribers         []Subscriber
	DedupeScope         DedupeScope
	DryRun              bool

	CacheDir   string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// ValidationResult is the value returned from a validation run.
type ValidationResult struct {
	// RunID correlates this result with the Events published during the
	// same call; it plays no part in issue-set equality or the
	// determinism invariant, which only concern Issues and Threshold.
	RunID            string         `json:"run_id"`
	SelectedProfiles []string       `json:"selected_profiles"`
	Threshold        severity.Level `json:"threshold"`
	Issues           []Issue        `json:"issues"`
	Warnings         []string       `json:"warnings,omitempty"`
	DryRun           bool           `json:"dry_run,omitempty"`
	Cancelled        bool           `json:"cancelled,omitempty"`
}

// HasIssuesAtOrAbove reports whether any issue in the result has
// severity >= threshold.
func (r *ValidationResult) HasIssuesAtOrAbove(threshold severity.Level) bool {
	for _, i := range r.Issues {
		if i.Severity.AtOrAbove(threshold) {
			return true
		}
	}
	return false
}

// Valid reports whether the result is valid at its own configured
// threshold: valid at threshold T iff no issue has severity >= T.
func (r *ValidationResult) Valid() bool {
	return !r.HasIssuesAtOrAbove(r.Threshold)
}
