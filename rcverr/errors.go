// Package rcverr defines the failure taxonomy for the RO-Crate validator
// engine. Every error the engine returns before a ValidationResult exists
// maps to exactly one Kind, which determines the CLI collaborator's exit
// code and lets tests assert on failure classification rather than just
// "did it fail."
package rcverr

import "fmt"

// Kind is a stable failure category.
type Kind string

const (
	// Loader kinds.

	// CrateNotFound indicates the crate URI does not resolve to anything.
	CrateNotFound Kind = "CRATE_NOT_FOUND"
	// MetadataMissing indicates ro-crate-metadata.json is absent from the crate root.
	MetadataMissing Kind = "METADATA_MISSING"
	// MetadataMalformed indicates the metadata document failed JSON or JSON-LD parsing.
	MetadataMalformed Kind = "METADATA_MALFORMED"
	// UnsupportedScheme indicates the crate URI scheme is not local path, file://, or http(s)://.
	UnsupportedScheme Kind = "UNSUPPORTED_SCHEME"
	// NetworkError indicates a remote crate could not be downloaded.
	NetworkError Kind = "NETWORK_ERROR"
	// ArchiveCorrupt indicates a zip archive could not be read.
	ArchiveCorrupt Kind = "ARCHIVE_CORRUPT"

	// Profile kinds.

	// ProfileNotFound indicates a requested profile identifier is not registered.
	ProfileNotFound Kind = "PROFILE_NOT_FOUND"
	// ProfileMalformed indicates a profile descriptor or shape file failed to parse.
	ProfileMalformed Kind = "PROFILE_MALFORMED"
	// ProfileCycle indicates a cycle in the isProfileOf/isTransitiveProfileOf graph.
	ProfileCycle Kind = "PROFILE_CYCLE"
	// DuplicateIdentifier indicates two profiles registered the same identifier after layering.
	DuplicateIdentifier Kind = "DUPLICATE_IDENTIFIER"

	// Execution kinds. These are surfaced as Issues, not returned errors.
	// A SHACL engine failure skips all of that profile's shape checks; the
	// profile's programmatic checks still run.

	// ShapeEngineFailure indicates the SHACL engine could not evaluate a shape graph.
	ShapeEngineFailure Kind = "SHAPE_ENGINE_FAILURE"
	// CheckInternalError indicates a programmatic check raised an unexpected error.
	CheckInternalError Kind = "CHECK_INTERNAL_ERROR"
	// UnknownShape indicates a SHACL report entry referenced an unregistered source shape.
	UnknownShape Kind = "UNKNOWN_SHAPE"

	// CLIUsage indicates a usage error from the (out-of-core) CLI collaborator.
	CLIUsage Kind = "CLI_USAGE"
	// InternalError indicates an unexpected internal invariant violation.
	InternalError Kind = "INTERNAL_ERROR"
)

// ExitCode returns the process exit code the CLI collaborator should use
// for an error of this Kind. Every Kind in this taxonomy
// represents a fatal, pre-ValidationResult failure, so they all map to
// exit code 2; the method exists so the mapping lives next to the
// taxonomy instead of being re-derived by each CLI collaborator.
func (k Kind) ExitCode() int {
	return 2
}

// Error is the structured error type for all engine failures that abort
// a run before a ValidationResult exists.
type Error struct {
	Kind    Kind
	Message string
	// FocusNode and Path are populated when the failure can be attributed
	// to a specific RDF node/property, mirroring Issue's attribution fields.
	FocusNode string
	Path      string
	Cause     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	base := fmt.Sprintf("rocrate-validator: %s: %s", e.Kind, e.Message)
	if e.FocusNode != "" {
		base = fmt.Sprintf("%s (focus=%s)", base, e.FocusNode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// At attaches focus node / path attribution to an existing Error and
// returns it for chaining.
func (e *Error) At(focusNode, path string) *Error {
	e.FocusNode = focusNode
	e.Path = path
	return e
}

// Is supports errors.Is by comparing Kind when the target is also an *Error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
