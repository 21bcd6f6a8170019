// Package severity defines the ordered severity set used throughout the
// validator engine: requirements, checks, issues, and the execution
// threshold are all expressed in terms of a Level.
package severity

import (
	"fmt"
	"strings"
)

// Level is a point in the ordered set {OPTIONAL < RECOMMENDED < REQUIRED}.
type Level int

const (
	// Optional marks a requirement a crate may freely ignore.
	Optional Level = iota
	// Recommended marks a requirement crates should satisfy but need not.
	Recommended
	// Required marks a requirement a conformant crate must satisfy.
	Required
)

// String renders the level the way profile descriptors and issue messages
// spell it.
func (l Level) String() string {
	switch l {
	case Optional:
		return "OPTIONAL"
	case Recommended:
		return "RECOMMENDED"
	case Required:
		return "REQUIRED"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// Parse converts a profile-descriptor or settings string into a Level.
// The comparison is case-insensitive; unrecognized input is an error so
// malformed profiles are rejected at load time rather than silently
// downgraded to Optional.
func Parse(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "OPTIONAL":
		return Optional, nil
	case "RECOMMENDED":
		return Recommended, nil
	case "REQUIRED":
		return Required, nil
	default:
		return 0, fmt.Errorf("severity: unrecognized level %q", s)
	}
}

// AtOrAbove reports whether l meets or exceeds threshold — the predicate
// that decides whether a check runs and whether an issue counts against
// validity at a given threshold.
func (l Level) AtOrAbove(threshold Level) bool {
	return l >= threshold
}

// MarshalJSON renders the level as its string form.
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// UnmarshalJSON parses the level from its string form.
func (l *Level) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
