package profile

import (
	"math"
	"regexp"
	"strconv"
)

// Version is a profile's or profile request's version component, parsed
// from the "<major>(.<minor>(.<patch>)?)?" grammar named .
type Version struct {
	Major    int
	Minor    int
	Patch    int
	HasMinor bool
	HasPatch bool
}

// Ordinal returns a value suitable for ordering versions by recency. A
// nil Version (the unversioned case) sorts after every concrete version,
// matching the rule that an unversioned profile request resolves
// to the highest registered version.
func (v *Version) Ordinal() int64 {
	if v == nil {
		return math.MaxInt64
	}
	return int64(v.Major)*1_000_000 + int64(v.Minor)*1_000 + int64(v.Patch)
}

// String renders the version the way it was written, omitting trailing
// components that were never supplied.
func (v *Version) String() string {
	if v == nil {
		return ""
	}
	s := strconv.Itoa(v.Major)
	if v.HasMinor {
		s += "." + strconv.Itoa(v.Minor)
	}
	if v.HasPatch {
		s += "." + strconv.Itoa(v.Patch)
	}
	return s
}

// Token is a parsed "<name>(-<major>(.<minor>(.<patch>)?)?)?" profile
// identifier, the conformsTo-token grammar /§4.4 name.
type Token struct {
	Name    string
	Version *Version
}

// versionedTokenPattern splits a token's trailing "-M(.m(.p)?)?" version
// suffix from its name. Names themselves may contain hyphens (e.g.
// "workflow-ro-crate"), so the split is anchored at the last hyphen
// immediately followed by a digit sequence.
var versionedTokenPattern = regexp.MustCompile(`^(.+)-(\d+)(?:\.(\d+)(?:\.(\d+))?)?$`)

// ParseToken parses a profile token string into its name and optional
// version.
func ParseToken(s string) Token {
	m := versionedTokenPattern.FindStringSubmatch(s)
	if m == nil {
		return Token{Name: s}
	}
	v := &Version{}
	v.Major, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		v.Minor, _ = strconv.Atoi(m[3])
		v.HasMinor = true
	}
	if m[4] != "" {
		v.Patch, _ = strconv.Atoi(m[4])
		v.HasPatch = true
	}
	return Token{Name: m[1], Version: v}
}

// ParseVersionLiteral parses a bare version literal such as a
// descriptor's dct:hasVersion value ("1.1"), with no leading name.
func ParseVersionLiteral(s string) *Version {
	if s == "" {
		return nil
	}
	t := ParseToken("x-" + s)
	return t.Version
}
