// Package config implements the ambient Settings-construction layer:
// merging a YAML overlay file, environment variables, and CLI flags into
// a fully-defaulted validate.Settings, following the corpus's
// layered-precedence loaders (flags > env > file > defaults).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rocrate-validate/rocrate-validator/rcverr"
	"github.com/rocrate-validate/rocrate-validator/severity"
	"github.com/rocrate-validate/rocrate-validator/validate"
)

// Overlay is one precedence layer of settings. Every field is a pointer
// (or nil slice) so "not set at this layer" is distinguishable from the
// zero value, letting Merge apply only what a layer actually specifies.
type Overlay struct {
	RocrateURI          *string  `yaml:"rocrate_uri"`
	ProfileIdentifier   *string  `yaml:"profile_identifier"`
	RequirementSeverity *string  `yaml:"requirement_severity"`
	Interactive         *bool    `yaml:"interactive"`
	ProfilesPath        []string `yaml:"profiles_path"`
	InheritProfiles     *bool    `yaml:"inherit_profiles"`
	AbortOnFirst        *bool    `yaml:"abort_on_first"`
	DedupeScope         *string  `yaml:"dedupe_scope"`
	DryRun              *bool    `yaml:"dry_run"`
	CacheDir            *string  `yaml:"cache_dir"`
}

// Merge applies every field from's layer sets onto into, higher
// precedence winning field by field.
func (into *Overlay) Merge(from Overlay) {
	if from.RocrateURI != nil {
		into.RocrateURI = from.RocrateURI
	}
	if from.ProfileIdentifier != nil {
		into.ProfileIdentifier = from.ProfileIdentifier
	}
	if from.RequirementSeverity != nil {
		into.RequirementSeverity = from.RequirementSeverity
	}
	if from.Interactive != nil {
		into.Interactive = from.Interactive
	}
	if len(from.ProfilesPath) > 0 {
		into.ProfilesPath = from.ProfilesPath
	}
	if from.InheritProfiles != nil {
		into.InheritProfiles = from.InheritProfiles
	}
	if from.AbortOnFirst != nil {
		into.AbortOnFirst = from.AbortOnFirst
	}
	if from.DedupeScope != nil {
		into.DedupeScope = from.DedupeScope
	}
	if from.DryRun != nil {
		into.DryRun = from.DryRun
	}
	if from.CacheDir != nil {
		into.CacheDir = from.CacheDir
	}
}

// defaults returns the engine's documented defaults:
// requirement_severity REQUIRED, inherit_profiles true, dedupe_scope
// the result-wide default.
func defaults() Overlay {
	sev := severity.Required.String()
	scope := "result"
	inherit := true
	return Overlay{
		RequirementSeverity: &sev,
		DedupeScope:         &scope,
		InheritProfiles:     &inherit,
	}
}

// LoadFile decodes a YAML settings overlay document. A missing file is
// not an error — it is simply an empty layer — but a malformed one is.
func LoadFile(path string) (Overlay, error) {
	if path == "" {
		return Overlay{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Overlay{}, nil
		}
		return Overlay{}, rcverr.Wrap(rcverr.CLIUsage, "reading settings overlay "+path, err)
	}
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	var o Overlay
	if err := dec.Decode(&o); err != nil {
		return Overlay{}, rcverr.Wrap(rcverr.CLIUsage, "parsing settings overlay "+path, err)
	}
	return o, nil
}

// envPrefix namespaces every environment variable this package reads.
const envPrefix = "ROCRATE_VALIDATE_"

// LoadEnv builds an overlay layer from ROCRATE_VALIDATE_* environment
// variables, using environ (os.Environ() in production; a caller-built
// slice in tests).
func LoadEnv(environ []string) (Overlay, error) {
	var o Overlay
	lookup := make(map[string]string)
	for _, kv := range environ {
		if name, val, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, envPrefix) {
			lookup[strings.TrimPrefix(name, envPrefix)] = val
		}
	}

	if v, ok := lookup["ROCRATE_URI"]; ok {
		o.RocrateURI = &v
	}
	if v, ok := lookup["PROFILE_IDENTIFIER"]; ok {
		o.ProfileIdentifier = &v
	}
	if v, ok := lookup["REQUIREMENT_SEVERITY"]; ok {
		o.RequirementSeverity = &v
	}
	if v, ok := lookup["INTERACTIVE"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Overlay{}, rcverr.Wrap(rcverr.CLIUsage, "parsing "+envPrefix+"INTERACTIVE", err)
		}
		o.Interactive = &b
	}
	if v, ok := lookup["PROFILES_PATH"]; ok && v != "" {
		o.ProfilesPath = strings.Split(v, string(os.PathListSeparator))
	}
	if v, ok := lookup["INHERIT_PROFILES"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Overlay{}, rcverr.Wrap(rcverr.CLIUsage, "parsing "+envPrefix+"INHERIT_PROFILES", err)
		}
		o.InheritProfiles = &b
	}
	if v, ok := lookup["ABORT_ON_FIRST"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Overlay{}, rcverr.Wrap(rcverr.CLIUsage, "parsing "+envPrefix+"ABORT_ON_FIRST", err)
		}
		o.AbortOnFirst = &b
	}
	if v, ok := lookup["DEDUPE_SCOPE"]; ok {
		o.DedupeScope = &v
	}
	if v, ok := lookup["DRY_RUN"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Overlay{}, rcverr.Wrap(rcverr.CLIUsage, "parsing "+envPrefix+"DRY_RUN", err)
		}
		o.DryRun = &b
	}
	if v, ok := lookup["CACHE_DIR"]; ok {
		o.CacheDir = &v
	}
	return o, nil
}

// Load builds the effective validate.Settings from the four precedence
// layers: flags winning over env, env over file, file over defaults.
func Load(filePath string, environ []string, flags Overlay) (validate.Settings, error) {
	fileLayer, err := LoadFile(filePath)
	if err != nil {
		return validate.Settings{}, err
	}
	envLayer, err := LoadEnv(environ)
	if err != nil {
		return validate.Settings{}, err
	}

	effective := defaults()
	effective.Merge(fileLayer)
	effective.Merge(envLayer)
	effective.Merge(flags)

	return effective.toSettings()
}

func (o Overlay) toSettings() (validate.Settings, error) {
	var set validate.Settings

	if o.RocrateURI != nil {
		set.RocrateURI = *o.RocrateURI
	}
	if set.RocrateURI == "" {
		return validate.Settings{}, rcverr.New(rcverr.CLIUsage, "rocrate_uri is required")
	}

	if o.ProfileIdentifier != nil {
		set.ProfileIdentifier = *o.ProfileIdentifier
	}

	sev := severity.Required
	if o.RequirementSeverity != nil {
		parsed, err := severity.Parse(*o.RequirementSeverity)
		if err != nil {
			return validate.Settings{}, rcverr.Wrap(rcverr.CLIUsage, "requirement_severity", err)
		}
		sev = parsed
	}
	set.RequirementSeverity = sev

	if o.Interactive != nil {
		set.Interactive = *o.Interactive
	}
	set.ProfilesPath = o.ProfilesPath

	set.InheritProfiles = true
	if o.InheritProfiles != nil {
		set.InheritProfiles = *o.InheritProfiles
	}

	if o.AbortOnFirst != nil {
		set.AbortOnFirst = *o.AbortOnFirst
	}

	if o.DedupeScope != nil {
		scope, err := parseDedupeScope(*o.DedupeScope)
		if err != nil {
			return validate.Settings{}, err
		}
		set.DedupeScope = scope
	}

	if o.DryRun != nil {
		set.DryRun = *o.DryRun
	}
	if o.CacheDir != nil {
		set.CacheDir = *o.CacheDir
	}

	return set, nil
}

func parseDedupeScope(s string) (validate.DedupeScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "result":
		return validate.DedupeScopeResult, nil
	case "profile":
		return validate.DedupeScopeProfile, nil
	default:
		return 0, rcverr.New(rcverr.CLIUsage, fmt.Sprintf("dedupe_scope must be result or profile, got %q", s))
	}
}
