// Command rocrate-validate validates an RO-Crate against a registered
// conformance profile.
//
// Stable ABI:
//
//	rocrate-validate validate [options] <crate-uri>
//	rocrate-validate --help
//	rocrate-validate --version
//
// Exit codes: 0 (valid), 1 (one or more issues at or above threshold),
// 2 (fatal engine error: loader, profile, internal, or CLI usage).
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rocrate-validate/rocrate-validator/builtin/profiles"
	"github.com/rocrate-validate/rocrate-validator/config"
	"github.com/rocrate-validate/rocrate-validator/profile"
	"github.com/rocrate-validate/rocrate-validator/rcverr"
	selectprofile "github.com/rocrate-validate/rocrate-validator/select"
	"github.com/rocrate-validate/rocrate-validator/shacl"
	"github.com/rocrate-validate/rocrate-validator/validate"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 1 {
		switch args[0] {
		case "--help", "-h":
			_ = writeGlobalHelp(stdout)
			return 0
		case "--version":
			_ = writeLine(stdout, "rocrate-validate "+version)
			return 0
		}
	}

	if len(args) == 0 {
		_ = writeGlobalHelp(stderr)
		return rcverr.CLIUsage.ExitCode()
	}

	switch args[0] {
	case "validate":
		return cmdValidate(args[1:], stdin, stdout, stderr)
	default:
		_ = writef(stderr, "unknown command: %s\n", args[0])
		_ = writeGlobalHelp(stderr)
		return rcverr.CLIUsage.ExitCode()
	}
}

// cliFlags holds the flags cmdValidate understands, in config.Overlay
// shape for direct hand-off to config.Load as the highest-precedence
// layer.
type cliFlags struct {
	overlay     config.Overlay
	settingsURI string
	jsonOutput  bool
	help        bool
}

func parseValidateFlags(args []string) (cliFlags, []string, error) {
	var f cliFlags
	var positional []string

	next := func(i *int, name string) (string, error) {
		*i++
		if *i >= len(args) {
			return "", fmt.Errorf("option %s requires a value", name)
		}
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--help" || arg == "-h":
			f.help = true
		case arg == "--json":
			f.jsonOutput = true
		case arg == "--interactive":
			v := true
			f.overlay.Interactive = &v
		case arg == "--abort-on-first":
			v := true
			f.overlay.AbortOnFirst = &v
		case arg == "--dry-run":
			v := true
			f.overlay.DryRun = &v
		case arg == "--no-inherit-profiles":
			v := false
			f.overlay.InheritProfiles = &v
		case arg == "--settings":
			v, err := next(&i, arg)
			if err != nil {
				return cliFlags{}, nil, err
			}
			f.settingsURI = v
		case arg == "--profile":
			v, err := next(&i, arg)
			if err != nil {
				return cliFlags{}, nil, err
			}
			f.overlay.ProfileIdentifier = &v
		case arg == "--severity":
			v, err := next(&i, arg)
			if err != nil {
				return cliFlags{}, nil, err
			}
			f.overlay.RequirementSeverity = &v
		case arg == "--dedupe-scope":
			v, err := next(&i, arg)
			if err != nil {
				return cliFlags{}, nil, err
			}
			f.overlay.DedupeScope = &v
		case arg == "--cache-dir":
			v, err := next(&i, arg)
			if err != nil {
				return cliFlags{}, nil, err
			}
			f.overlay.CacheDir = &v
		case arg == "--profiles-path":
			v, err := next(&i, arg)
			if err != nil {
				return cliFlags{}, nil, err
			}
			f.overlay.ProfilesPath = append(f.overlay.ProfilesPath, v)
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case strings.HasPrefix(arg, "-") && arg != "-":
			return cliFlags{}, nil, fmt.Errorf("unknown option: %s", arg)
		default:
			positional = append(positional, arg)
		}
	}
	return f, positional, nil
}

func cmdValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fl, positional, err := parseValidateFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, rcverr.CLIUsage.ExitCode(), "error: %v\n", err)
	}

	if fl.help {
		_ = writeValidateHelp(stderr)
		return 0
	}

	if len(positional) != 1 {
		_ = writeLine(stderr, "error: exactly one crate-uri argument is required")
		_ = writeValidateHelp(stderr)
		return rcverr.CLIUsage.ExitCode()
	}
	fl.overlay.RocrateURI = &positional[0]

	set, err := config.Load(fl.settingsURI, os.Environ(), fl.overlay)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	reg := profile.NewRegistry(profile.NewProgrammaticChecks())
	if err := profiles.Register(reg); err != nil {
		return writeClassifiedError(stderr, err)
	}
	for _, dir := range set.ProfilesPath {
		if err := reg.LoadDir(dir); err != nil {
			return writeClassifiedError(stderr, err)
		}
	}

	if set.Interactive {
		set.Chooser = stdioChooser(stdin, stderr)
	}

	result, err := validate.Validate(context.Background(), reg, shacl.NewReferenceEngine(), set)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	if fl.jsonOutput {
		if err := json.NewEncoder(stdout).Encode(result); err != nil {
			return writeErrorAndReturn(stderr, rcverr.InternalError.ExitCode(), "error: writing output: %v\n", err)
		}
	} else {
		writeHumanReport(stdout, result)
	}

	if !result.Valid() {
		return 1
	}
	return 0
}

// stdioChooser implements selectprofile.InteractiveChooser by printing
// candidates to stderr (so stdout stays reserved for --json/report
// output) and reading a numeric choice from stdin.
func stdioChooser(stdin io.Reader, stderr io.Writer) selectprofile.InteractiveChooser {
	return func(candidates []*profile.Profile) (*profile.Profile, error) {
		_ = writeLine(stderr, "multiple profiles match this crate; choose one:")
		for i, c := range candidates {
			_ = writef(stderr, "  [%d] %s\n", i+1, c.Token())
		}
		scanner := bufio.NewScanner(stdin)
		if !scanner.Scan() {
			return nil, rcverr.New(rcverr.CLIUsage, "no profile selection provided on stdin")
		}
		idx, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || idx < 1 || idx > len(candidates) {
			return nil, rcverr.New(rcverr.CLIUsage, "invalid profile selection")
		}
		return candidates[idx-1], nil
	}
}

func writeHumanReport(stdout io.Writer, result *validate.ValidationResult) {
	_ = writef(stdout, "profiles: %s\n", strings.Join(result.SelectedProfiles, ", "))
	for _, w := range result.Warnings {
		_ = writef(stdout, "warning: %s\n", w)
	}
	for _, issue := range result.Issues {
		_ = writef(stdout, "%s\t%s\t%s\n", issue.Severity, issue.CheckID, issue.Message)
	}
	if result.Valid() {
		_ = writeLine(stdout, "valid")
	} else {
		_ = writeLine(stdout, "invalid")
	}
}

func writeClassifiedError(stderr io.Writer, err error) int {
	var re *rcverr.Error
	if errors.As(err, &re) {
		_ = writef(stderr, "error: %v\n", err)
		return re.Kind.ExitCode()
	}
	return writeErrorAndReturn(stderr, rcverr.InternalError.ExitCode(), "error: %v\n", err)
}

func writeErrorAndReturn(stderr io.Writer, code int, format string, args ...any) int {
	_ = writef(stderr, format, args...)
	return code
}

func writeGlobalHelp(w io.Writer) error {
	if err := writeLine(w, "usage: rocrate-validate validate [options] <crate-uri>"); err != nil {
		return err
	}
	if err := writeLine(w, "       rocrate-validate --help"); err != nil {
		return err
	}
	if err := writeLine(w, "       rocrate-validate --version"); err != nil {
		return err
	}
	return writeLine(w, "commands: validate")
}

func writeValidateHelp(stderr io.Writer) error {
	if err := writeLine(stderr, "usage: rocrate-validate validate [options] <crate-uri>"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --settings FILE          YAML settings overlay file"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --profile TOKEN          force a specific profile identifier"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --severity LEVEL         OPTIONAL|RECOMMENDED|REQUIRED (default REQUIRED)"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --interactive            prompt on stdin when profile selection is ambiguous"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --profiles-path DIR      extra profile directory (repeatable)"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --no-inherit-profiles    execute only a profile's own requirements"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --abort-on-first         stop after the first issue at or above threshold"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --dedupe-scope SCOPE     result|profile (default result)"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --dry-run                resolve requirements without executing checks"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --cache-dir DIR          content-addressed cache for remote crates"); err != nil {
		return err
	}
	return writeLine(stderr, "  --json                   emit the ValidationResult as JSON on stdout")
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}

var version = "v0.0.0-dev"
