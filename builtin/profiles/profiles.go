// Package profiles ships the engine's built-in profile definitions —
// ro-crate, workflow-ro-crate, and workflow-run-crate — embedded via
// go:embed so the module validates crates without any external profile
// directory.
package profiles

import (
	"embed"
	"io/fs"

	"github.com/rocrate-validate/rocrate-validator/profile"
	"github.com/rocrate-validate/rocrate-validator/rcverr"
)

//go:embed data
var embedded embed.FS

// DirLabel is the synthetic path used in error messages for profiles
// loaded from the embedded filesystem, since there is no real directory
// on disk to name.
const DirLabel = "builtin/profiles/data"

// Register loads every built-in profile into reg and registers the
// built-in programmatic checks into reg's check registry. Callers that
// also load user extension directories should call Register first, so
// a user profile with the same token and version shadows the built-in
// one per the Registry's documented layering order.
func Register(reg *profile.Registry) error {
	RegisterChecks(reg.Checks())

	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return rcverr.Wrap(rcverr.InternalError, "opening embedded built-in profiles", err)
	}
	return reg.LoadFS(sub, DirLabel)
}
