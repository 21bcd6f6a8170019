package crate

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/rocrate-validate/rocrate-validator/rcverr"
)

// Options configures Load.
type Options struct {
	// CacheDir overrides the user cache directory used for content-addressed
	// downloads of remote (http/https) crates. Empty uses os.UserCacheDir().
	CacheDir string
	// HTTPClient overrides the client used for remote crate downloads.
	// Empty uses http.DefaultClient.
	HTTPClient *http.Client
}

// Load resolves a crate URI and returns the loaded Crate. uri may be:
//   - a local filesystem path to a directory (the crate root)
//   - a local filesystem path ending in ".zip", or a file:// URI to a zip
//   - an http:// or https:// URL pointing to a zip archive
//
// All returned errors are fatal and abort validation before any check
// runs.
func Load(ctx context.Context, uri string, opts Options) (*Crate, error) {
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		path, err := downloadToCache(ctx, uri, httpOptions{client: opts.HTTPClient, cacheDir: opts.CacheDir})
		if err != nil {
			return nil, err
		}
		c, err := loadZip(path)
		if err != nil {
			return nil, err
		}
		return withOriginalURI(c, uri), nil

	case strings.HasPrefix(uri, "file://"):
		localPath := strings.TrimPrefix(uri, "file://")
		if strings.HasSuffix(localPath, ".zip") {
			return loadZip(localPath)
		}
		return loadLocalPath(localPath)

	case looksLikeOtherScheme(uri):
		return nil, rcverr.Newf(rcverr.UnsupportedScheme, "unsupported crate URI scheme: %s", uri)

	case strings.HasSuffix(uri, ".zip"):
		return loadZip(uri)

	default:
		return loadLocalPath(uri)
	}
}

func loadLocalPath(path string) (*Crate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, crateNotFoundError(path, err)
	}
	if info.IsDir() {
		return loadDir(path)
	}
	return loadZip(path)
}

// withOriginalURI rewrites a loaded crate's recorded URI from the local
// cache path back to the remote URL the caller asked for, so diagnostics
// reference what the caller actually typed.
func withOriginalURI(c *Crate, uri string) *Crate {
	c.uri = uri
	return c
}

// looksLikeOtherScheme reports whether uri carries a "scheme:" prefix
// that is not one of the schemes handled above, so it can be rejected as
// UnsupportedScheme rather than misinterpreted as a local path.
func looksLikeOtherScheme(uri string) bool {
	idx := strings.Index(uri, "://")
	return idx > 0 && idx < 16
}
