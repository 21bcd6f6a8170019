package crate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rocrate-validate/rocrate-validator/rcverr"
)

// httpOptions carries the HTTP client and the cache directory used for
// remote crate downloads; empty values fall back to http.DefaultClient
// and the user cache directory.
type httpOptions struct {
	client   *http.Client
	cacheDir string
}

// downloadToCache fetches uri (an http(s) URL to a zip archive) into the
// content-addressed cache directory, writing via temp-file-then-rename
// so two concurrent validations of the same remote crate converge on a
// single cached copy without corruption (the shared-resource
// policy). The cache key is the SHA-256 of the request URL, not the
// response body, so a cache hit never requires a network round trip.
func downloadToCache(ctx context.Context, uri string, opts httpOptions) (string, error) {
	cacheDir := opts.cacheDir
	if cacheDir == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return "", rcverr.Wrap(rcverr.NetworkError, "could not resolve user cache directory", err)
		}
		cacheDir = filepath.Join(dir, "rocrate-validator", "crates")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", rcverr.Wrap(rcverr.NetworkError, "could not create crate cache directory", err)
	}

	key := sha256.Sum256([]byte(uri))
	dest := filepath.Join(cacheDir, hex.EncodeToString(key[:])+".zip")
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	client := opts.client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", rcverr.Wrap(rcverr.NetworkError, fmt.Sprintf("building request for %s", uri), err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", rcverr.Wrap(rcverr.NetworkError, fmt.Sprintf("downloading %s", uri), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", rcverr.Newf(rcverr.NetworkError, "downloading %s: unexpected status %s", uri, resp.Status)
	}

	tmp, err := os.CreateTemp(cacheDir, ".download-*.tmp")
	if err != nil {
		return "", rcverr.Wrap(rcverr.NetworkError, "creating temp file for download", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return "", rcverr.Wrap(rcverr.NetworkError, fmt.Sprintf("writing download body for %s", uri), err)
	}
	if err := tmp.Sync(); err != nil {
		return "", rcverr.Wrap(rcverr.NetworkError, "syncing downloaded crate to disk", err)
	}
	if err := tmp.Close(); err != nil {
		return "", rcverr.Wrap(rcverr.NetworkError, "closing downloaded crate temp file", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return "", rcverr.Wrap(rcverr.NetworkError, "moving downloaded crate into cache", err)
	}
	success = true
	return dest, nil
}

// CacheStat reports whether a remote crate URI is already present in the
// content-addressed download cache, and its on-disk path if so. This is
// a supplemental read-only inspector over the cache described ;
// it never triggers a download.
func CacheStat(uri string, opts Options) (path string, cached bool, err error) {
	cacheDir := opts.CacheDir
	if cacheDir == "" {
		dir, derr := os.UserCacheDir()
		if derr != nil {
			return "", false, rcverr.Wrap(rcverr.NetworkError, "could not resolve user cache directory", derr)
		}
		cacheDir = filepath.Join(dir, "rocrate-validator", "crates")
	}
	key := sha256.Sum256([]byte(uri))
	dest := filepath.Join(cacheDir, hex.EncodeToString(key[:])+".zip")
	if _, statErr := os.Stat(dest); statErr == nil {
		return dest, true, nil
	}
	return dest, false, nil
}
