// Package obslog provides the engine's internal structured-logging
// seam: a nil-safe wrapper so every package can log through a
// *zap.Logger without threading nil checks through call sites (
// scopes "logging configuration" out as an external collaborator
// concern; this is the engine's own diagnostic logging, never the
// authoritative output).
package obslog

import "go.uber.org/zap"

// OrNop returns logger, or a no-op logger if logger is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
