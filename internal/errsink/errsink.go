// Package errsink defines the capability adapter the auth engine reports
// terminal connection errors to, and a log/slog-backed implementation.
package errsink

import (
	"log/slog"

	"github.com/oldrealm/aegisauth/internal/autherr"
)

// Sink receives exactly one call per failed connection, carrying the
// terminal autherr.Error and the peer address it occurred on.
type Sink interface {
	Report(err *autherr.Error, peerAddr string)
}

// SlogSink reports errors through the package-level slog logger, centralized
// here instead of scattered call sites so each failed connection logs
// exactly once.
type SlogSink struct{}

// New creates a SlogSink.
func New() *SlogSink {
	return &SlogSink{}
}

// Report logs err at a level appropriate to its kind.
func (s *SlogSink) Report(err *autherr.Error, peerAddr string) {
	switch err.Kind {
	case autherr.IoError:
		slog.Warn("connection terminated", "kind", err.Kind.String(), "peer", peerAddr, "err", err.Cause)
	default:
		slog.Info("connection rejected", "kind", err.Kind.String(), "peer", peerAddr, "account", err.Account)
	}
}
