// Package gamefiles provides the GameFileSource capability adapter used for
// the client-integrity check during LOGON. The default adapter offers
// nothing, matching the example GameFileProvider in the original project
// (no file offered by default, leaving the integrity check skipped for
// unconfigured accounts).
package gamefiles

import "github.com/oldrealm/aegisauth/internal/wire/clientpackets"

// Source returns the game-file blob to integrity-check against, if any.
type Source interface {
	Get(challenge *clientpackets.Challenge) ([]byte, bool)
}

// NoneSource never offers a game-file blob.
type NoneSource struct{}

// New creates a NoneSource.
func New() *NoneSource {
	return &NoneSource{}
}

// Get always returns ok=false.
func (s *NoneSource) Get(_ *clientpackets.Challenge) ([]byte, bool) {
	return nil, false
}
