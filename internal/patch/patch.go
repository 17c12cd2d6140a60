// Package patch provides the PatchSource capability adapter that, when it
// offers a blob, diverts a LOGON attempt into the transfer sub-protocol
// instead of SRP. The default adapter never offers a patch, matching the
// example PatchProvider in the original project.
package patch

import "github.com/oldrealm/aegisauth/internal/wire/clientpackets"

// Source returns a patch blob to push to the client in place of normal
// authentication, if one applies to the given challenge.
type Source interface {
	Get(challenge *clientpackets.Challenge) ([]byte, bool)
}

// NoneSource never offers a patch.
type NoneSource struct{}

// New creates a NoneSource.
func New() *NoneSource {
	return &NoneSource{}
}

// Get always returns ok=false.
func (s *NoneSource) Get(_ *clientpackets.Challenge) ([]byte, bool) {
	return nil, false
}
