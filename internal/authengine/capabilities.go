// Package authengine drives the per-connection LOGON/RECONNECT/transfer/
// realm-list state machine and the TCP dispatcher that accepts client
// connections for it.
package authengine

import (
	"context"

	"github.com/oldrealm/aegisauth/internal/autherr"
	"github.com/oldrealm/aegisauth/internal/model"
	"github.com/oldrealm/aegisauth/internal/srp6"
	"github.com/oldrealm/aegisauth/internal/wire/clientpackets"
)

// CredentialSource looks up an account's SRP verifier/salt and optional
// 2FA material.
type CredentialSource interface {
	Get(ctx context.Context, username string) (*model.Credentials, bool, error)
}

// PatchSource optionally diverts a LOGON attempt into the transfer
// sub-protocol.
type PatchSource interface {
	Get(challenge *clientpackets.Challenge) ([]byte, bool)
}

// GameFileSource optionally offers a game-file blob for the client
// integrity check.
type GameFileSource interface {
	Get(challenge *clientpackets.Challenge) ([]byte, bool)
}

// RealmListSource returns the current realm snapshot for delivery to a
// client.
type RealmListSource interface {
	Snapshot() []model.Realm
}

// SessionKeyStore is the capability surface the engine needs from the
// session-key store: install on LOGON success, and look up on RECONNECT.
type SessionKeyStore interface {
	Put(account string, server *srp6.Server)
	Get(account string) (*srp6.Server, bool)
}

// ErrorSink receives the terminal error for a connection, exactly once.
type ErrorSink interface {
	Report(err *autherr.Error, peerAddr string)
}
