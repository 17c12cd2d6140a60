package broker

import "github.com/oldrealm/aegisauth/internal/srp6"

// SessionKeyStore is the capability surface the broker needs to resolve a
// session key by account name.
type SessionKeyStore interface {
	Get(account string) (*srp6.Server, bool)
}

// RealmRegistry is the capability surface the broker needs to register and
// remove realms.
type RealmRegistry interface {
	Add(name, address string, population float32, locked bool, flags, category, realmType, versionMajor, versionMinor, versionPatch uint8, versionBuild uint16) (uint8, bool)
	Remove(id uint8)
}
