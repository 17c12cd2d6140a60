// Package broker implements the inter-service session broker: a second TCP
// endpoint realm servers use to resolve a client's SRP session key after a
// successful LOGON, and to register/deregister themselves in the realm
// list. Unlike the auth engine's client-facing wire, this protocol never
// crosses a client boundary, so framing stays deliberately simple: a single
// opcode byte followed by one-byte length-prefixed strings and fixed-width
// fields.
package broker

const (
	OpRequestSessionKey  = 0x00
	OpSessionKeyAnswer   = 0x01
	OpRegisterRealm      = 0x04
	OpRegisterRealmReply = 0x05
	OpUnregisterRealm    = 0x06
)

// Session key lookup outcomes carried in the found byte of
// SESSION_KEY_ANSWER.
const (
	SessionKeyNotFound = 0x00
	SessionKeyFound    = 0x01
)

// Realm registration outcomes carried in the ok byte of
// REGISTER_REALM_REPLY.
const (
	RegisterRealmFailed = 0x00
	RegisterRealmOK     = 0x01
)
