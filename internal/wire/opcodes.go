// Package wire implements the plaintext, opcode-framed binary protocol
// spoken by the legacy auth client: LOGON/RECONNECT challenge-proof,
// REALM_LIST, and the XFER_* patch-transfer opcodes.
//
// This wire carries no outer length header: each opcode's body has its own
// fixed or self-describing variable layout, read directly off the
// connection field-by-field rather than through a length-prefixed envelope.
package wire

// Client -> server opcodes.
const (
	CmdAuthLogonChallenge     = 0x00
	CmdAuthLogonProof         = 0x01
	CmdAuthReconnectChallenge = 0x02
	CmdAuthReconnectProof     = 0x03
	CmdRealmList              = 0x10
	CmdXferAccept             = 0x32
	CmdXferResume             = 0x33
	CmdXferCancel             = 0x34
)

// Server -> client opcodes (shares most values with the client table; the
// protocol is opcode-symmetric except for XFER_INITIATE/XFER_DATA which
// have no client-initiated counterpart).
const (
	CmdXferInitiate = 0x30
	CmdXferData     = 0x31
)

// LOGON_CHALLENGE / RECONNECT_CHALLENGE server result codes.
const (
	LoginOK                = 0x00
	LoginFailUnknownAccount = 0x04
	LoginFailIncorrectPassword = 0x05
	LoginFailVersionInvalid = 0x09
	LoginDownloadFile       = 0x06
)

// Security-flag bits carried in LOGON_CHALLENGE_Server and expected back in
// LOGON_PROOF_Client.
const (
	SecurityFlagPIN    = 0x01
	SecurityFlagMatrix = 0x04
)
