// Package serverpackets writes opcode-framed messages sent to the client:
// one function per packet, writing directly into a caller-owned buffer and
// returning the byte count written.
package serverpackets

import (
	"encoding/binary"

	"github.com/oldrealm/aegisauth/internal/srp6"
	"github.com/oldrealm/aegisauth/internal/wire"
)

// PINChallenge carries the fields of the LOGON_CHALLENGE security-flags
// PIN sub-block.
type PINChallenge struct {
	GridSeed uint32
	ServerSalt []byte // 16 bytes
}

// MatrixChallenge carries the fields of the LOGON_CHALLENGE security-flags
// matrix-card sub-block.
type MatrixChallenge struct {
	ChallengeCount uint8
	DigitCount     uint8
	Height         uint8
	Width          uint8
	Seed           uint32
}

// LogonChallengeSuccess writes AUTH_LOGON_CHALLENGE_Server (success case):
// opcode, result=OK, CRC salt, g, N, SRP salt, security-flags block, B.
// Returns bytes written.
func LogonChallengeSuccess(buf []byte, crcSalt []byte, srpSalt []byte, serverPublicKey []byte, pinBlock *PINChallenge, matrixBlock *MatrixChallenge) int {
	off := 0
	buf[off] = wire.CmdAuthLogonChallenge
	off++
	buf[off] = wire.LoginOK
	off++

	copy(buf[off:], crcSalt) // 16 bytes
	off += 16

	buf[off] = srp6.Generator
	off++

	copy(buf[off:], srp6.N()) // 32 bytes
	off += srp6.KeyLen

	copy(buf[off:], srpSalt) // 32 bytes
	off += srp6.KeyLen

	var flags uint8
	if pinBlock != nil {
		flags |= wire.SecurityFlagPIN
	}
	if matrixBlock != nil {
		flags |= wire.SecurityFlagMatrix
	}
	buf[off] = flags
	off++

	if pinBlock != nil {
		binary.LittleEndian.PutUint32(buf[off:], pinBlock.GridSeed)
		off += 4
		copy(buf[off:], pinBlock.ServerSalt) // 16 bytes
		off += 16
	}

	if matrixBlock != nil {
		buf[off] = matrixBlock.ChallengeCount
		off++
		buf[off] = matrixBlock.DigitCount
		off++
		buf[off] = matrixBlock.Height
		off++
		buf[off] = matrixBlock.Width
		off++
		binary.LittleEndian.PutUint32(buf[off:], matrixBlock.Seed)
		off += 4
	}

	copy(buf[off:], serverPublicKey) // 32 bytes
	off += srp6.KeyLen

	return off
}

// LogonChallengeFail writes AUTH_LOGON_CHALLENGE_Server carrying a failure
// result code (FailUnknownAccount) or the LoginDownloadFile sentinel when
// the patch-transfer sub-protocol is about to start.
func LogonChallengeFail(buf []byte, result byte) int {
	buf[0] = wire.CmdAuthLogonChallenge
	buf[1] = result
	return 2
}

// ReconnectChallengeSuccess writes AUTH_RECONNECT_CHALLENGE_Server: opcode,
// result=OK, 16-byte challenge data, 16-byte (unused, zero) checksum salt.
func ReconnectChallengeSuccess(buf []byte, challengeData []byte) int {
	off := 0
	buf[off] = wire.CmdAuthReconnectChallenge
	off++
	buf[off] = wire.LoginOK
	off++
	copy(buf[off:], challengeData) // 16 bytes
	off += 16
	clear(buf[off : off+16]) // checksum salt, unused for 1.12
	off += 16
	return off
}

// ReconnectChallengeFail writes AUTH_RECONNECT_CHALLENGE_Server's failure
// form (FailUnknownAccount).
func ReconnectChallengeFail(buf []byte, result byte) int {
	buf[0] = wire.CmdAuthReconnectChallenge
	buf[1] = result
	return 2
}
