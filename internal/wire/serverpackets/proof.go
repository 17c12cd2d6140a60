package serverpackets

import (
	"encoding/binary"

	"github.com/oldrealm/aegisauth/internal/wire"
)

// LogonProofSuccess writes AUTH_LOGON_PROOF_Server's success form:
// opcode, result=OK, server proof M2 (20 bytes), account_flag(4, zero),
// hardware_survey_id(4, zero), unknown(2, zero).
func LogonProofSuccess(buf []byte, m2 []byte) int {
	off := 0
	buf[off] = wire.CmdAuthLogonProof
	off++
	buf[off] = wire.LoginOK
	off++
	copy(buf[off:], m2) // 20 bytes
	off += 20
	binary.LittleEndian.PutUint32(buf[off:], 0) // account_flag
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], 0) // hardware_survey_id
	off += 4
	binary.LittleEndian.PutUint16(buf[off:], 0) // unknown
	off += 2
	return off
}

// LogonProofFail writes AUTH_LOGON_PROOF_Server's failure form carrying
// result: FailIncorrectPassword for a bad password and for a failed 2FA
// check alike (the client does not distinguish them), FailVersionInvalid
// for a failed integrity check.
func LogonProofFail(buf []byte, result byte) int {
	buf[0] = wire.CmdAuthLogonProof
	buf[1] = result
	return 2
}

// ReconnectProofSuccess writes AUTH_RECONNECT_PROOF_Server's success form.
func ReconnectProofSuccess(buf []byte) int {
	buf[0] = wire.CmdAuthReconnectProof
	buf[1] = wire.LoginOK
	return 2
}

// ReconnectProofFail writes AUTH_RECONNECT_PROOF_Server's failure form.
func ReconnectProofFail(buf []byte, result byte) int {
	buf[0] = wire.CmdAuthReconnectProof
	buf[1] = result
	return 2
}
