// Package integrity implements the client-version integrity checks
// exchanged during LOGON and RECONNECT, and the patch-blob MD5 used by the
// transfer sub-protocol. All three are wire-mandated hash constructions,
// not a design choice, so they use the standard library hash primitives
// directly rather than a third-party crypto package.
package integrity

import (
	"crypto/md5"
	"crypto/sha1"
)

// LoginHash computes the client integrity hash over the offered game-file
// blob, the CRC salt the server sent, and the client's SRP public key A.
func LoginHash(gameFileBlob, crcSalt, clientPublicKey []byte) []byte {
	h := sha1.New()
	h.Write(gameFileBlob)
	h.Write(crcSalt)
	h.Write(clientPublicKey)
	return h.Sum(nil)
}

// VerifyLoginHash checks a client-supplied crc_hash against the expected
// value.
func VerifyLoginHash(gameFileBlob, crcSalt, clientPublicKey, clientHash []byte) bool {
	expected := LoginHash(gameFileBlob, crcSalt, clientPublicKey)
	return constantTimeEqual(expected, clientHash)
}

// ReconnectHash computes the reconnect integrity check over the client's
// proof_data.
func ReconnectHash(proofData []byte) []byte {
	h := sha1.New()
	h.Write(proofData)
	return h.Sum(nil)
}

// VerifyReconnectHash checks a client-supplied checksum against the
// expected reconnect integrity hash.
func VerifyReconnectHash(proofData, clientChecksum []byte) bool {
	expected := ReconnectHash(proofData)
	return constantTimeEqual(expected, clientChecksum)
}

// PatchMD5 computes the MD5 digest of a patch blob, sent in XFER_INITIATE.
func PatchMD5(blob []byte) [md5.Size]byte {
	return md5.Sum(blob)
}

func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
