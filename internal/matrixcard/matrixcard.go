// Package matrixcard implements the matrix-card two-factor sub-protocol: a
// printed grid of digits the server names cells from (by a seeded
// challenge sequence), and the client returns a proof over the digits
// found at those cells.
package matrixcard

import (
	"crypto/sha1"
	mathrand "math/rand/v2"

	"github.com/oldrealm/aegisauth/internal/model"
)

// ChallengeCells returns the sequence of (row, col) cells the server
// challenges the client to read from the card, deterministic for a given
// seed so both sides agree without extra round-trips.
func ChallengeCells(card *model.MatrixCardData, seed uint64) [][2]int {
	rng := mathrand.New(mathrand.NewPCG(seed, seed))
	cells := make([][2]int, card.ChallengeCount)
	for i := range cells {
		cells[i] = [2]int{rng.IntN(card.Height), rng.IntN(card.Width)}
	}
	return cells
}

// Proof computes the expected proof bytes: SHA-1(sessionKey | digits at the
// challenged cells, in order).
func Proof(card *model.MatrixCardData, seed uint64, sessionKey []byte) []byte {
	cells := ChallengeCells(card, seed)

	h := sha1.New()
	h.Write(sessionKey)
	for _, c := range cells {
		h.Write([]byte{card.Digits[c[0]][c[1]]})
	}
	return h.Sum(nil)
}

// Verify checks a client-supplied matrix-card proof.
func Verify(card *model.MatrixCardData, seed uint64, sessionKey, clientProof []byte) bool {
	expected := Proof(card, seed, sessionKey)
	if len(expected) != len(clientProof) {
		return false
	}
	var diff byte
	for i := range expected {
		diff |= expected[i] ^ clientProof[i]
	}
	return diff == 0
}
