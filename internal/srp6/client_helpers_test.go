package srp6

import (
	"crypto/sha1"
	"math/big"
	"testing"
)

// The production code is server-only; these helpers reimplement just enough
// of the client side of SRP6 to exercise the server against a real
// handshake in tests, rather than against hand-rolled byte strings.

func modExp(base *big.Int, exp *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, n)
}

// computeX derives the private key exponent x = H(salt | H(I | ":" | P)),
// the standard SRP6 derivation, as a credential source would when first
// registering a verifier.
func computeX(username, password string, salt []byte) *big.Int {
	inner := sha1.Sum([]byte(username + ":" + password))
	h := sha1.New()
	h.Write(salt)
	h.Write(inner[:])
	return new(big.Int).SetBytes(h.Sum(nil))
}

func clientKeyPair(t *testing.T) (*big.Int, []byte) {
	t.Helper()
	a, err := randomExponent()
	if err != nil {
		t.Fatalf("drawing client ephemeral: %v", err)
	}
	A := modExp(g, a)
	return a, toLEBytes(A, KeyLen)
}

// fullClientExchange runs the client side of one SRP exchange against a
// known server public key B, returning the client ephemeral, public key A,
// and the client proof M1.
func fullClientExchange(t *testing.T, username, password string, salt, bBytes []byte) (*big.Int, []byte, []byte) {
	t.Helper()

	a, aBytes := clientKeyPair(t)
	B := fromLEBytes(bBytes)

	x := computeX(username, password, salt)
	uVal := u(aBytes, bBytes)

	// S = (B - k*g^x) ^ (a + u*x) mod N
	gx := modExp(g, x)
	kgx := new(big.Int).Mul(k, gx)
	base := new(big.Int).Sub(B, kgx)
	base.Mod(base, n)

	exp := new(big.Int).Mul(uVal, x)
	exp.Add(exp, a)

	S := new(big.Int).Exp(base, exp, n)
	sessionKey := interleaveHash(toLEBytes(S, KeyLen))

	m1 := clientProof(username, salt, aBytes, bBytes, sessionKey)
	return a, aBytes, m1
}

// reconnectClientProof mirrors Server.VerifyReconnectProof's hash so tests
// can construct a matching proof without depending on server internals.
func reconnectClientProof(username string, clientData, serverChallenge, sessionKey []byte) []byte {
	h := sha1.New()
	h.Write([]byte(username))
	h.Write(clientData)
	h.Write(serverChallenge)
	h.Write(sessionKey)
	return h.Sum(nil)
}
