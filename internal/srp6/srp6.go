// Package srp6 implements the server side of SRP6 mutual authentication for
// the legacy auth wire parameter set: a 32-byte large safe prime N,
// generator g=7, SHA-1 as the hash function, and 20-byte proof values
// (M1/M2). It is purpose-built for that fixed parameter set rather than a
// general-purpose SRP library, since the wire protocol requires exact byte
// widths that a general SRP implementation parameterized in bits would not
// produce directly.
package srp6

import (
	"bytes"
	"crypto/rand"
	"crypto/sha1"
	"fmt"
	"math/big"
)

const (
	// KeyLen is the width in bytes of N, the client/server public keys, and
	// the SRP salt on the wire.
	KeyLen = 32

	// ProofLen is the width in bytes of M1 and M2.
	ProofLen = 20

	// SessionKeyLen is the width in bytes of the derived session key.
	SessionKeyLen = 40

	// Generator is the wire-mandated SRP generator.
	Generator = 7

	// multiplier is the classic SRP-6 multiplier used by the legacy client
	// (k=3, predating the SRP-6a H(N,g) multiplier derivation).
	multiplier = 3
)

// largeSafePrimeHex is the 32-byte large safe prime used by the legacy auth
// client, as a big-endian hex string. The wire transmits N little-endian.
const largeSafePrimeHex = "894B645E89E1535BBDAD5B8B290650530801B18EBFBF5E8FAB3C82872A3E9BB7"

var (
	n = mustBigIntFromHex(largeSafePrimeHex)
	g = big.NewInt(Generator)
	k = big.NewInt(multiplier)
)

func mustBigIntFromHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("srp6: invalid large safe prime literal")
	}
	return v
}

// N returns the large safe prime, little-endian, zero-padded to KeyLen
// bytes — the form the wire transmits it in.
func N() []byte {
	return toLEBytes(n, KeyLen)
}

func toLEBytes(v *big.Int, size int) []byte {
	be := v.Bytes()
	out := make([]byte, size)
	for i := 0; i < len(be) && i < size; i++ {
		out[i] = be[len(be)-1-i]
	}
	return out
}

func fromLEBytes(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

// Verifier is the per-account SRP material: the stored verifier v and salt,
// derived once (out of scope for this package — supplied by the credential
// source) from the account's password.
type Verifier struct {
	Username string
	V        *big.Int
	Salt     []byte
}

// NewVerifier builds a Verifier from raw wire-width verifier/salt bytes.
func NewVerifier(username string, verifier, salt []byte) (*Verifier, error) {
	if len(verifier) != KeyLen {
		return nil, fmt.Errorf("srp6: verifier must be %d bytes, got %d", KeyLen, len(verifier))
	}
	if len(salt) != KeyLen {
		return nil, fmt.Errorf("srp6: salt must be %d bytes, got %d", KeyLen, len(salt))
	}
	return &Verifier{
		Username: username,
		V:        fromLEBytes(verifier),
		Salt:     append([]byte(nil), salt...),
	}, nil
}

// Server holds the server-side state of one SRP exchange, from challenge
// through a completed session. It is also the object retained in the
// session-key store after logon succeeds, so that a later reconnect can
// verify against the same session key.
type Server struct {
	username string
	v        *big.Int
	b        *big.Int // server private ephemeral
	bPub     *big.Int // server public key B

	sessionKey []byte // 40 bytes, set once A/M1 verify
	m2         []byte // 20 bytes, set alongside sessionKey

	// reconnectChallenge is the 16-byte value handed to the client on a
	// RECONNECT_CHALLENGE response; retained to verify RECONNECT_PROOF.
	reconnectChallenge []byte
}

// ServerBegin starts a new SRP exchange for the given verifier, drawing a
// fresh server ephemeral b and computing the public key B = k*v + g^b mod N.
func ServerBegin(v *Verifier) (*Server, error) {
	b, err := randomExponent()
	if err != nil {
		return nil, fmt.Errorf("srp6: drawing server ephemeral: %w", err)
	}

	gb := new(big.Int).Exp(g, b, n)
	kv := new(big.Int).Mul(k, v.V)
	bPub := new(big.Int).Add(kv, gb)
	bPub.Mod(bPub, n)

	return &Server{
		username: v.Username,
		v:        v.V,
		b:        b,
		bPub:     bPub,
	}, nil
}

func randomExponent() (*big.Int, error) {
	buf := make([]byte, KeyLen)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return fromLEBytes(buf), nil
}

// PublicKey returns B, little-endian, zero-padded to KeyLen bytes.
func (s *Server) PublicKey() []byte {
	return toLEBytes(s.bPub, KeyLen)
}

// IsPublicKeyValid reports whether a client public key A satisfies the
// standard SRP safety check (A mod N != 0); rejecting A=0 prevents a client
// from forcing a session key it already knows.
func IsPublicKeyValid(a []byte) bool {
	A := fromLEBytes(a)
	zero := new(big.Int)
	return new(big.Int).Mod(A, n).Cmp(zero) != 0
}

// u computes the scrambling parameter u = H(A | B).
func u(aBytes, bBytes []byte) *big.Int {
	h := sha1.New()
	h.Write(aBytes)
	h.Write(bBytes)
	return new(big.Int).SetBytes(h.Sum(nil))
}

// interleaveHash implements the legacy client's SHA-1 "interleaved hash"
// used to derive the 40-byte session key from the 32-byte shared secret S:
// split S into even/odd byte streams (after stripping leading zero bytes),
// hash each with SHA-1, then interleave the two 20-byte digests.
func interleaveHash(sBytes []byte) []byte {
	// Strip leading zero bytes (IntoServer passes S little-endian).
	i := 0
	for i < len(sBytes) && sBytes[i] == 0 {
		i++
	}
	sBytes = sBytes[i:]

	var evens, odds []byte
	for idx, b := range sBytes {
		if idx%2 == 0 {
			evens = append(evens, b)
		} else {
			odds = append(odds, b)
		}
	}

	hEven := sha1.Sum(evens)
	hOdd := sha1.Sum(odds)

	out := make([]byte, SessionKeyLen)
	for i := 0; i < ProofLen; i++ {
		out[2*i] = hEven[i]
		out[2*i+1] = hOdd[i]
	}
	return out
}

// ClientProof computes M1 = H(H(N) xor H(g) | H(I) | salt | A | B | K),
// the legacy client proof construction.
func clientProof(username string, salt, aBytes, bBytes, sessionKey []byte) []byte {
	hn := sha1.Sum(toLEBytes(n, KeyLen))
	hg := sha1.Sum(toLEBytes(g, KeyLen))
	xored := make([]byte, sha1.Size)
	for i := range xored {
		xored[i] = hn[i] ^ hg[i]
	}
	hi := sha1.Sum([]byte(username))

	h := sha1.New()
	h.Write(xored)
	h.Write(hi[:])
	h.Write(salt)
	h.Write(aBytes)
	h.Write(bBytes)
	h.Write(sessionKey)
	return h.Sum(nil)
}

// IntoServer verifies the client's proof M1 against its public key A,
// deriving the shared session key and the server proof M2. On success it
// installs the session key on s and returns M2; it returns an error when
// the proof does not match. A itself is not range-checked here (see
// IsPublicKeyValid).
func (s *Server) IntoServer(aBytes, clientM1, salt []byte) ([]byte, error) {
	A := fromLEBytes(aBytes)
	bBytes := s.PublicKey()

	uVal := u(aBytes, bBytes)

	// S = (A * v^u) ^ b mod N
	vu := new(big.Int).Exp(s.v, uVal, n)
	avu := new(big.Int).Mul(A, vu)
	avu.Mod(avu, n)
	S := new(big.Int).Exp(avu, s.b, n)

	sessionKey := interleaveHash(toLEBytes(S, KeyLen))

	expectedM1 := clientProof(s.username, salt, aBytes, bBytes, sessionKey)
	if !bytes.Equal(expectedM1, clientM1) {
		return nil, fmt.Errorf("srp6: client proof mismatch")
	}

	m2 := serverProof(aBytes, clientM1, sessionKey)

	s.sessionKey = sessionKey
	s.m2 = m2
	s.reconnectChallenge = randomBytes(16)

	return m2, nil
}

func serverProof(aBytes, m1, sessionKey []byte) []byte {
	h := sha1.New()
	h.Write(aBytes)
	h.Write(m1)
	h.Write(sessionKey)
	return h.Sum(nil)
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}

// SessionKey returns the negotiated 40-byte session key. Only valid after
// IntoServer has succeeded.
func (s *Server) SessionKey() []byte {
	return append([]byte(nil), s.sessionKey...)
}

// ReconnectChallenge returns the 16-byte value to send in
// RECONNECT_CHALLENGE.Success, drawn fresh each time it's called so a
// client may reconnect more than once against the same stored session.
func (s *Server) ReconnectChallenge() []byte {
	s.reconnectChallenge = randomBytes(16)
	return append([]byte(nil), s.reconnectChallenge...)
}

// VerifyReconnectProof checks the client's reconnect proof: a SHA-1 over
// (username, clientData, reconnectChallenge, sessionKey) must equal
// clientProof.
func (s *Server) VerifyReconnectProof(clientData, clientProofBytes []byte) bool {
	h := sha1.New()
	h.Write([]byte(s.username))
	h.Write(clientData)
	h.Write(s.reconnectChallenge)
	h.Write(s.sessionKey)
	expected := h.Sum(nil)
	return bytes.Equal(expected, clientProofBytes)
}

// Username returns the account name this server object was created for.
func (s *Server) Username() string {
	return s.username
}
