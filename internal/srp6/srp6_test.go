package srp6

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildVerifier constructs a verifier the way a credential source would:
// by running the client-side half of SRP6 registration for a known
// password, so the round-trip test exercises exactly what the server does
// at runtime.
func buildVerifier(t *testing.T, username string, salt []byte, password string) *Verifier {
	t.Helper()

	x := computeX(username, password, salt)
	v := toLEBytes(modExp(g, x), KeyLen)

	ver, err := NewVerifier(username, v, salt)
	require.NoError(t, err)
	return ver
}

func TestServerBegin_PublicKeyIsWireWidth(t *testing.T) {
	salt := randomBytes(KeyLen)
	ver := buildVerifier(t, "TESTUSER", salt, "hunter2")

	srv, err := ServerBegin(ver)
	require.NoError(t, err)
	require.Len(t, srv.PublicKey(), KeyLen)
}

func TestIntoServer_RejectsWrongPassword(t *testing.T) {
	salt := randomBytes(KeyLen)
	ver := buildVerifier(t, "TESTUSER", salt, "correct-password")

	srv, err := ServerBegin(ver)
	require.NoError(t, err)

	_, clientPub, wrongM1 := fullClientExchange(t, "TESTUSER", "wrong-password", salt, srv.PublicKey())

	_, err = srv.IntoServer(clientPub, wrongM1, salt)
	require.Error(t, err)
}

func TestReconnect_RoundTrip(t *testing.T) {
	salt := randomBytes(KeyLen)
	username := "TESTUSER"
	ver := buildVerifier(t, username, salt, "hunter2")

	srv, err := ServerBegin(ver)
	require.NoError(t, err)

	clientA, clientPub, m1 := fullClientExchange(t, username, "hunter2", salt, srv.PublicKey())
	_ = clientA

	m2, err := srv.IntoServer(clientPub, m1, salt)
	require.NoError(t, err)
	require.Len(t, m2, ProofLen)
	require.Len(t, srv.SessionKey(), SessionKeyLen)

	challenge := srv.ReconnectChallenge()
	require.Len(t, challenge, 16)

	clientData := randomBytes(16)
	proof := reconnectClientProof(username, clientData, challenge, srv.SessionKey())
	require.True(t, srv.VerifyReconnectProof(clientData, proof))

	require.False(t, srv.VerifyReconnectProof(clientData, randomBytes(ProofLen)))
}
