package authengine

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oldrealm/aegisauth/internal/integrity"
	"github.com/oldrealm/aegisauth/internal/wire"
)

// readReconnectChallenge drives a RECONNECT_CHALLENGE exchange and returns
// the server's 16-byte challenge data alongside the raw response.
func readReconnectChallenge(t *testing.T, clientConn net.Conn, username string) []byte {
	t.Helper()

	writeChallengeBody(t, clientConn, wire.CmdAuthReconnectChallenge, username)

	resp := make([]byte, 1+1+16+16)
	_, err := readFullFromConn(clientConn, resp)
	require.NoError(t, err)
	require.Equal(t, byte(wire.CmdAuthReconnectChallenge), resp[0])
	return resp
}

func writeReconnectProof(t *testing.T, conn net.Conn, proofData, clientProof, clientChecksum []byte) {
	t.Helper()

	body := make([]byte, 16+20+20)
	copy(body, proofData)
	copy(body[16:], clientProof)
	copy(body[36:], clientChecksum)

	_, err := conn.Write([]byte{wire.CmdAuthReconnectProof})
	require.NoError(t, err)
	_, err = conn.Write(body)
	require.NoError(t, err)
}

func startReconnectTest(t *testing.T, s *Server) (net.Conn, chan struct{}) {
	t.Helper()

	serverConn, clientConn := net.Pipe()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.handleConnection(ctx, serverConn)
	}()
	return clientConn, done
}

// TestReconnect_RoundTrip drives a LOGON followed by a RECONNECT on a
// second connection using the session key the LOGON established — the
// scenario that originally shipped with the challenge-data/proof mismatch.
func TestReconnect_RoundTrip(t *testing.T) {
	const username = "TESTUSER"
	const password = "hunter2"

	s, _, salt := newTestServer(t, username, password)
	sessionKey := doLogon(t, s, username, password, salt)

	clientConn, done := startReconnectTest(t, s)
	defer clientConn.Close()

	resp := readReconnectChallenge(t, clientConn, username)
	require.Equal(t, byte(wire.LoginOK), resp[1])
	serverChallenge := append([]byte(nil), resp[2:18]...)

	proofData := make([]byte, 16)
	for i := range proofData {
		proofData[i] = byte(i + 1)
	}
	clientChecksum := integrity.ReconnectHash(proofData)
	clientProof := reconnectClientProofForTest(username, proofData, serverChallenge, sessionKey)
	writeReconnectProof(t, clientConn, proofData, clientProof, clientChecksum)

	proofResp := make([]byte, 2)
	_, err := readFullFromConn(clientConn, proofResp)
	require.NoError(t, err)
	require.Equal(t, byte(wire.CmdAuthReconnectProof), proofResp[0])
	require.Equal(t, byte(wire.LoginOK), proofResp[1])

	clientConn.Close()
	<-done
}

// TestReconnect_IntegrityMismatch sends a clientChecksum that does not
// match sha1(proofData); the server must reject with FailVersionInvalid,
// distinct from the proof-mismatch case below.
func TestReconnect_IntegrityMismatch(t *testing.T) {
	const username = "TESTUSER"
	const password = "hunter2"

	s, _, salt := newTestServer(t, username, password)
	sessionKey := doLogon(t, s, username, password, salt)

	clientConn, done := startReconnectTest(t, s)
	defer clientConn.Close()

	resp := readReconnectChallenge(t, clientConn, username)
	serverChallenge := append([]byte(nil), resp[2:18]...)

	proofData := make([]byte, 16)
	for i := range proofData {
		proofData[i] = byte(i + 1)
	}
	clientProof := reconnectClientProofForTest(username, proofData, serverChallenge, sessionKey)
	badChecksum := make([]byte, 20) // all-zero, won't equal sha1(proofData)
	writeReconnectProof(t, clientConn, proofData, clientProof, badChecksum)

	proofResp := make([]byte, 2)
	_, err := readFullFromConn(clientConn, proofResp)
	require.NoError(t, err)
	require.Equal(t, byte(wire.CmdAuthReconnectProof), proofResp[0])
	require.Equal(t, byte(wire.LoginFailVersionInvalid), proofResp[1])

	clientConn.Close()
	<-done
}

// TestReconnect_ProofMismatch sends a correct integrity checksum but a
// ClientProof that does not match the session key; the server must reject
// with FailIncorrectPassword.
func TestReconnect_ProofMismatch(t *testing.T) {
	const username = "TESTUSER"
	const password = "hunter2"

	s, _, salt := newTestServer(t, username, password)
	doLogon(t, s, username, password, salt)

	clientConn, done := startReconnectTest(t, s)
	defer clientConn.Close()

	readReconnectChallenge(t, clientConn, username)

	proofData := make([]byte, 16)
	for i := range proofData {
		proofData[i] = byte(i + 1)
	}
	clientChecksum := integrity.ReconnectHash(proofData)
	wrongProof := make([]byte, 20) // doesn't match the session key at all
	writeReconnectProof(t, clientConn, proofData, wrongProof, clientChecksum)

	proofResp := make([]byte, 2)
	_, err := readFullFromConn(clientConn, proofResp)
	require.NoError(t, err)
	require.Equal(t, byte(wire.CmdAuthReconnectProof), proofResp[0])
	require.Equal(t, byte(wire.LoginFailIncorrectPassword), proofResp[1])

	clientConn.Close()
	<-done
}

// TestReconnect_WithoutPriorLogon attempts a RECONNECT for an account that
// has never completed a LOGON on this session store; there is no fallback
// to a fresh logon.
func TestReconnect_WithoutPriorLogon(t *testing.T) {
	const username = "TESTUSER"

	s, _, _ := newTestServer(t, username, "hunter2")

	clientConn, done := startReconnectTest(t, s)
	defer clientConn.Close()

	writeChallengeBody(t, clientConn, wire.CmdAuthReconnectChallenge, username)

	resp := make([]byte, 2)
	_, err := readFullFromConn(clientConn, resp)
	require.NoError(t, err)
	require.Equal(t, byte(wire.CmdAuthReconnectChallenge), resp[0])
	require.Len(t, resp, 2, "challenge failure is a 2-byte opcode+result response")
	require.Equal(t, byte(wire.LoginFailUnknownAccount), resp[1])

	clientConn.Close()
	<-done
}
