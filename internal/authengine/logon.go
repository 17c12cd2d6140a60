package authengine

import (
	"context"
	"crypto/rand"
	"strings"

	"github.com/oldrealm/aegisauth/internal/autherr"
	"github.com/oldrealm/aegisauth/internal/integrity"
	"github.com/oldrealm/aegisauth/internal/matrixcard"
	"github.com/oldrealm/aegisauth/internal/pin"
	"github.com/oldrealm/aegisauth/internal/srp6"
	"github.com/oldrealm/aegisauth/internal/wire"
	"github.com/oldrealm/aegisauth/internal/wire/clientpackets"
	"github.com/oldrealm/aegisauth/internal/wire/serverpackets"
)

const maxUsernameLen = 16

// normalizeUsername uppercases and validates an account name per step 1 of
// the LOGON path.
func normalizeUsername(raw string) (string, bool) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if name == "" || len(name) > maxUsernameLen {
		return "", false
	}
	for _, r := range name {
		if r < 0x20 || r > 0x7e {
			return "", false
		}
	}
	return name, true
}

// runLogon drives the full LOGON path: challenge, optional patch diversion,
// credential lookup, SRP exchange, proof verification, optional integrity
// and 2FA checks, session install, and the realm-list hand-off.
func (s *Server) runLogon(ctx context.Context, cli *client) error {
	challenge, err := clientpackets.ReadChallenge(cli.conn)
	if err != nil {
		return autherr.Wrap(err)
	}

	username, ok := normalizeUsername(challenge.Username)
	if !ok {
		s.sendLogonFail(cli, wire.LoginFailUnknownAccount)
		return autherr.New(autherr.UsernameInvalid, challenge.Username)
	}

	// Step 2: optional patch interception.
	if blob, hasPatch := s.patches.Get(challenge); hasPatch {
		return s.runTransfer(ctx, cli, blob)
	}

	// Step 3: credential lookup.
	creds, found, err := s.credentials.Get(ctx, username)
	if err != nil {
		return autherr.Wrap(err)
	}
	if !found {
		s.sendLogonFail(cli, wire.LoginFailUnknownAccount)
		return autherr.New(autherr.UsernameNotFound, username)
	}

	// Step 4: build verifier, derive server ephemeral.
	verifier, err := srp6.NewVerifier(username, creds.Verifier, creds.Salt)
	if err != nil {
		return autherr.Wrap(err)
	}
	srv, err := srp6.ServerBegin(verifier)
	if err != nil {
		return autherr.Wrap(err)
	}

	// Step 5: CRC salt, matrix seed, PIN grid seed.
	crcSalt := randomBytes(16)
	matrixSeed := randomBytes(8)
	// The challenge carries the grid seed as a 4-byte field; keep only the
	// part the client receives so both sides build the same grid.
	gridSeed := uint64(uint32(pin.NewGridSeed(s.cfg.RandomizePinGrid)))

	// Step 6: security flags + sub-block material.
	var pinChallenge *serverpackets.PINChallenge
	var pinServerSalt []byte
	if creds.PIN != nil {
		pinServerSalt, err = pin.NewSalt()
		if err != nil {
			return autherr.Wrap(err)
		}
		pinChallenge = &serverpackets.PINChallenge{
			GridSeed:   uint32(gridSeed),
			ServerSalt: pinServerSalt,
		}
	}

	var matrixChallenge *serverpackets.MatrixChallenge
	if creds.MatrixCard != nil {
		matrixChallenge = &serverpackets.MatrixChallenge{
			ChallengeCount: uint8(creds.MatrixCard.ChallengeCount),
			DigitCount:     uint8(creds.MatrixCard.DigitCount),
			Height:         uint8(creds.MatrixCard.Height),
			Width:          uint8(creds.MatrixCard.Width),
			Seed:           beToUint32(matrixSeed),
		}
	}

	// Step 7: send challenge response.
	buf := s.sendPool.get(defaultSendBufSize)
	defer s.sendPool.put(buf)
	n := serverpackets.LogonChallengeSuccess(buf, crcSalt, verifier.Salt, srv.PublicKey(), pinChallenge, matrixChallenge)
	if err := writeAll(cli.conn, buf[:n]); err != nil {
		return autherr.Wrap(err)
	}

	// Step 8: read LOGON_PROOF_Client.
	var opcodeBuf [1]byte
	if _, err := readFull(cli.conn, opcodeBuf[:]); err != nil {
		return autherr.Wrap(err)
	}
	if opcodeBuf[0] != wire.CmdAuthLogonProof {
		return autherr.WithOpcode(wire.CmdAuthLogonProof)
	}
	proof, err := clientpackets.ReadLogonProof(cli.conn, creds.PIN != nil, creds.MatrixCard != nil)
	if err != nil {
		return autherr.Wrap(err)
	}

	// Step 9: validate client public key.
	if !srp6.IsPublicKeyValid(proof.PublicKey) {
		return autherr.New(autherr.InvalidPublicKey, username)
	}

	// Step 10: verify SRP proof.
	m2, err := srv.IntoServer(proof.PublicKey, proof.M1, verifier.Salt)
	if err != nil {
		s.sendLogonProofFail(cli, wire.LoginFailIncorrectPassword)
		return autherr.New(autherr.InvalidPasswordForUser, username)
	}

	// Step 11: integrity check, only when a game-file blob is offered.
	if blob, hasBlob := s.gameFiles.Get(challenge); hasBlob {
		if !integrity.VerifyLoginHash(blob, crcSalt, proof.PublicKey, proof.CRCHash) {
			s.sendLogonProofFail(cli, wire.LoginFailVersionInvalid)
			return autherr.New(autherr.InvalidIntegrityCheckForUser, username)
		}
	}

	// Step 12: 2FA checks.
	if creds.PIN != nil {
		if proof.PIN == nil {
			s.sendLogonProofFail(cli, wire.LoginFailIncorrectPassword)
			return autherr.New(autherr.PinNotSentForUser, username)
		}
		if !pin.Verify(*creds.PIN, gridSeed, pinServerSalt, proof.PIN.ClientSalt, proof.PIN.Hash) {
			s.sendLogonProofFail(cli, wire.LoginFailIncorrectPassword)
			return autherr.New(autherr.PinInvalidForUser, username)
		}
	}
	if creds.MatrixCard != nil {
		if proof.Matrix == nil {
			s.sendLogonProofFail(cli, wire.LoginFailIncorrectPassword)
			return autherr.New(autherr.MatrixCardDataNotSentForUser, username)
		}
		if !matrixcard.Verify(creds.MatrixCard, uint64(beToUint32(matrixSeed)), srv.SessionKey(), proof.Matrix.Proof) {
			s.sendLogonProofFail(cli, wire.LoginFailIncorrectPassword)
			return autherr.New(autherr.MatrixCardInvalidForUser, username)
		}
	}

	// Step 13: install session.
	s.sessions.Put(username, srv)
	cli.account = username

	// Step 14: respond success.
	n = serverpackets.LogonProofSuccess(buf, m2)
	if err := writeAll(cli.conn, buf[:n]); err != nil {
		return autherr.Wrap(err)
	}

	// Step 15: realm-list loop.
	cli.state = stateRealmListLoop
	return s.runRealmListLoop(cli)
}

func (s *Server) sendLogonFail(cli *client, result byte) {
	buf := s.sendPool.get(8)
	defer s.sendPool.put(buf)
	n := serverpackets.LogonChallengeFail(buf, result)
	_ = writeAll(cli.conn, buf[:n])
}

func (s *Server) sendLogonProofFail(cli *client, result byte) {
	buf := s.sendPool.get(8)
	defer s.sendPool.put(buf)
	n := serverpackets.LogonProofFail(buf, result)
	_ = writeAll(cli.conn, buf[:n])
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}

func beToUint32(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

func beToUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
