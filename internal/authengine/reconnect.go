package authengine

import (
	"context"

	"github.com/oldrealm/aegisauth/internal/autherr"
	"github.com/oldrealm/aegisauth/internal/integrity"
	"github.com/oldrealm/aegisauth/internal/wire"
	"github.com/oldrealm/aegisauth/internal/wire/clientpackets"
	"github.com/oldrealm/aegisauth/internal/wire/serverpackets"
)

// runReconnect drives the RECONNECT path: a session must already exist from
// a prior LOGON on this session-key store, there is no fallback to a fresh
// logon.
func (s *Server) runReconnect(ctx context.Context, cli *client) error {
	challenge, err := clientpackets.ReadChallenge(cli.conn)
	if err != nil {
		return autherr.Wrap(err)
	}

	username, ok := normalizeUsername(challenge.Username)
	if !ok {
		s.sendReconnectFail(cli, wire.LoginFailUnknownAccount)
		return autherr.New(autherr.UsernameInvalid, challenge.Username)
	}

	srv, found := s.sessions.Get(username)
	if !found {
		s.sendReconnectFail(cli, wire.LoginFailUnknownAccount)
		return autherr.New(autherr.InvalidUserAttemptedReconnect, username)
	}

	challengeData := srv.ReconnectChallenge()

	buf := s.sendPool.get(defaultSendBufSize)
	defer s.sendPool.put(buf)
	n := serverpackets.ReconnectChallengeSuccess(buf, challengeData)
	if err := writeAll(cli.conn, buf[:n]); err != nil {
		return autherr.Wrap(err)
	}

	var opcodeBuf [1]byte
	if _, err := readFull(cli.conn, opcodeBuf[:]); err != nil {
		return autherr.Wrap(err)
	}
	if opcodeBuf[0] != wire.CmdAuthReconnectProof {
		return autherr.WithOpcode(wire.CmdAuthReconnectProof)
	}
	proof, err := clientpackets.ReadReconnectProof(cli.conn)
	if err != nil {
		return autherr.Wrap(err)
	}

	if !integrity.VerifyReconnectHash(proof.ProofData, proof.ClientChecksum) {
		s.sendReconnectProofFail(cli, wire.LoginFailVersionInvalid)
		return autherr.New(autherr.InvalidReconnectIntegrityCheckForUser, username)
	}

	if !srv.VerifyReconnectProof(proof.ProofData, proof.ClientProof) {
		s.sendReconnectProofFail(cli, wire.LoginFailIncorrectPassword)
		return autherr.New(autherr.InvalidReconnectProofForUser, username)
	}

	n = serverpackets.ReconnectProofSuccess(buf)
	if err := writeAll(cli.conn, buf[:n]); err != nil {
		return autherr.Wrap(err)
	}

	cli.account = username
	cli.state = stateRealmListLoop
	return s.runRealmListLoop(cli)
}

func (s *Server) sendReconnectFail(cli *client, result byte) {
	buf := s.sendPool.get(8)
	defer s.sendPool.put(buf)
	n := serverpackets.ReconnectChallengeFail(buf, result)
	_ = writeAll(cli.conn, buf[:n])
}

func (s *Server) sendReconnectProofFail(cli *client, result byte) {
	buf := s.sendPool.get(8)
	defer s.sendPool.put(buf)
	n := serverpackets.ReconnectProofFail(buf, result)
	_ = writeAll(cli.conn, buf[:n])
}
