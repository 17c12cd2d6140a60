package serverpackets

import (
	"testing"

	"github.com/oldrealm/aegisauth/internal/srp6"
	"github.com/oldrealm/aegisauth/internal/wire"
)

func TestLogonChallengeSuccess_NoTwoFactor(t *testing.T) {
	buf := make([]byte, 256)
	crcSalt := make([]byte, 16)
	srpSalt := make([]byte, srp6.KeyLen)
	serverPub := make([]byte, srp6.KeyLen)

	n := LogonChallengeSuccess(buf, crcSalt, srpSalt, serverPub, nil, nil)

	wantLen := 2 + 16 + 1 + srp6.KeyLen + srp6.KeyLen + 1 + srp6.KeyLen
	if n != wantLen {
		t.Fatalf("expected %d bytes written, got %d", wantLen, n)
	}
	if buf[0] != wire.CmdAuthLogonChallenge || buf[1] != wire.LoginOK {
		t.Fatalf("unexpected header bytes: %v", buf[:2])
	}
}

func TestLogonChallengeSuccess_WithPIN(t *testing.T) {
	buf := make([]byte, 256)
	crcSalt := make([]byte, 16)
	srpSalt := make([]byte, srp6.KeyLen)
	serverPub := make([]byte, srp6.KeyLen)

	pinBlock := &PINChallenge{GridSeed: 42, ServerSalt: make([]byte, 16)}
	n := LogonChallengeSuccess(buf, crcSalt, srpSalt, serverPub, pinBlock, nil)

	wantLen := 2 + 16 + 1 + srp6.KeyLen + srp6.KeyLen + 1 + 4 + 16 + srp6.KeyLen
	if n != wantLen {
		t.Fatalf("expected %d bytes written, got %d", wantLen, n)
	}
}

func TestLogonChallengeFail(t *testing.T) {
	buf := make([]byte, 16)
	n := LogonChallengeFail(buf, wire.LoginFailUnknownAccount)
	if n != 2 {
		t.Fatalf("expected 2 bytes, got %d", n)
	}
	if buf[1] != wire.LoginFailUnknownAccount {
		t.Fatalf("expected result byte %d, got %d", wire.LoginFailUnknownAccount, buf[1])
	}
}
