package broker

import (
	"encoding/binary"
	"io"
)

func readLengthPrefixed(r io.Reader) (string, error) {
	var lenBuf [1]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", err
	}
	buf := make([]byte, lenBuf[0])
	if len(buf) > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
	}
	return string(buf), nil
}

func writeLengthPrefixed(buf []byte, off int, s string) int {
	buf[off] = byte(len(s))
	off++
	copy(buf[off:], s)
	return off + len(s)
}

// requestSessionKey is REQUEST_SESSION_KEY's body: the account name.
type requestSessionKey struct {
	Account string
}

func readRequestSessionKey(r io.Reader) (*requestSessionKey, error) {
	account, err := readLengthPrefixed(r)
	if err != nil {
		return nil, err
	}
	return &requestSessionKey{Account: account}, nil
}

// sessionKeyAnswer writes SESSION_KEY_ANSWER: opcode, found flag, and (when
// found) the 40-byte interleaved session key.
func sessionKeyAnswer(buf []byte, sessionKey []byte) int {
	buf[0] = OpSessionKeyAnswer
	if sessionKey == nil {
		buf[1] = SessionKeyNotFound
		buf[2] = 0
		return 3
	}
	buf[1] = SessionKeyFound
	buf[2] = byte(len(sessionKey))
	copy(buf[3:], sessionKey)
	return 3 + len(sessionKey)
}

// registerRealm is REGISTER_REALM's body: everything realmregistry.Add
// needs to admit a new realm.
type registerRealm struct {
	Name         string
	Address      string
	Population   float32
	Locked       bool
	Flags        byte
	Category     byte
	RealmType    byte
	VersionMajor byte
	VersionMinor byte
	VersionPatch byte
	VersionBuild uint16
}

func readRegisterRealm(r io.Reader) (*registerRealm, error) {
	name, err := readLengthPrefixed(r)
	if err != nil {
		return nil, err
	}
	address, err := readLengthPrefixed(r)
	if err != nil {
		return nil, err
	}

	var fixed [13]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, err
	}

	population := float32(binary.LittleEndian.Uint32(fixed[0:4])) / 100
	return &registerRealm{
		Name:         name,
		Address:      address,
		Population:   population,
		Locked:       fixed[4] != 0,
		Flags:        fixed[5],
		Category:     fixed[6],
		RealmType:    fixed[7],
		VersionMajor: fixed[8],
		VersionMinor: fixed[9],
		VersionPatch: fixed[10],
		VersionBuild: binary.LittleEndian.Uint16(fixed[11:13]),
	}, nil
}

func registerRealmReply(buf []byte, ok bool, id uint8) int {
	buf[0] = OpRegisterRealmReply
	if ok {
		buf[1] = RegisterRealmOK
	} else {
		buf[1] = RegisterRealmFailed
	}
	buf[2] = id
	return 3
}
