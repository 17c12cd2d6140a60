package broker

import (
	"fmt"
	"io"
	"net"
)

// handleMessage reads and answers exactly one broker request. It returns
// false when the connection should close (EOF or malformed framing).
func handleMessage(conn net.Conn, sessions SessionKeyStore, realms RealmRegistry, c *connection) (bool, error) {
	var opcodeBuf [1]byte
	if _, err := io.ReadFull(conn, opcodeBuf[:]); err != nil {
		return false, nil
	}

	switch opcodeBuf[0] {
	case OpRequestSessionKey:
		return handleRequestSessionKey(conn, sessions)
	case OpRegisterRealm:
		return handleRegisterRealm(conn, realms, c)
	case OpUnregisterRealm:
		return handleUnregisterRealm(conn, realms, c)
	default:
		return false, fmt.Errorf("broker: unknown opcode 0x%02X", opcodeBuf[0])
	}
}

func handleRequestSessionKey(conn net.Conn, sessions SessionKeyStore) (bool, error) {
	req, err := readRequestSessionKey(conn)
	if err != nil {
		return false, err
	}

	var buf [64]byte
	srv, found := sessions.Get(req.Account)
	if !found {
		n := sessionKeyAnswer(buf[:], nil)
		_, err := conn.Write(buf[:n])
		return err == nil, err
	}

	n := sessionKeyAnswer(buf[:], srv.SessionKey())
	_, err = conn.Write(buf[:n])
	return err == nil, err
}

func handleRegisterRealm(conn net.Conn, realms RealmRegistry, c *connection) (bool, error) {
	req, err := readRegisterRealm(conn)
	if err != nil {
		return false, err
	}

	id, ok := realms.Add(
		req.Name, req.Address, req.Population, req.Locked,
		req.Flags, req.Category, req.RealmType,
		req.VersionMajor, req.VersionMinor, req.VersionPatch, req.VersionBuild,
	)
	if ok {
		c.addOwnedRealm(realms, id)
	}

	var buf [3]byte
	n := registerRealmReply(buf[:], ok, id)
	_, err = conn.Write(buf[:n])
	return err == nil, err
}

func handleUnregisterRealm(conn net.Conn, realms RealmRegistry, c *connection) (bool, error) {
	var idBuf [1]byte
	if _, err := io.ReadFull(conn, idBuf[:]); err != nil {
		return false, err
	}
	realms.Remove(idBuf[0])
	c.removeOwnedRealm(idBuf[0])
	return true, nil
}
