// Package clientpackets parses opcode-framed messages sent by the client.
package clientpackets

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
)

// Challenge is the common shape of both AUTH_LOGON_CHALLENGE and
// AUTH_RECONNECT_CHALLENGE client messages: account name, protocol/client
// build, platform, OS, locale, UTC offset, and the client's IPv4 address.
type Challenge struct {
	Username     string
	Build        uint16
	Platform     string
	OS           string
	Locale       string
	TimezoneBias int32
	IP           net.IP
}

// ReadChallenge reads a LOGON_CHALLENGE or RECONNECT_CHALLENGE body
// (everything after the 1-byte opcode, which the caller has already
// consumed to decide which Read* function to call).
//
// Wire layout: error(1) size(2 LE) gamename(4) version1(1) version2(1)
// version3(1) build(2 LE) platform(4, reversed ascii) os(4, reversed
// ascii) country(4, reversed ascii) timezoneBias(4 LE) ip(4) nameLen(1)
// name(nameLen).
func ReadChallenge(r io.Reader) (*Challenge, error) {
	var head [3]byte // error, size(2)
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("reading challenge header: %w", err)
	}
	size := binary.LittleEndian.Uint16(head[1:3])

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("reading challenge body: %w", err)
	}

	const fixedLen = 4 + 1 + 1 + 1 + 2 + 4 + 4 + 4 + 4 + 4 + 1
	if len(body) < fixedLen {
		return nil, fmt.Errorf("challenge body too short: %d", len(body))
	}

	off := 4 + 3 // skip gamename + version1/2/3
	build := binary.LittleEndian.Uint16(body[off:])
	off += 2

	platform := reverseASCII(body[off : off+4])
	off += 4
	osName := reverseASCII(body[off : off+4])
	off += 4
	locale := reverseASCII(body[off : off+4])
	off += 4

	timezoneBias := int32(binary.LittleEndian.Uint32(body[off:]))
	off += 4

	ip := net.IPv4(body[off], body[off+1], body[off+2], body[off+3])
	off += 4

	nameLen := int(body[off])
	off++
	if off+nameLen > len(body) {
		return nil, fmt.Errorf("challenge name length %d exceeds body", nameLen)
	}
	username := string(body[off : off+nameLen])

	return &Challenge{
		Username:     username,
		Build:        build,
		Platform:     platform,
		OS:           osName,
		Locale:       locale,
		TimezoneBias: timezoneBias,
		IP:           ip,
	}, nil
}

func reverseASCII(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return strings.TrimRight(string(out), " \x00")
}
