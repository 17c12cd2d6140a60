package serverpackets

import (
	"encoding/binary"

	"github.com/oldrealm/aegisauth/internal/model"
	"github.com/oldrealm/aegisauth/internal/wire"
)

// RealmList writes REALM_LIST_Server: opcode, size(2, LE, the byte count
// after the size field, patched in once the body is written), unused(4,
// zero), realm count(2), one entry per realm, then a trailing 2-byte unused
// footer.
func RealmList(buf []byte, realms []model.Realm) int {
	off := 0
	buf[off] = wire.CmdRealmList
	off++

	// size placeholder; patched after the body is written.
	sizeOff := off
	off += 2

	binary.LittleEndian.PutUint32(buf[off:], 0) // unused header field
	off += 4

	binary.LittleEndian.PutUint16(buf[off:], uint16(len(realms)))
	off += 2

	for _, r := range realms {
		buf[off] = r.RealmType
		off++
		buf[off] = boolByte(r.Locked)
		off++
		buf[off] = r.Flags
		off++

		nameBytes := []byte(r.Name)
		copy(buf[off:], nameBytes)
		off += len(nameBytes)
		buf[off] = 0 // null terminator
		off++

		addrBytes := []byte(r.Address)
		copy(buf[off:], addrBytes)
		off += len(addrBytes)
		buf[off] = 0
		off++

		binary.LittleEndian.PutUint32(buf[off:], encodePopulation(r.Population))
		off += 4

		buf[off] = byte(r.CharCount)
		off++

		buf[off] = r.Category
		off++

		buf[off] = r.ID
		off++
	}

	binary.LittleEndian.PutUint16(buf[off:], 0) // trailing unused footer
	off += 2

	binary.LittleEndian.PutUint16(buf[sizeOff:], uint16(off-3))

	return off
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// encodePopulation matches the classic client's fixed-point population
// field: the float value scaled by 100 and truncated to an integer.
func encodePopulation(f float32) uint32 {
	return uint32(int32(f * 100))
}
