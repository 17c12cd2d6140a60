package serverpackets

import (
	"encoding/binary"

	"github.com/oldrealm/aegisauth/internal/wire"
)

// ChunkSize is the fixed block size the transfer sub-protocol chunks patch
// data into.
const ChunkSize = 64

// XferInitiate writes XFER_INITIATE: opcode, filename (null-terminated),
// file_size(8 LE), file_md5(16 bytes).
func XferInitiate(buf []byte, filename string, fileSize uint64, fileMD5 []byte) int {
	off := 0
	buf[off] = wire.CmdXferInitiate
	off++

	nameBytes := []byte(filename)
	copy(buf[off:], nameBytes)
	off += len(nameBytes)
	buf[off] = 0
	off++

	binary.LittleEndian.PutUint64(buf[off:], fileSize)
	off += 8

	copy(buf[off:], fileMD5) // 16 bytes
	off += 16

	return off
}

// XferData writes one XFER_DATA chunk: opcode, chunk length(2 LE), chunk
// bytes.
func XferData(buf []byte, chunk []byte) int {
	off := 0
	buf[off] = wire.CmdXferData
	off++
	binary.LittleEndian.PutUint16(buf[off:], uint16(len(chunk)))
	off += 2
	copy(buf[off:], chunk)
	off += len(chunk)
	return off
}
