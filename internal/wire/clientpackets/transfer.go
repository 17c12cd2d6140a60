package clientpackets

import (
	"encoding/binary"
	"fmt"
	"io"
)

// TransferResponse carries an XFER_RESUME body: the byte offset the client
// wants the transfer to continue from. The caller reads the leading opcode
// byte itself (XFER_ACCEPT/XFER_RESUME/anything else) before deciding
// whether to call this at all.
type TransferResponse struct {
	Offset uint64
}

// ReadTransferResponse reads the 8-byte resume offset following an
// XFER_RESUME opcode (already consumed by the caller).
func ReadTransferResponse(r io.Reader) (*TransferResponse, error) {
	var offsetBuf [8]byte
	if _, err := io.ReadFull(r, offsetBuf[:]); err != nil {
		return nil, fmt.Errorf("reading resume offset: %w", err)
	}
	return &TransferResponse{Offset: binary.LittleEndian.Uint64(offsetBuf[:])}, nil
}
