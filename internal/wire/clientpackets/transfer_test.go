package clientpackets

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestReadTransferResponse_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	offsetBuf := make([]byte, 8)
	binary.LittleEndian.PutUint64(offsetBuf, 1<<20)
	buf.Write(offsetBuf)

	got, err := ReadTransferResponse(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Offset != 1<<20 {
		t.Fatalf("expected offset %d, got %d", 1<<20, got.Offset)
	}
}

func TestReadTransferResponse_ShortRead(t *testing.T) {
	buf := bytes.NewBuffer([]byte{1, 2, 3})

	if _, err := ReadTransferResponse(buf); err == nil {
		t.Fatal("expected error on short read, got nil")
	}
}
