package authengine

import (
	"context"
	"time"

	"github.com/oldrealm/aegisauth/internal/autherr"
	"github.com/oldrealm/aegisauth/internal/integrity"
	"github.com/oldrealm/aegisauth/internal/wire"
	"github.com/oldrealm/aegisauth/internal/wire/clientpackets"
	"github.com/oldrealm/aegisauth/internal/wire/serverpackets"
)

const transferChunkSize = serverpackets.ChunkSize

// runTransfer diverts a LOGON attempt into the patch-delivery sub-protocol:
// the client receives blob in fixed-size chunks instead of proceeding
// through SRP.
func (s *Server) runTransfer(ctx context.Context, cli *client, blob []byte) error {
	cli.state = stateTransfer

	buf := s.sendPool.get(defaultSendBufSize)
	defer s.sendPool.put(buf)

	n := serverpackets.LogonChallengeFail(buf, wire.LoginDownloadFile)
	if err := writeAll(cli.conn, buf[:n]); err != nil {
		return autherr.Wrap(err)
	}

	md5sum := integrity.PatchMD5(blob)

	n = serverpackets.XferInitiate(buf, "Patch", uint64(len(blob)), md5sum[:])
	if err := writeAll(cli.conn, buf[:n]); err != nil {
		return autherr.Wrap(err)
	}

	var opcodeBuf [1]byte
	if _, err := readFull(cli.conn, opcodeBuf[:]); err != nil {
		return autherr.Wrap(err)
	}

	var offset uint64
	switch opcodeBuf[0] {
	case wire.CmdXferAccept:
		offset = 0
	case wire.CmdXferResume:
		resp, err := clientpackets.ReadTransferResponse(cli.conn)
		if err != nil {
			return autherr.Wrap(err)
		}
		if resp.Offset > uint64(len(blob)) {
			return autherr.WithSize(autherr.TransferOffsetTooLarge, resp.Offset)
		}
		offset = resp.Offset
	default:
		return autherr.New(autherr.MessageInvalid, cli.account)
	}

	for offset < uint64(len(blob)) {
		// Best-effort peek for an in-flight XFER_CANCEL; the client may
		// abort mid-transfer without waiting for the final chunk.
		_ = cli.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
		var cancelPeek [1]byte
		if _, err := cli.conn.Read(cancelPeek[:]); err == nil && cancelPeek[0] == wire.CmdXferCancel {
			_ = cli.conn.SetReadDeadline(time.Time{})
			return nil
		}
		_ = cli.conn.SetReadDeadline(time.Time{})

		end := offset + transferChunkSize
		if end > uint64(len(blob)) {
			end = uint64(len(blob))
		}
		n := serverpackets.XferData(buf, blob[offset:end])
		if err := writeAll(cli.conn, buf[:n]); err != nil {
			return autherr.Wrap(err)
		}
		offset = end
	}

	// Drain any trailing bytes (e.g. a final XFER_CANCEL race) until the
	// client closes the connection.
	drain := make([]byte, 64)
	for {
		if _, err := cli.conn.Read(drain); err != nil {
			return nil
		}
	}
}
