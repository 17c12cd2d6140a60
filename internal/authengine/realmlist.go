package authengine

import (
	"github.com/oldrealm/aegisauth/internal/autherr"
	"github.com/oldrealm/aegisauth/internal/wire"
	"github.com/oldrealm/aegisauth/internal/wire/clientpackets"
	"github.com/oldrealm/aegisauth/internal/wire/serverpackets"
)

// runRealmListLoop serves REALM_LIST requests until the client disconnects
// or sends anything else; the client is expected to repeat this request
// whenever it redraws its realm-selection screen.
func (s *Server) runRealmListLoop(cli *client) error {
	for {
		var opcodeBuf [1]byte
		if _, err := readFull(cli.conn, opcodeBuf[:]); err != nil {
			return nil
		}
		if opcodeBuf[0] != wire.CmdRealmList {
			return nil
		}
		if err := clientpackets.ReadRealmListRequest(cli.conn); err != nil {
			return autherr.Wrap(err)
		}

		realms := s.realms.Snapshot()
		bufSize := defaultSendBufSize + len(realms)*128
		buf := s.sendPool.get(bufSize)
		n := serverpackets.RealmList(buf, realms)
		err := writeAll(cli.conn, buf[:n])
		s.sendPool.put(buf)
		if err != nil {
			return autherr.Wrap(err)
		}
	}
}
