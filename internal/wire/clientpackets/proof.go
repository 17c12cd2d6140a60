package clientpackets

import (
	"fmt"
	"io"

	"github.com/oldrealm/aegisauth/internal/pin"
	"github.com/oldrealm/aegisauth/internal/srp6"
)

// LogonProof is AUTH_LOGON_PROOF_Client: the client's SRP public key and
// proof, the client-integrity hash, and optional PIN/matrix-card
// sub-blocks gated by the security flags the server sent in the challenge.
type LogonProof struct {
	PublicKey []byte // 32 bytes
	M1        []byte // 20 bytes
	CRCHash   []byte // 20 bytes

	PIN *PINBlock
	Matrix *MatrixBlock
}

// PINBlock is the optional PIN sub-block of LOGON_PROOF_Client.
type PINBlock struct {
	ClientSalt []byte // 16 bytes
	Hash       []byte // 20 bytes
}

// MatrixBlock is the optional matrix-card sub-block of LOGON_PROOF_Client.
type MatrixBlock struct {
	Proof []byte // 20 bytes
}

// ReadLogonProof reads AUTH_LOGON_PROOF_Client's body (opcode already
// consumed by the caller). pinExpected/matrixExpected reflect the security
// flags the server offered in the preceding challenge, since the client
// only includes those sub-blocks when they were requested.
func ReadLogonProof(r io.Reader, pinExpected, matrixExpected bool) (*LogonProof, error) {
	fixed := make([]byte, srp6.KeyLen+srp6.ProofLen+20)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("reading logon proof fixed fields: %w", err)
	}

	p := &LogonProof{
		PublicKey: append([]byte(nil), fixed[:srp6.KeyLen]...),
		M1:        append([]byte(nil), fixed[srp6.KeyLen:srp6.KeyLen+srp6.ProofLen]...),
		CRCHash:   append([]byte(nil), fixed[srp6.KeyLen+srp6.ProofLen:]...),
	}

	if pinExpected {
		buf := make([]byte, pin.SaltLen+20)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading PIN sub-block: %w", err)
		}
		p.PIN = &PINBlock{
			ClientSalt: append([]byte(nil), buf[:pin.SaltLen]...),
			Hash:       append([]byte(nil), buf[pin.SaltLen:]...),
		}
	}

	if matrixExpected {
		buf := make([]byte, 20)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading matrix-card sub-block: %w", err)
		}
		p.Matrix = &MatrixBlock{Proof: buf}
	}

	return p, nil
}

// ReconnectProof is AUTH_RECONNECT_PROOF_Client.
type ReconnectProof struct {
	ProofData []byte // 16 bytes, the client's nonce
	ClientProof []byte // 20 bytes
	ClientChecksum []byte // 20 bytes, the reconnect integrity check
}

// ReadReconnectProof reads AUTH_RECONNECT_PROOF_Client's body (opcode
// already consumed).
func ReadReconnectProof(r io.Reader) (*ReconnectProof, error) {
	buf := make([]byte, 16+20+20)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("reading reconnect proof: %w", err)
	}
	return &ReconnectProof{
		ProofData:      append([]byte(nil), buf[:16]...),
		ClientProof:    append([]byte(nil), buf[16:36]...),
		ClientChecksum: append([]byte(nil), buf[36:56]...),
	}, nil
}

// ReadRealmListRequest consumes REALM_LIST_Client's body: a 4-byte unused
// field.
func ReadRealmListRequest(r io.Reader) error {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return fmt.Errorf("reading realm list request: %w", err)
	}
	return nil
}
