package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// RequestSize is the exact length, in bytes, of an encoded PaymentRequest.
const RequestSize = 30

// PaymentRequest is the seller's advertised payment requirement: everything
// a buyer needs to build and sign an EIP-3009 authorization, minus the
// stablecoin asset address (implied by Network) and any human-readable
// metadata (carried out-of-band, see x402proto.Reconstruct).
type PaymentRequest struct {
	Version uint8
	Network Network
	Scheme  Scheme
	// Price is the amount due, in the smallest token unit (e.g.
	// micro-dollars). Values above the 32-bit wire field saturate to
	// 0xFFFFFFFF on Encode.
	Price uint64
	PayTo common.Address
	// Timeout is the authorization validity window in seconds. Values
	// above the 16-bit wire field saturate to 0xFFFF on Encode.
	Timeout uint32
	// Nonce disambiguates repeated broadcasts within one session; it is
	// reduced mod 256 on Encode.
	Nonce uint8
}

// Encode packs r into the fixed 30-byte wire layout
// (version, network, scheme, price, pay_to, timeout, nonce), all
// multi-byte fields big-endian. Price and Timeout saturate silently.
func (r PaymentRequest) Encode() []byte {
	buf := make([]byte, RequestSize)
	buf[0] = r.Version
	buf[1] = byte(r.Network)
	buf[2] = schemeID(r.Scheme)
	binary.BigEndian.PutUint32(buf[3:7], saturateUint32(r.Price))
	copy(buf[7:27], r.PayTo.Bytes())
	binary.BigEndian.PutUint16(buf[27:29], saturateUint16(uint64(r.Timeout)))
	buf[29] = r.Nonce
	return buf
}

// DecodeRequest reads the first RequestSize bytes of data as a
// PaymentRequest. Unknown scheme and network IDs decode to their sentinel
// values rather than failing; only a too-short buffer is an error.
func DecodeRequest(data []byte) (PaymentRequest, error) {
	if len(data) < RequestSize {
		return PaymentRequest{}, fmt.Errorf("wire: payment request needs %d bytes, got %d", RequestSize, len(data))
	}
	return PaymentRequest{
		Version: data[0],
		Network: normalizeNetwork(data[1]),
		Scheme:  decodeScheme(data[2]),
		Price:   uint64(binary.BigEndian.Uint32(data[3:7])),
		PayTo:   common.BytesToAddress(data[7:27]),
		Timeout: uint32(binary.BigEndian.Uint16(data[27:29])),
		Nonce:   data[29],
	}, nil
}

// Asset returns the canonical stablecoin address for r's network — derived,
// never transmitted on the wire.
func (r PaymentRequest) Asset() common.Address {
	return common.HexToAddress(r.Network.Info().USDCAddress)
}

func saturateUint32(v uint64) uint32 {
	if v > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(v)
}

func saturateUint16(v uint64) uint16 {
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}
