package wire

import (
	"encoding/binary"
	"fmt"
)

// ResponseSize is the exact length, in bytes, of an encoded PaymentResponse.
const ResponseSize = 108

// PaymentResponse is the buyer's signed EIP-3009 authorization, compacted
// to what the settlement contract needs: a recoverable ECDSA signature
// (V, R, S), the authorization's own random nonce, and its validity
// window. R, S and Nonce are opaque 32-byte strings carried verbatim.
type PaymentResponse struct {
	Version     uint8
	Network     Network
	Scheme      Scheme
	V           uint8
	R           [32]byte
	S           [32]byte
	Nonce       [32]byte
	ValidAfter  uint32
	ValidBefore uint32
}

// Encode packs resp into the fixed 108-byte wire layout
// (version, network, scheme, v, r, s, nonce, valid_after, valid_before),
// all multi-byte fields big-endian.
func (resp PaymentResponse) Encode() []byte {
	buf := make([]byte, ResponseSize)
	buf[0] = resp.Version
	buf[1] = byte(resp.Network)
	buf[2] = schemeID(resp.Scheme)
	buf[3] = resp.V
	copy(buf[4:36], resp.R[:])
	copy(buf[36:68], resp.S[:])
	copy(buf[68:100], resp.Nonce[:])
	binary.BigEndian.PutUint32(buf[100:104], resp.ValidAfter)
	binary.BigEndian.PutUint32(buf[104:108], resp.ValidBefore)
	return buf
}

// DecodeResponse reads the first ResponseSize bytes of data as a
// PaymentResponse. As with DecodeRequest, only a too-short buffer fails;
// unknown scheme/network IDs decode to their sentinels.
func DecodeResponse(data []byte) (PaymentResponse, error) {
	if len(data) < ResponseSize {
		return PaymentResponse{}, fmt.Errorf("wire: payment response needs %d bytes, got %d", ResponseSize, len(data))
	}
	var resp PaymentResponse
	resp.Version = data[0]
	resp.Network = normalizeNetwork(data[1])
	resp.Scheme = decodeScheme(data[2])
	resp.V = data[3]
	copy(resp.R[:], data[4:36])
	copy(resp.S[:], data[36:68])
	copy(resp.Nonce[:], data[68:100])
	resp.ValidAfter = binary.BigEndian.Uint32(data[100:104])
	resp.ValidBefore = binary.BigEndian.Uint32(data[104:108])
	return resp, nil
}
