package wire

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPaymentRequestRoundTrip(t *testing.T) {
	// S1 — request round-trip.
	req := PaymentRequest{
		Version: 1,
		Network: NetworkBaseSepolia,
		Scheme:  SchemeExact,
		Price:   1000,
		PayTo:   common.HexToAddress("0x5b12EA8DC4f37F4998d5A1BCf63Ac9d6fd89bd4e"),
		Timeout: 60,
		Nonce:   1,
	}

	encoded := req.Encode()
	require.Len(t, encoded, RequestSize)

	decoded, err := DecodeRequest(encoded)
	require.NoError(t, err)
	assert.Equal(t, req, decoded)
	assert.Equal(t, "0x036CbD53842c5426634e7929541eC2318f3dCF7e", decoded.Asset().Hex())
}

func TestPaymentRequestSaturation(t *testing.T) {
	// S5 — saturation.
	req := PaymentRequest{Price: 10_000_000_000, Timeout: 200_000}
	decoded, err := DecodeRequest(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, uint64(4_294_967_295), decoded.Price)
	assert.Equal(t, uint32(0xFFFF), decoded.Timeout)
}

func TestPaymentRequestUnknownSchemeAndNetwork(t *testing.T) {
	req := PaymentRequest{Scheme: Scheme(9), Network: Network(200)}
	decoded, err := DecodeRequest(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, SchemeUnknown, decoded.Scheme)
	assert.Equal(t, NetworkBaseSepolia, decoded.Network)
}

func TestDecodeRequestTooShort(t *testing.T) {
	_, err := DecodeRequest(make([]byte, RequestSize-1))
	assert.Error(t, err)
}

func TestPaymentResponseRoundTrip(t *testing.T) {
	// S2 — response round-trip.
	resp := PaymentResponse{
		Version:     1,
		Network:     NetworkBaseSepolia,
		Scheme:      SchemeExact,
		V:           0x1b,
		ValidAfter:  1700000000,
		ValidBefore: 1700000060,
	}
	for i := range resp.R {
		resp.R[i] = 0xAB
	}
	for i := range resp.S {
		resp.S[i] = 0xCD
	}
	for i := range resp.Nonce {
		resp.Nonce[i] = 0xEF
	}

	encoded := resp.Encode()
	require.Len(t, encoded, ResponseSize)

	decoded, err := DecodeResponse(encoded)
	require.NoError(t, err)
	assert.Equal(t, resp, decoded)
}

func TestDecodeResponseTooShort(t *testing.T) {
	_, err := DecodeResponse(make([]byte, ResponseSize-1))
	assert.Error(t, err)
}

func TestPaymentRequestEncodeLengthAlwaysExact(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		req := PaymentRequest{
			Version: rapid.Byte().Draw(t, "version"),
			Network: Network(rapid.Byte().Draw(t, "network")),
			Scheme:  Scheme(rapid.Byte().Draw(t, "scheme")),
			Price:   rapid.Uint64().Draw(t, "price"),
			Timeout: rapid.Uint32().Draw(t, "timeout"),
			Nonce:   rapid.Byte().Draw(t, "nonce"),
		}
		assert.Len(t, req.Encode(), RequestSize)
	})
}
