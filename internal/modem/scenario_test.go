package modem_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eversmile12/X402-audio-to-audio/internal/modem"
	"github.com/Eversmile12/X402-audio-to-audio/internal/wire"
)

func TestModemRoundTripOfEncodedRequest(t *testing.T) {
	// S3.
	req := wire.PaymentRequest{
		Version: 1,
		Network: wire.NetworkBaseSepolia,
		Scheme:  wire.SchemeExact,
		Price:   1000,
		PayTo:   common.HexToAddress("0x5b12EA8DC4f37F4998d5A1BCf63Ac9d6fd89bd4e"),
		Timeout: 60,
		Nonce:   1,
	}
	encoded := req.Encode()

	audio, err := modem.Modulate(encoded)
	require.NoError(t, err)

	recovered, err := modem.Demodulate(audio)
	require.NoError(t, err)
	assert.Equal(t, encoded, recovered)
}

func TestModemRoundTripOfEncodedResponse(t *testing.T) {
	// S4.
	resp := wire.PaymentResponse{
		Version:     1,
		Network:     wire.NetworkBaseSepolia,
		Scheme:      wire.SchemeExact,
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

	audio, err := modem.Modulate(encoded)
	require.NoError(t, err)

	recovered, err := modem.Demodulate(audio)
	require.NoError(t, err)
	assert.Equal(t, encoded, recovered)
}
