package x402proto

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eversmile12/X402-audio-to-audio/internal/wire"
)

func TestReconstructProjectRoundTrip(t *testing.T) {
	req := wire.PaymentRequest{
		Version: 1,
		Network: wire.NetworkBase,
		Scheme:  wire.SchemeExact,
		Price:   2500,
		PayTo:   common.HexToAddress("0x5b12EA8DC4f37F4998d5A1BCf63Ac9d6fd89bd4e"),
		Timeout: 90,
		Nonce:   7,
	}

	required := Reconstruct(req, ResourceMeta{Resource: "/premium-article", Description: "one article"})
	require.Len(t, required.Accepts, 1)
	assert.Equal(t, "base", required.Accepts[0].Network)
	assert.Equal(t, "2500", required.Accepts[0].MaxAmountRequired)
	assert.Equal(t, req.Asset().Hex(), required.Accepts[0].Asset)

	projected, err := Project(required, req.Nonce)
	require.NoError(t, err)
	assert.Equal(t, req, projected)
}

func TestProjectSelectsFirstAccept(t *testing.T) {
	pr := PaymentRequired{
		X402Version: 1,
		Accepts: []PaymentRequirements{
			{Scheme: "exact", Network: "base", MaxAmountRequired: "10", PayTo: "0x5b12EA8DC4f37F4998d5A1BCf63Ac9d6fd89bd4e", MaxTimeoutSeconds: 30},
			{Scheme: "exact", Network: "ethereum", MaxAmountRequired: "99", PayTo: "0x5b12EA8DC4f37F4998d5A1BCf63Ac9d6fd89bd4e", MaxTimeoutSeconds: 30},
		},
	}
	projected, err := Project(pr, 1)
	require.NoError(t, err)
	assert.Equal(t, wire.NetworkBase, projected.Network)
	assert.Equal(t, uint64(10), projected.Price)
}

func TestReconstructPayloadProjectPayloadRoundTrip(t *testing.T) {
	req := wire.PaymentRequest{
		Network: wire.NetworkBaseSepolia,
		Scheme:  wire.SchemeExact,
		Price:   1000,
		PayTo:   common.HexToAddress("0x5b12EA8DC4f37F4998d5A1BCf63Ac9d6fd89bd4e"),
	}
	resp := wire.PaymentResponse{
		Version:     1,
		Network:     wire.NetworkBaseSepolia,
		Scheme:      wire.SchemeExact,
		V:           0x1c,
		ValidAfter:  1700000000,
		ValidBefore: 1700000600,
	}
	for i := range resp.R {
		resp.R[i] = 0x11
	}
	for i := range resp.S {
		resp.S[i] = 0x22
	}
	for i := range resp.Nonce {
		resp.Nonce[i] = 0x33
	}

	from := common.HexToAddress("0x000000000000000000000000000000000000aa")
	payload := ReconstructPayload(resp, req, from)
	assert.Equal(t, from.Hex(), payload.Payload.Authorization.From)

	projected, err := ProjectPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, resp, projected)
}

func TestProjectPayloadRejectsMalformedSignature(t *testing.T) {
	_, err := ProjectPayload(PaymentPayload{Payload: EVMPayload{Signature: "0xdead"}})
	assert.Error(t, err)
}
