// Package settlement implements the two collaborators spec section 6
// treats as external: a Signer that turns a payment request into a signed
// EIP-3009 authorization, and a SettlementClient that submits that
// authorization to the stablecoin contract on chain. Neither is reachable
// from the acoustic modem — they sit on either side of it, at the buyer
// and seller respectively.
package settlement

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Eversmile12/X402-audio-to-audio/internal/wire"
)

// SignedAuthorization is everything a buyer's signature contributes to a
// PaymentResponse: the recoverable ECDSA signature plus the authorization's
// own random nonce and validity window.
type SignedAuthorization struct {
	V           uint8
	R           [32]byte
	S           [32]byte
	Nonce       [32]byte
	ValidAfter  uint32
	ValidBefore uint32
}

// Signer produces a signed EIP-3009 transferWithAuthorization for req,
// valid starting now and expiring after validFor.
type Signer interface {
	Sign(ctx context.Context, req wire.PaymentRequest, from common.Address, validFor time.Duration) (SignedAuthorization, error)
}

// SettlementParams is the assembled set of values a SettlementClient needs
// to submit transferWithAuthorization, combining a decoded PaymentResponse
// with the PaymentRequest it answers and the recovered sender address.
type SettlementParams struct {
	Asset       common.Address
	ChainID     *big.Int
	From        common.Address
	To          common.Address
	Value       uint64
	ValidAfter  uint32
	ValidBefore uint32
	Nonce       [32]byte
	V           uint8
	R           [32]byte
	S           [32]byte
}

// SettlementClient submits a signed authorization to the settlement
// contract and returns the resulting transaction hash.
type SettlementClient interface {
	Settle(ctx context.Context, params SettlementParams) (txHash string, err error)
}

// ParamsFor combines a decoded response with the request it answers and
// the recovered sender address into a SettlementClient call.
func ParamsFor(req wire.PaymentRequest, resp wire.PaymentResponse, from common.Address) SettlementParams {
	return SettlementParams{
		Asset:       req.Asset(),
		ChainID:     big.NewInt(req.Network.Info().ChainID),
		From:        from,
		To:          req.PayTo,
		Value:       req.Price,
		ValidAfter:  resp.ValidAfter,
		ValidBefore: resp.ValidBefore,
		Nonce:       resp.Nonce,
		V:           resp.V,
		R:           resp.R,
		S:           resp.S,
	}
}
