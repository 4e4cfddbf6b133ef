package x402proto

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/Eversmile12/X402-audio-to-audio/internal/wire"
)

// usdcExtra is fixed: USDC is the only asset this system settles, and its
// EIP-712 domain name and version never vary by network.
var usdcExtra = Extra{Name: "USDC", Version: "2"}

// ResourceMeta is the out-of-band context a wire PaymentRequest carries no
// room for — spec section 4.2 calls this "sender account address,
// human-readable metadata" passed alongside the decoded record.
type ResourceMeta struct {
	Resource    string
	Description string
	MimeType    string
}

// Reconstruct builds the external PaymentRequired body a seller would
// otherwise serve as an HTTP 402 response, from a decoded wire request and
// its out-of-band metadata.
func Reconstruct(req wire.PaymentRequest, meta ResourceMeta) PaymentRequired {
	return PaymentRequired{
		X402Version: int(req.Version),
		Accepts: []PaymentRequirements{{
			Scheme:            req.Scheme.String(),
			Network:           req.Network.String(),
			MaxAmountRequired: strconv.FormatUint(req.Price, 10),
			Resource:          meta.Resource,
			Description:       meta.Description,
			MimeType:          meta.MimeType,
			PayTo:             req.PayTo.Hex(),
			MaxTimeoutSeconds: req.Timeout,
			Asset:             req.Asset().Hex(),
			Extra:             usdcExtra,
		}},
	}
}

// Project compacts a PaymentRequired back to the wire record, taking the
// first advertised accept option as spec section 4.2 requires. nonce is
// supplied by the caller since the external form carries no session
// counter.
func Project(pr PaymentRequired, nonce uint8) (wire.PaymentRequest, error) {
	if len(pr.Accepts) == 0 {
		return wire.PaymentRequest{}, fmt.Errorf("x402proto: payment required has no accepts")
	}
	accept := pr.Accepts[0]

	price, err := strconv.ParseUint(accept.MaxAmountRequired, 10, 64)
	if err != nil {
		return wire.PaymentRequest{}, fmt.Errorf("x402proto: maxAmountRequired: %w", err)
	}
	if !common.IsHexAddress(accept.PayTo) {
		return wire.PaymentRequest{}, fmt.Errorf("x402proto: payTo is not a hex address: %q", accept.PayTo)
	}

	network, ok := wire.NetworkByName(accept.Network)
	if !ok {
		network = wire.NetworkBaseSepolia
	}
	scheme := wire.SchemeUnknown
	if accept.Scheme == wire.SchemeExact.String() {
		scheme = wire.SchemeExact
	}

	return wire.PaymentRequest{
		Version: uint8(pr.X402Version),
		Network: network,
		Scheme:  scheme,
		Price:   price,
		PayTo:   common.HexToAddress(accept.PayTo),
		Timeout: accept.MaxTimeoutSeconds,
		Nonce:   nonce,
	}, nil
}

// ReconstructPayload builds the external PaymentPayload ("X-Payment"
// header body) from a decoded response, the request it answers, and the
// buyer address that signed it.
func ReconstructPayload(resp wire.PaymentResponse, req wire.PaymentRequest, from common.Address) PaymentPayload {
	sig := make([]byte, 0, 65)
	sig = append(sig, resp.R[:]...)
	sig = append(sig, resp.S[:]...)
	sig = append(sig, resp.V)

	return PaymentPayload{
		X402Version: int(resp.Version),
		Scheme:      resp.Scheme.String(),
		Network:     resp.Network.String(),
		Payload: EVMPayload{
			Signature: hexutil.Encode(sig),
			Authorization: EVMAuthorization{
				From:        from.Hex(),
				To:          req.PayTo.Hex(),
				Value:       strconv.FormatUint(req.Price, 10),
				ValidAfter:  strconv.FormatUint(uint64(resp.ValidAfter), 10),
				ValidBefore: strconv.FormatUint(uint64(resp.ValidBefore), 10),
				Nonce:       hexutil.Encode(resp.Nonce[:]),
			},
		},
	}
}

// ProjectPayload compacts a PaymentPayload back to the wire response
// record.
func ProjectPayload(pp PaymentPayload) (wire.PaymentResponse, error) {
	sig, err := hexutil.Decode(pp.Payload.Signature)
	if err != nil || len(sig) != 65 {
		return wire.PaymentResponse{}, fmt.Errorf("x402proto: signature must be a 65-byte hex string")
	}
	nonce, err := hexutil.Decode(pp.Payload.Authorization.Nonce)
	if err != nil || len(nonce) != 32 {
		return wire.PaymentResponse{}, fmt.Errorf("x402proto: nonce must be a 32-byte hex string")
	}
	validAfter, err := strconv.ParseUint(pp.Payload.Authorization.ValidAfter, 10, 32)
	if err != nil {
		return wire.PaymentResponse{}, fmt.Errorf("x402proto: validAfter: %w", err)
	}
	validBefore, err := strconv.ParseUint(pp.Payload.Authorization.ValidBefore, 10, 32)
	if err != nil {
		return wire.PaymentResponse{}, fmt.Errorf("x402proto: validBefore: %w", err)
	}

	network, ok := wire.NetworkByName(pp.Network)
	if !ok {
		network = wire.NetworkBaseSepolia
	}
	scheme := wire.SchemeUnknown
	if pp.Scheme == wire.SchemeExact.String() {
		scheme = wire.SchemeExact
	}

	resp := wire.PaymentResponse{
		Version:     uint8(pp.X402Version),
		Network:     network,
		Scheme:      scheme,
		V:           sig[64],
		ValidAfter:  uint32(validAfter),
		ValidBefore: uint32(validBefore),
	}
	copy(resp.R[:], sig[:32])
	copy(resp.S[:], sig[32:64])
	copy(resp.Nonce[:], nonce)
	return resp, nil
}
