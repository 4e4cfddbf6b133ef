package settlement

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Eversmile12/X402-audio-to-audio/internal/wire"
)

// usdcDomainName and usdcDomainVersion are USDC's fixed EIP-712 domain
// fields, constant across every network this system settles on.
const (
	usdcDomainName    = "USDC"
	usdcDomainVersion = "2"
)

// EIP3009Signer signs transferWithAuthorization messages on behalf of one
// buyer key. It implements Signer.
type EIP3009Signer struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewEIP3009Signer builds a signer from a hex-encoded secp256k1 private
// key, with or without the "0x" prefix.
func NewEIP3009Signer(privateKeyHex string) (*EIP3009Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("settlement: invalid buyer private key: %w", err)
	}
	return &EIP3009Signer{
		privateKey: key,
		address:    crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the buyer address this signer controls.
func (s *EIP3009Signer) Address() common.Address {
	return s.address
}

// Sign builds and signs a transferWithAuthorization digest for req,
// authorizing the full advertised price from s's address to req.PayTo,
// valid from now until validFor has elapsed.
func (s *EIP3009Signer) Sign(ctx context.Context, req wire.PaymentRequest, from common.Address, validFor time.Duration) (SignedAuthorization, error) {
	if from != s.address {
		return SignedAuthorization{}, fmt.Errorf("settlement: signer controls %s, asked to sign as %s", s.address.Hex(), from.Hex())
	}

	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return SignedAuthorization{}, fmt.Errorf("settlement: generating authorization nonce: %w", err)
	}

	now := timeNow()
	validAfter := uint32(now.Unix())
	validBefore := uint32(now.Add(validFor).Unix())

	chainID := big.NewInt(req.Network.Info().ChainID)
	asset := req.Asset()
	value := new(big.Int).SetUint64(req.Price)

	domain := domainSeparator(usdcDomainName, usdcDomainVersion, chainID, asset)
	auth := authHash(from, req.PayTo, value, big.NewInt(int64(validAfter)), big.NewInt(int64(validBefore)), nonce)
	digest := eip712Digest(domain, auth)

	sig, err := crypto.Sign(digest.Bytes(), s.privateKey)
	if err != nil {
		return SignedAuthorization{}, fmt.Errorf("settlement: signing authorization: %w", err)
	}
	if len(sig) != 65 {
		return SignedAuthorization{}, fmt.Errorf("settlement: unexpected signature length %d", len(sig))
	}

	var result SignedAuthorization
	copy(result.R[:], sig[:32])
	copy(result.S[:], sig[32:64])
	result.V = sig[64] + 27 // crypto.Sign returns a 0/1 recovery id; USDC expects 27/28.
	result.Nonce = nonce
	result.ValidAfter = validAfter
	result.ValidBefore = validBefore
	return result, nil
}

// timeNow is a var so tests can pin the authorization window.
var timeNow = time.Now
