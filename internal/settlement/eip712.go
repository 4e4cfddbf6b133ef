package settlement

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Eversmile12/X402-audio-to-audio/internal/wire"
)

// domainTypeHash and authTypeHash are the EIP-712 type hashes for USDC's
// transferWithAuthorization domain and message struct. They never change,
// so they are computed once at package init rather than per signature.
var (
	domainTypeHash = crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)",
	))
	authTypeHash = crypto.Keccak256Hash([]byte(
		"TransferWithAuthorization(address from,address to,uint256 value,uint256 validAfter,uint256 validBefore,bytes32 nonce)",
	))
)

// transferWithAuthSelector is the 4-byte function selector for
// USDC.transferWithAuthorization.
var transferWithAuthSelector = crypto.Keccak256([]byte(
	"transferWithAuthorization(address,address,uint256,uint256,uint256,bytes32,uint8,bytes32,bytes32)",
))[:4]

// domainSeparator hashes the EIP-712 domain for one (name, version, chain,
// contract) tuple — USDC's name and version are fixed, but chain and
// contract vary per network.
func domainSeparator(name, version string, chainID *big.Int, contract common.Address) common.Hash {
	enc := make([]byte, 5*32)
	copy(enc[0:32], domainTypeHash.Bytes())
	copy(enc[32:64], crypto.Keccak256([]byte(name)))
	copy(enc[64:96], crypto.Keccak256([]byte(version)))
	copy(enc[96:128], pad32(chainID))
	copy(enc[128:160], addrPad(contract))
	return crypto.Keccak256Hash(enc)
}

// authHash hashes the TransferWithAuthorization struct itself.
func authHash(from, to common.Address, value, validAfter, validBefore *big.Int, nonce [32]byte) common.Hash {
	enc := make([]byte, 7*32)
	copy(enc[0:32], authTypeHash.Bytes())
	copy(enc[32:64], addrPad(from))
	copy(enc[64:96], addrPad(to))
	copy(enc[96:128], pad32(value))
	copy(enc[128:160], pad32(validAfter))
	copy(enc[160:192], pad32(validBefore))
	copy(enc[192:224], nonce[:])
	return crypto.Keccak256Hash(enc)
}

// eip712Digest computes the final "\x19\x01" || domainSeparator ||
// structHash digest that gets signed (and later recovered against).
func eip712Digest(domain common.Hash, structHash common.Hash) common.Hash {
	buf := make([]byte, 0, 2+32+32)
	buf = append(buf, 0x19, 0x01)
	buf = append(buf, domain.Bytes()...)
	buf = append(buf, structHash.Bytes()...)
	return crypto.Keccak256Hash(buf)
}

// pad32 left-pads a big.Int's big-endian bytes to 32 bytes, the ABI/EIP-712
// encoding for uint256.
func pad32(n *big.Int) []byte {
	b := n.Bytes()
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	padded := make([]byte, 32)
	copy(padded[32-len(b):], b)
	return padded
}

// addrPad left-pads a 20-byte address to 32 bytes.
func addrPad(a common.Address) []byte {
	padded := make([]byte, 32)
	copy(padded[12:], a.Bytes())
	return padded
}

// VerifySender checks that resp's authorization over req was in fact
// signed by from. Recovering a signer address from an EIP-3009 signature
// requires already knowing which address to test the recovery against
// (the "from" field is itself part of the signed struct) — this system
// learns that candidate address the same way the underlying contract
// call does, out of band from the acoustic exchange (spec section 6: "the
// core assembles the settlement parameters by combining a decoded
// response with the original request and the known sender address").
func VerifySender(req wire.PaymentRequest, resp wire.PaymentResponse, from common.Address) (bool, error) {
	chainID := big.NewInt(req.Network.Info().ChainID)
	value := new(big.Int).SetUint64(req.Price)
	domain := domainSeparator(usdcDomainName, usdcDomainVersion, chainID, req.Asset())
	auth := authHash(from, req.PayTo, value, big.NewInt(int64(resp.ValidAfter)), big.NewInt(int64(resp.ValidBefore)), resp.Nonce)
	digest := eip712Digest(domain, auth)

	sig := make([]byte, 65)
	copy(sig[:32], resp.R[:])
	copy(sig[32:64], resp.S[:])
	if resp.V < 27 {
		return false, fmt.Errorf("settlement: recovery id %d out of range", resp.V)
	}
	sig[64] = resp.V - 27

	pub, err := crypto.Ecrecover(digest.Bytes(), sig)
	if err != nil {
		return false, fmt.Errorf("settlement: recovering authorization signer: %w", err)
	}
	key, err := crypto.UnmarshalPubkey(pub)
	if err != nil {
		return false, fmt.Errorf("settlement: unmarshalling recovered key: %w", err)
	}
	return crypto.PubkeyToAddress(*key) == from, nil
}

// packTransferWithAuth manually ABI-encodes the transferWithAuthorization
// call. A generated binding would pull in the full abigen toolchain for one
// function; hand-packing nine fixed-width slots behind the selector is the
// same technique the rest of the settlement path already uses for EIP-712
// encoding.
func packTransferWithAuth(from, to common.Address, value, validAfter, validBefore *big.Int, nonce [32]byte, v uint8, r, s [32]byte) []byte {
	data := make([]byte, 4+9*32)
	copy(data[:4], transferWithAuthSelector)
	offset := 4
	copy(data[offset+12:offset+32], from.Bytes())
	offset += 32
	copy(data[offset+12:offset+32], to.Bytes())
	offset += 32
	copy(data[offset:offset+32], pad32(value))
	offset += 32
	copy(data[offset:offset+32], pad32(validAfter))
	offset += 32
	copy(data[offset:offset+32], pad32(validBefore))
	offset += 32
	copy(data[offset:offset+32], nonce[:])
	offset += 32
	data[offset+31] = v
	offset += 32
	copy(data[offset:offset+32], r[:])
	offset += 32
	copy(data[offset:offset+32], s[:])
	return data
}
