package settlement

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// LocalFacilitator submits transferWithAuthorization directly to a
// stablecoin contract, paying gas from its own relayer key. It implements
// SettlementClient without depending on any external facilitator service.
type LocalFacilitator struct {
	rpcURL     string
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewLocalFacilitator builds a facilitator that submits transactions to
// rpcURL, signed by the relayer key privateKeyHex.
func NewLocalFacilitator(rpcURL, privateKeyHex string) (*LocalFacilitator, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("settlement: invalid relayer private key: %w", err)
	}
	return &LocalFacilitator{
		rpcURL:     rpcURL,
		privateKey: key,
		address:    crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the relayer address that pays gas for settlement.
func (f *LocalFacilitator) Address() common.Address {
	return f.address
}

// Settle ABI-encodes transferWithAuthorization from params and submits it
// as an EIP-1559 transaction to params.Asset on params.ChainID.
func (f *LocalFacilitator) Settle(ctx context.Context, params SettlementParams) (string, error) {
	callData := packTransferWithAuth(
		params.From, params.To,
		new(big.Int).SetUint64(params.Value),
		big.NewInt(int64(params.ValidAfter)),
		big.NewInt(int64(params.ValidBefore)),
		params.Nonce, params.V, params.R, params.S,
	)

	client, err := ethclient.DialContext(ctx, f.rpcURL)
	if err != nil {
		return "", fmt.Errorf("settlement: connecting to %s: %w", f.rpcURL, err)
	}
	defer client.Close()

	nonce, err := client.PendingNonceAt(ctx, f.address)
	if err != nil {
		return "", fmt.Errorf("settlement: fetching relayer nonce: %w", err)
	}

	gasLimit := uint64(100_000)
	if est, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From: f.address,
		To:   &params.Asset,
		Data: callData,
	}); err == nil {
		gasLimit = est * 12 / 10
	}

	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("settlement: fetching latest header: %w", err)
	}
	tip := big.NewInt(1e9)
	feeCap := new(big.Int).Add(header.BaseFee, tip)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   params.ChainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &params.Asset,
		Value:     new(big.Int),
		Data:      callData,
	})

	signed, err := types.SignTx(tx, types.NewLondonSigner(params.ChainID), f.privateKey)
	if err != nil {
		return "", fmt.Errorf("settlement: signing settlement tx: %w", err)
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("settlement: submitting transaction: %w", err)
	}
	return signed.Hash().Hex(), nil
}
