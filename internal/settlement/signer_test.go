package settlement

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eversmile12/X402-audio-to-audio/internal/wire"
)

func fixedBuyerKeyHex() string {
	return "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690"
}

func TestEIP3009SignerProducesRecoverableSignature(t *testing.T) {
	signer, err := NewEIP3009Signer(fixedBuyerKeyHex())
	require.NoError(t, err)

	req := wire.PaymentRequest{
		Version: 1,
		Network: wire.NetworkBaseSepolia,
		Scheme:  wire.SchemeExact,
		Price:   1000,
		PayTo:   common.HexToAddress("0x5b12EA8DC4f37F4998d5A1BCf63Ac9d6fd89bd4e"),
		Timeout: 60,
	}

	auth, err := signer.Sign(context.Background(), req, signer.Address(), 8*time.Second)
	require.NoError(t, err)
	assert.True(t, auth.V == 27 || auth.V == 28)
	assert.Greater(t, auth.ValidBefore, auth.ValidAfter)
	assert.NotEqual(t, [32]byte{}, auth.Nonce)

	chainID := req.Network.Info().ChainID
	domain := domainSeparator(usdcDomainName, usdcDomainVersion, big.NewInt(chainID), req.Asset())
	value := new(big.Int).SetUint64(req.Price)
	ah := authHash(signer.Address(), req.PayTo, value, big.NewInt(int64(auth.ValidAfter)), big.NewInt(int64(auth.ValidBefore)), auth.Nonce)
	digest := eip712Digest(domain, ah)

	sig := make([]byte, 65)
	copy(sig[:32], auth.R[:])
	copy(sig[32:64], auth.S[:])
	sig[64] = auth.V - 27

	pub, err := crypto.Ecrecover(digest.Bytes(), sig)
	require.NoError(t, err)
	key, err := crypto.UnmarshalPubkey(pub)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), crypto.PubkeyToAddress(*key))
}

func TestEIP3009SignerRejectsAddressMismatch(t *testing.T) {
	signer, err := NewEIP3009Signer(fixedBuyerKeyHex())
	require.NoError(t, err)

	_, err = signer.Sign(context.Background(), wire.PaymentRequest{}, common.HexToAddress("0x1"), time.Second)
	assert.Error(t, err)
}
