package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPassesValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsUnknownNetwork(t *testing.T) {
	cfg := Default()
	cfg.Network = "polygon"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsShortBuyerPause(t *testing.T) {
	cfg := Default()
	cfg.BuyerPauseSeconds = 3
	assert.Error(t, cfg.Validate())
}

func TestLoadOverlaysPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x402air.yaml")
	require.NoError(t, os.WriteFile(path, []byte("network: base\nprice_micros: 5000\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "base", cfg.Network)
	assert.Equal(t, uint64(5000), cfg.PriceMicros)
	assert.Equal(t, Default().RPCURL, cfg.RPCURL)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFlagsApplyOverridesOnlySetFields(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--network", "ethereum", "--price", "42"}))

	cfg := flags.Apply(Default())
	assert.Equal(t, "ethereum", cfg.Network)
	assert.Equal(t, uint64(42), cfg.PriceMicros)
	assert.Equal(t, Default().RPCURL, cfg.RPCURL)
}
