// Package config loads this repository's YAML configuration file and
// layers command-line overrides on top of it, the same two-stage
// approach doismellburning-samoyed's cmd/direwolf uses (a config file for
// the durable settings, flags for per-run overrides) — generalized here
// from a TNC's radio parameters to a payment endpoint's network and
// device parameters.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/Eversmile12/X402-audio-to-audio/internal/wire"
)

// Config holds everything a seller or buyer process needs that is not
// part of the wire or modem contract: which network to settle on, where
// to find a relayer/buyer key, what to charge, and how verbosely to log.
// Audio device selection is not part of it; each command takes device
// indices as its own flags.
type Config struct {
	// Network is the settlement network name (e.g. "base-sepolia").
	Network string `yaml:"network"`
	// RPCURL is the JSON-RPC endpoint used for settlement.
	RPCURL string `yaml:"rpc_url"`
	// PrivateKeyEnv names the environment variable holding the relevant
	// hex-encoded secp256k1 private key (buyer's signing key, or the
	// relayer's gas-paying key) — never stored in the config file itself.
	PrivateKeyEnv string `yaml:"private_key_env"`
	// PayToAddress is the seller's receiving address (hex, 0x-prefixed).
	PayToAddress string `yaml:"pay_to_address"`
	// PriceMicros is the advertised price in micro-units of the
	// settlement asset (e.g. micro-USDC).
	PriceMicros uint64 `yaml:"price_micros"`
	// TimeoutSeconds is the authorization validity window advertised in
	// the payment request.
	TimeoutSeconds uint32 `yaml:"timeout_seconds"`
	// BuyerPauseSeconds is the fixed wall-clock pause between the
	// seller's broadcast and the buyer's reply (spec section 5: "a fixed
	// buyer-processing interval, >= 8 seconds").
	BuyerPauseSeconds int `yaml:"buyer_pause_seconds"`
	// CaptureSlackSeconds pads the receiver's recording window beyond
	// modem.DurationFor's estimate.
	CaptureSlackSeconds float64 `yaml:"capture_slack_seconds"`
	// LogLevel is a charmbracelet/log level name ("debug", "info", ...).
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration, used when no config file
// is given and no flag overrides a field.
func Default() Config {
	return Config{
		Network:             "base-sepolia",
		RPCURL:              "https://sepolia.base.org",
		PrivateKeyEnv:       "X402AIR_PRIVATE_KEY",
		PriceMicros:         1000,
		TimeoutSeconds:      60,
		BuyerPauseSeconds:   8,
		CaptureSlackSeconds: 3,
		LogLevel:            "info",
	}
}

// Load reads a YAML config file at path, layered on top of Default() so
// a partial file only overrides the fields it sets.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that cfg's settlement-relevant fields are well formed
// before a command starts acting on them.
func (c Config) Validate() error {
	if _, ok := wire.NetworkByName(c.Network); !ok {
		return fmt.Errorf("config: unknown network %q", c.Network)
	}
	if c.BuyerPauseSeconds < 8 {
		return fmt.Errorf("config: buyer_pause_seconds must be >= 8, got %d", c.BuyerPauseSeconds)
	}
	return nil
}

// Flags is the set of command-line overrides a cmd/ entry point accepts,
// mirroring cmd/direwolf's pflag.*P pattern: one short and long name per
// setting, parsed into the same Config shape Load produces.
type Flags struct {
	ConfigFile   *string
	Network      *string
	RPCURL       *string
	PayTo        *string
	PriceMicros  *uint64
	Timeout      *uint32
	LogLevel     *string
}

// RegisterFlags adds this package's flags to fs, returning the pointers
// Apply reads back after fs.Parse runs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	return &Flags{
		ConfigFile:  fs.StringP("config-file", "c", "", "YAML configuration file path."),
		Network:     fs.StringP("network", "n", "", "Settlement network name (overrides config file)."),
		RPCURL:      fs.StringP("rpc-url", "r", "", "Settlement JSON-RPC endpoint (overrides config file)."),
		PayTo:       fs.StringP("pay-to", "t", "", "Seller receiving address (overrides config file)."),
		PriceMicros: fs.Uint64P("price", "p", 0, "Advertised price in micro-units (overrides config file)."),
		Timeout:     fs.Uint32P("timeout", "o", 0, "Authorization timeout in seconds (overrides config file)."),
		LogLevel:    fs.StringP("log-level", "l", "", "Log level: debug, info, warn, error (overrides config file)."),
	}
}

// Apply layers non-zero flag values onto cfg.
func (f *Flags) Apply(cfg Config) Config {
	if *f.Network != "" {
		cfg.Network = *f.Network
	}
	if *f.RPCURL != "" {
		cfg.RPCURL = *f.RPCURL
	}
	if *f.PayTo != "" {
		cfg.PayToAddress = *f.PayTo
	}
	if *f.PriceMicros != 0 {
		cfg.PriceMicros = *f.PriceMicros
	}
	if *f.Timeout != 0 {
		cfg.TimeoutSeconds = *f.Timeout
	}
	if *f.LogLevel != "" {
		cfg.LogLevel = *f.LogLevel
	}
	return cfg
}
