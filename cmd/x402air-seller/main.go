// Command x402air-seller advertises a payment request over sound, waits
// for the buyer's fixed processing pause, records the buyer's signed
// authorization, and submits it for on-chain settlement.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"

	"github.com/Eversmile12/X402-audio-to-audio/internal/config"
	"github.com/Eversmile12/X402-audio-to-audio/internal/logx"
	"github.com/Eversmile12/X402-audio-to-audio/internal/modem"
	"github.com/Eversmile12/X402-audio-to-audio/internal/settlement"
	"github.com/Eversmile12/X402-audio-to-audio/internal/transport"
	"github.com/Eversmile12/X402-audio-to-audio/internal/wire"
)

func main() {
	fs := pflag.NewFlagSet("x402air-seller", pflag.ExitOnError)
	flags := config.RegisterFlags(fs)
	outputDevice := fs.IntP("output-device", "O", -1, "Output device index (-1 for system default).")
	inputDevice := fs.IntP("input-device", "I", -1, "Input device index (-1 for system default).")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "x402air-seller: broadcast a payment request and settle the buyer's reply.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(*flags.ConfigFile)
	if err != nil {
		logx.Default().Fatal("loading config", "err", err)
	}
	cfg = flags.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		logx.Default().Fatal("invalid config", "err", err)
	}

	logger := logx.New(os.Stderr, logx.ParseLevel(cfg.LogLevel)).With("session", logx.NewSessionID())
	if err := run(logger, cfg, *outputDevice, *inputDevice); err != nil {
		logger.Fatal("seller run failed", "err", err)
	}
}

func run(logger *log.Logger, cfg config.Config, outputDevice, inputDevice int) error {
	network, ok := wire.NetworkByName(cfg.Network)
	if !ok {
		return fmt.Errorf("unknown network %q", cfg.Network)
	}
	if !common.IsHexAddress(cfg.PayToAddress) {
		return fmt.Errorf("pay_to_address %q is not a valid hex address", cfg.PayToAddress)
	}

	relayerKey := os.Getenv(cfg.PrivateKeyEnv)
	if relayerKey == "" {
		return fmt.Errorf("relayer private key not set in $%s", cfg.PrivateKeyEnv)
	}
	facilitator, err := settlement.NewLocalFacilitator(cfg.RPCURL, relayerKey)
	if err != nil {
		return err
	}

	buyerAddrHex := os.Getenv("X402AIR_BUYER_ADDRESS")
	if !common.IsHexAddress(buyerAddrHex) {
		return fmt.Errorf("$X402AIR_BUYER_ADDRESS must be set to the expected buyer address")
	}
	buyerAddr := common.HexToAddress(buyerAddrHex)

	req := wire.PaymentRequest{
		Version: 1,
		Network: network,
		Scheme:  wire.SchemeExact,
		Price:   cfg.PriceMicros,
		PayTo:   common.HexToAddress(cfg.PayToAddress),
		Timeout: cfg.TimeoutSeconds,
		Nonce:   uint8(time.Now().Unix() % 256),
	}

	payload := req.Encode()
	logger.Info("broadcasting payment request", "network", network.String(), "price", cfg.PriceMicros)

	samples, err := modem.Modulate(payload)
	if err != nil {
		return fmt.Errorf("modulating request: %w", err)
	}

	ctx := context.Background()
	speaker := transport.NewSpeaker(outputDevice)
	if err := speaker.Play(ctx, samples); err != nil {
		return fmt.Errorf("playing request: %w", err)
	}

	pause := time.Duration(cfg.BuyerPauseSeconds) * time.Second
	logger.Info("pausing for buyer processing", "seconds", cfg.BuyerPauseSeconds)
	time.Sleep(pause)

	captureWindow := time.Duration(modem.DurationFor(wire.ResponseSize)*float64(time.Second)) + time.Duration(cfg.CaptureSlackSeconds*float64(time.Second))
	logger.Info("listening for buyer reply", "seconds", captureWindow.Seconds())

	mic := transport.NewMicrophone(inputDevice)
	audio, err := mic.Record(ctx, captureWindow)
	if err != nil {
		return fmt.Errorf("recording reply: %w", err)
	}

	respBytes, err := modem.Demodulate(audio)
	if err != nil {
		return fmt.Errorf("demodulating reply: %w", err)
	}
	resp, err := wire.DecodeResponse(respBytes)
	if err != nil {
		return fmt.Errorf("decoding reply: %w", err)
	}

	verified, err := settlement.VerifySender(req, resp, buyerAddr)
	if err != nil {
		return fmt.Errorf("verifying authorization signature: %w", err)
	}
	if !verified {
		return fmt.Errorf("authorization was not signed by %s", buyerAddr.Hex())
	}

	params := settlement.ParamsFor(req, resp, buyerAddr)
	txHash, err := facilitator.Settle(ctx, params)
	if err != nil {
		return fmt.Errorf("settling authorization: %w", err)
	}
	logger.Info("settlement submitted", "tx", txHash)
	return nil
}
