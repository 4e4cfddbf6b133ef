// Command x402air-buyer listens for a broadcast payment request, signs an
// EIP-3009 authorization for it, and broadcasts the signed response back
// after the fixed buyer-processing pause.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/Eversmile12/X402-audio-to-audio/internal/config"
	"github.com/Eversmile12/X402-audio-to-audio/internal/logx"
	"github.com/Eversmile12/X402-audio-to-audio/internal/modem"
	"github.com/Eversmile12/X402-audio-to-audio/internal/prompt"
	"github.com/Eversmile12/X402-audio-to-audio/internal/settlement"
	"github.com/Eversmile12/X402-audio-to-audio/internal/transport"
	"github.com/Eversmile12/X402-audio-to-audio/internal/wire"
)

func main() {
	fs := pflag.NewFlagSet("x402air-buyer", pflag.ExitOnError)
	flags := config.RegisterFlags(fs)
	outputDevice := fs.IntP("output-device", "O", -1, "Output device index (-1 for system default).")
	inputDevice := fs.IntP("input-device", "I", -1, "Input device index (-1 for system default).")
	listenSeconds := fs.Float64P("listen-seconds", "L", 10, "Maximum seconds to listen for a payment request.")
	assumeYes := fs.BoolP("assume-yes", "y", false, "Skip the approve/deny keypress prompt and approve every charge.")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "x402air-buyer: listen for a payment request and sign + broadcast a response.")
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
	if err := run(logger, cfg, *outputDevice, *inputDevice, *listenSeconds, *assumeYes); err != nil {
		logger.Fatal("buyer run failed", "err", err)
	}
}

func run(logger *log.Logger, cfg config.Config, outputDevice, inputDevice int, listenSeconds float64, assumeYes bool) error {
	buyerKey := os.Getenv(cfg.PrivateKeyEnv)
	if buyerKey == "" {
		return fmt.Errorf("buyer private key not set in $%s", cfg.PrivateKeyEnv)
	}
	signer, err := settlement.NewEIP3009Signer(buyerKey)
	if err != nil {
		return err
	}
	logger.Info("buyer ready", "address", signer.Address().Hex())

	ctx := context.Background()
	mic := transport.NewMicrophone(inputDevice)
	logger.Info("listening for payment request", "seconds", listenSeconds)
	audio, err := mic.Record(ctx, time.Duration(listenSeconds*float64(time.Second)))
	if err != nil {
		return fmt.Errorf("recording request: %w", err)
	}

	reqBytes, err := modem.Demodulate(audio)
	if err != nil {
		return fmt.Errorf("demodulating request: %w", err)
	}
	req, err := wire.DecodeRequest(reqBytes)
	if err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	logger.Info("payment requested", "network", req.Network.String(), "price", req.Price, "pay_to", req.PayTo.Hex())

	if !assumeYes {
		approved, err := prompt.Confirm(fmt.Sprintf("Pay %d on %s to %s?", req.Price, req.Network.String(), req.PayTo.Hex()))
		if err != nil {
			return fmt.Errorf("prompting for approval: %w", err)
		}
		if !approved {
			logger.Info("charge denied by operator")
			return nil
		}
	}

	pause := time.Duration(cfg.BuyerPauseSeconds) * time.Second
	logger.Info("pausing before reply", "seconds", cfg.BuyerPauseSeconds)
	time.Sleep(pause)

	validFor := time.Duration(req.Timeout) * time.Second
	auth, err := signer.Sign(ctx, req, signer.Address(), validFor)
	if err != nil {
		return fmt.Errorf("signing authorization: %w", err)
	}

	resp := wire.PaymentResponse{
		Version:     req.Version,
		Network:     req.Network,
		Scheme:      req.Scheme,
		V:           auth.V,
		R:           auth.R,
		S:           auth.S,
		Nonce:       auth.Nonce,
		ValidAfter:  auth.ValidAfter,
		ValidBefore: auth.ValidBefore,
	}

	samples, err := modem.Modulate(resp.Encode())
	if err != nil {
		return fmt.Errorf("modulating response: %w", err)
	}

	speaker := transport.NewSpeaker(outputDevice)
	logger.Info("broadcasting signed authorization")
	if err := speaker.Play(ctx, samples); err != nil {
		return fmt.Errorf("playing response: %w", err)
	}
	return nil
}
