// Command x402air-tone is the modem-layer equivalent of direwolf's
// gen_tone/tnctest utilities: it plays a supplied byte payload as a
// modulated frame, or records and decodes one, without any wire-level
// settlement content — useful for checking a speaker/microphone pairing
// before running the seller or buyer proper.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/Eversmile12/X402-audio-to-audio/internal/logx"
	"github.com/Eversmile12/X402-audio-to-audio/internal/modem"
	"github.com/Eversmile12/X402-audio-to-audio/internal/transport"
)

func main() {
	fs := pflag.NewFlagSet("x402air-tone", pflag.ExitOnError)
	mode := fs.StringP("mode", "m", "list", "Mode: list, send, or receive.")
	payloadHex := fs.StringP("payload", "p", "00", "Hex payload to send (send mode only).")
	device := fs.IntP("device", "d", -1, "Device index (-1 for system default).")
	listenSeconds := fs.Float64P("listen-seconds", "l", 10, "Seconds to record in receive mode.")
	wavFile := fs.StringP("wav-file", "w", "", "Read/write audio from this WAV file instead of a live device.")
	timestampFormat := fs.StringP("timestamp-format", "T", "", "Precede status lines with an strftime-format timestamp.")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "x402air-tone: modem smoke-test utility (list|send|receive).")
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	logger := logx.Default()
	switch *mode {
	case "list":
		if err := listDevices(); err != nil {
			logger.Fatal("listing devices", "err", err)
		}
	case "send":
		if err := send(*payloadHex, *device, *wavFile, *timestampFormat); err != nil {
			logger.Fatal("sending tone", "err", err)
		}
	case "receive":
		if err := receive(*listenSeconds, *device, *wavFile, *timestampFormat); err != nil {
			logger.Fatal("receiving tone", "err", err)
		}
	default:
		logger.Fatal("unknown mode", "mode", *mode)
	}
}

func listDevices() error {
	devices, err := transport.ListDevices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		fmt.Printf("%2d  in=%-2d out=%-2d  %.0fHz  %s\n", d.Index, d.MaxInputs, d.MaxOutputs, d.SampleRate, d.Name)
	}
	return nil
}

func send(payloadHex string, device int, wavFile, timestampFormat string) error {
	payload, err := hex.DecodeString(payloadHex)
	if err != nil {
		return fmt.Errorf("decoding payload hex: %w", err)
	}
	samples, err := modem.Modulate(payload)
	if err != nil {
		return fmt.Errorf("modulating payload: %w", err)
	}
	printStatus(timestampFormat, fmt.Sprintf("playing %d bytes (%.2fs)", len(payload), modem.DurationFor(len(payload))))

	if wavFile != "" {
		return transport.SaveWAV(wavFile, samples)
	}
	speaker := transport.NewSpeaker(device)
	return speaker.Play(context.Background(), samples)
}

func receive(listenSeconds float64, device int, wavFile, timestampFormat string) error {
	var audioSamples []float32
	if wavFile != "" {
		samples, err := transport.LoadWAV(wavFile)
		if err != nil {
			return err
		}
		audioSamples = samples
	} else {
		mic := transport.NewMicrophone(device)
		samples, err := mic.Record(context.Background(), time.Duration(listenSeconds*float64(time.Second)))
		if err != nil {
			return fmt.Errorf("recording: %w", err)
		}
		audioSamples = samples
	}

	payload, err := modem.Demodulate(audioSamples)
	if err != nil {
		return fmt.Errorf("demodulating: %w", err)
	}
	printStatus(timestampFormat, fmt.Sprintf("recovered %d bytes: %s", len(payload), hex.EncodeToString(payload)))
	return nil
}

// printStatus prefixes line with an strftime-formatted timestamp when
// timestampFormat is set, matching cmd/kissutil's "-T" behavior.
func printStatus(timestampFormat, line string) {
	if timestampFormat == "" {
		fmt.Println(line)
		return
	}
	ts, err := logx.FormatTimestamp(timestampFormat, time.Now())
	if err != nil {
		fmt.Println(line)
		return
	}
	fmt.Printf("[%s] %s\n", ts, line)
}
