// Package transport is the audio I/O boundary: it plays a modulated
// frame out of a speaker and records one back in from a microphone.
// doismellburning-samoyed talks to ALSA directly through cgo
// (src/audio.go) to get the low buffering latency a packet-radio TNC
// needs; this repository has no such latency budget (frames are tens
// of seconds long, spec section 5) and gordonklaus/portaudio was
// already declared in the teacher's own go.mod without a single
// import anywhere in its source, so it is used here instead of
// reimplementing a second ALSA cgo binding for a case that does not
// need one.
package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Device describes one portaudio host device, surfaced so a cmd/ entry
// point can let an operator pick an input or output device by index.
type Device struct {
	Index      int
	Name       string
	MaxInputs  int
	MaxOutputs int
	SampleRate float64
}

// ListDevices returns every audio device portaudio's host API reports.
func ListDevices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("transport: initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("transport: listing devices: %w", err)
	}
	devices := make([]Device, len(infos))
	for i, info := range infos {
		devices[i] = Device{
			Index:      i,
			Name:       info.Name,
			MaxInputs:  info.MaxInputChannels,
			MaxOutputs: info.MaxOutputChannels,
			SampleRate: info.DefaultSampleRate,
		}
	}
	return devices, nil
}

// Speaker plays modulated frames on an output audio device.
type Speaker struct {
	deviceIndex int
}

// NewSpeaker builds a Speaker bound to a specific output device index,
// or the host default when deviceIndex is negative.
func NewSpeaker(deviceIndex int) *Speaker {
	return &Speaker{deviceIndex: deviceIndex}
}

// Play blocks until samples (48kHz mono, matching modem.SampleRate)
// have been written to the device or ctx is cancelled.
func (s *Speaker) Play(ctx context.Context, samples []float32) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("transport: initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	params, err := s.outputParams()
	if err != nil {
		return err
	}

	pos := 0
	stream, err := portaudio.OpenStream(params, func(out []float32) {
		n := copy(out, samples[pos:])
		pos += n
		for i := n; i < len(out); i++ {
			out[i] = 0
		}
	})
	if err != nil {
		return fmt.Errorf("transport: opening output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("transport: starting output stream: %w", err)
	}
	defer stream.Stop()

	duration := time.Duration(float64(len(samples))/48000.0*1000) * time.Millisecond
	select {
	case <-time.After(duration):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Speaker) outputParams() (portaudio.StreamParameters, error) {
	if s.deviceIndex < 0 {
		host, err := portaudio.DefaultOutputDevice()
		if err != nil {
			return portaudio.StreamParameters{}, fmt.Errorf("transport: no default output device: %w", err)
		}
		params := portaudio.HighLatencyParameters(nil, host)
		params.Output.Channels = 1
		params.SampleRate = 48000
		return params, nil
	}
	infos, err := portaudio.Devices()
	if err != nil || s.deviceIndex >= len(infos) {
		return portaudio.StreamParameters{}, fmt.Errorf("transport: output device index %d out of range", s.deviceIndex)
	}
	params := portaudio.HighLatencyParameters(nil, infos[s.deviceIndex])
	params.Output.Channels = 1
	params.SampleRate = 48000
	return params, nil
}

// Microphone records audio from an input device.
type Microphone struct {
	deviceIndex int
}

// NewMicrophone builds a Microphone bound to a specific input device
// index, or the host default when deviceIndex is negative.
func NewMicrophone(deviceIndex int) *Microphone {
	return &Microphone{deviceIndex: deviceIndex}
}

// Record captures dur worth of 48kHz mono audio, returning the raw
// samples for internal/modem.Demodulate to search for a frame in.
func (m *Microphone) Record(ctx context.Context, dur time.Duration) ([]float32, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("transport: initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	params, err := m.inputParams()
	if err != nil {
		return nil, err
	}

	sampleCount := int(dur.Seconds() * 48000)
	captured := make([]float32, 0, sampleCount)

	stream, err := portaudio.OpenStream(params, func(in []float32) {
		captured = append(captured, in...)
	})
	if err != nil {
		return nil, fmt.Errorf("transport: opening input stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("transport: starting input stream: %w", err)
	}
	defer stream.Stop()

	select {
	case <-time.After(dur):
	case <-ctx.Done():
		return captured, ctx.Err()
	}
	return captured, nil
}

func (m *Microphone) inputParams() (portaudio.StreamParameters, error) {
	if m.deviceIndex < 0 {
		host, err := portaudio.DefaultInputDevice()
		if err != nil {
			return portaudio.StreamParameters{}, fmt.Errorf("transport: no default input device: %w", err)
		}
		params := portaudio.HighLatencyParameters(host, nil)
		params.Input.Channels = 1
		params.SampleRate = 48000
		return params, nil
	}
	infos, err := portaudio.Devices()
	if err != nil || m.deviceIndex >= len(infos) {
		return portaudio.StreamParameters{}, fmt.Errorf("transport: input device index %d out of range", m.deviceIndex)
	}
	params := portaudio.HighLatencyParameters(infos[m.deviceIndex], nil)
	params.Input.Channels = 1
	params.SampleRate = 48000
	return params, nil
}
