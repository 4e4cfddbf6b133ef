package transport

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavBitDepth matches the modem's float32 sample range ([-1, 1]) to a
// signed 16-bit PCM container, the common denominator every WAV player
// and the go-audio decoder/encoder pair both handle without ambiguity.
const wavBitDepth = 16

// LoadWAV reads a mono WAV file and returns its samples as float32 in
// [-1, 1], the format internal/modem.Demodulate expects. It exists so a
// captured frame can be replayed from disk without a live microphone —
// useful for development and for the bench tests that accompany it.
func LoadWAV(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transport: opening %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("transport: decoding %s: %w", path, err)
	}

	full := math.Pow(2, float64(buf.SourceBitDepth-1))
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(float64(v) / full)
	}
	return samples, nil
}

// SaveWAV writes mono float32 samples ([-1, 1], modem.SampleRate) to path
// as a 16-bit PCM WAV file, the inverse of LoadWAV.
func SaveWAV(path string, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("transport: creating %s: %w", path, err)
	}
	defer f.Close()

	encoder := wav.NewEncoder(f, 48000, wavBitDepth, 1, 1)
	defer encoder.Close()

	full := math.Pow(2, wavBitDepth-1) - 1
	ints := make([]int, len(samples))
	for i, s := range samples {
		v := float64(s) * full
		if v > full {
			v = full
		} else if v < -full-1 {
			v = -full - 1
		}
		ints[i] = int(v)
	}

	buf := &audio.IntBuffer{
		Data:           ints,
		Format:         &audio.Format{NumChannels: 1, SampleRate: 48000},
		SourceBitDepth: wavBitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("transport: writing %s: %w", path, err)
	}
	return nil
}
