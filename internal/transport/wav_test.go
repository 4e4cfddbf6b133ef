package transport

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadWAVRoundTrip(t *testing.T) {
	samples := make([]float32, 480)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * float64(i) / 48))
	}

	path := filepath.Join(t.TempDir(), "frame.wav")
	require.NoError(t, SaveWAV(path, samples))

	got, err := LoadWAV(path)
	require.NoError(t, err)
	require.Len(t, got, len(samples))
	for i := range samples {
		assert.InDelta(t, samples[i], got[i], 0.001)
	}
}

func TestSaveWAVClampsOutOfRangeSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clamped.wav")
	require.NoError(t, SaveWAV(path, []float32{2.0, -2.0, 0}))

	got, err := LoadWAV(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 1.0, got[0], 0.01)
	assert.InDelta(t, -1.0, got[1], 0.01)
}
