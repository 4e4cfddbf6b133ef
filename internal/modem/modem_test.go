package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestModulateDemodulateRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{0x01},
		[]byte("hello, acoustic world"),
		make([]byte, 255),
	}
	for _, p := range payloads {
		audio, err := Modulate(p)
		require.NoError(t, err)

		got, err := Demodulate(audio)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestModulateDemodulateRoundTripProperty(t *testing.T) {
	// Invariant 6.
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 255).Draw(t, "len")
		payload := rapid.SliceOfN(rapid.Byte(), n, n).Draw(t, "payload")

		audio, err := Modulate(payload)
		require.NoError(t, err)
		got, err := Demodulate(audio)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})
}

func TestModulateRejectsOversizedPayload(t *testing.T) {
	_, err := Modulate(make([]byte, MaxPayloadLen+1))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestDemodulateTolerantOfSurroundingSilence(t *testing.T) {
	// Invariant 7.
	payload := []byte("pad me with quiet")
	audio, err := Modulate(payload)
	require.NoError(t, err)

	padded := make([]float32, 0, len(audio)+2*SampleRate)
	padded = append(padded, make([]float32, SampleRate/2)...)
	padded = append(padded, audio...)
	padded = append(padded, make([]float32, SampleRate/2)...)

	got, err := Demodulate(padded)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDemodulateFailsOnSilence(t *testing.T) {
	// Invariant 9.
	silence := make([]float32, int(DurationFor(10)*SampleRate))
	_, err := Demodulate(silence)
	assert.ErrorIs(t, err, ErrFrameNotRecovered)
}

func TestDemodulateFailsWithoutSync(t *testing.T) {
	// Invariant 10 — random noise never happens to contain 0xAA 0x55.
	noise := make([]float32, int(10.5*SampleRate))
	state := uint32(12345)
	for i := range noise {
		state = state*1103515245 + 12345
		noise[i] = (float32(state%2000)/1000 - 1) * 0.05
	}
	_, err := Demodulate(noise)
	assert.ErrorIs(t, err, ErrFrameNotRecovered)
}

func TestDemodulateRejectsCorruptedCRC(t *testing.T) {
	// S6 — flip the trailer bits by silencing every symbol in the CRC's
	// repeated-bit span.
	payload := []byte("settle this")
	audio, err := Modulate(payload)
	require.NoError(t, err)

	trailerBits := (1 + len(payload) + 2) * 8 * Repetition
	crcBits := 2 * 8 * Repetition
	crcStartBit := trailerBits - crcBits
	headerSamples := edgeSilenceSamples() + (PreambleLen+1)*8*SamplesPerBit
	crcStart := headerSamples + crcStartBit*SamplesPerBit
	for i := crcStart; i < crcStart+crcBits*SamplesPerBit && i < len(audio); i++ {
		audio[i] = 0
	}

	_, err = Demodulate(audio)
	assert.ErrorIs(t, err, ErrFrameNotRecovered)
}

func TestDurationForFormula(t *testing.T) {
	// Invariant 5.
	for n := 1; n <= 255; n++ {
		want := (40+float64(n+3)*16)*0.010 + 0.4
		assert.InDelta(t, want, DurationFor(n), 1e-9)
	}
}

func TestMajorityVoteTiesBreakToZero(t *testing.T) {
	assert.Equal(t, byte(0), majorityVote([]byte{0, 0}, 2))
	assert.Equal(t, byte(0), majorityVote([]byte{0, 1}, 2))
	assert.Equal(t, byte(0), majorityVote([]byte{1, 0}, 2))
	assert.Equal(t, byte(1), majorityVote([]byte{1, 1}, 2))
}
