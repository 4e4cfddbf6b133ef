package modem

import "math"

// Modulate turns payload into a mono float32 audio buffer at SampleRate:
// leading silence, preamble, sync, then length/payload/CRC under
// repetition coding, then trailing silence. Fails only if payload is too
// large for the single length byte.
func Modulate(payload []byte) ([]float32, error) {
	bits, err := buildFrameBits(payload)
	if err != nil {
		return nil, err
	}

	lead := edgeSilenceSamples()
	audio := make([]float32, 0, lead+len(bits)*SamplesPerBit+lead)
	audio = append(audio, make([]float32, lead)...)
	for _, bit := range bits {
		audio = append(audio, symbolSamples(bit)...)
	}
	audio = append(audio, make([]float32, lead)...)
	return audio, nil
}

// symbolSamples renders one symbol: a 2400 Hz tone at ToneAmplitude for a
// "1" bit, or silence for a "0" bit. Phase resets every symbol.
func symbolSamples(bit byte) []float32 {
	samples := make([]float32, SamplesPerBit)
	if bit == 0 {
		return samples
	}
	omega := 2 * math.Pi * CarrierFreq / SampleRate
	for i := range samples {
		samples[i] = float32(ToneAmplitude * math.Sin(omega*float64(i)))
	}
	return samples
}
