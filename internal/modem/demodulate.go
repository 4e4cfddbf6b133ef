package modem

import (
	"errors"

	"github.com/Eversmile12/X402-audio-to-audio/internal/bitutil"
)

// ErrFrameNotRecovered is the demodulator's single failure tag (section
// 4.4.4): it covers every way a capture can fail to yield a frame — no
// carrier, no sync, bad length, CRC mismatch. Callers that want a retry
// just capture again and call Demodulate a second time.
var ErrFrameNotRecovered = errors.New("modem: frame not recovered")

// detector holds the front-end state (filtered signal, per-window power,
// and the adaptive bit threshold) shared by sync search and payload
// recovery.
type detector struct {
	filtered  []float64
	threshold float64
	maxPower  float64
}

// Demodulate recovers a payload from a captured mono audio buffer, or
// fails with ErrFrameNotRecovered. See section 4.4 for the algorithm.
func Demodulate(audio []float32) ([]byte, error) {
	filtered := newCarrierBandpass().filtfilt(toFloat64(audio))

	det, ok := buildDetector(filtered)
	if !ok {
		return nil, ErrFrameNotRecovered
	}

	cursor, ok := det.findSync()
	if !ok {
		return nil, ErrFrameNotRecovered
	}

	lengthByte, cursor, ok := det.decodeRepeatedByte(cursor)
	if !ok {
		return nil, ErrFrameNotRecovered
	}
	length := int(lengthByte)

	body, _, ok := det.decodeRepeatedBytes(cursor, length+2)
	if !ok {
		return nil, ErrFrameNotRecovered
	}

	payload := body[:length]
	receivedCRC := uint16(body[length])<<8 | uint16(body[length+1])
	if bitutil.CRC16(payload) != receivedCRC {
		return nil, ErrFrameNotRecovered
	}
	return payload, nil
}

// buildDetector partitions filtered into contiguous symbol windows,
// computes each window's carrier power, and derives the global amplitude
// check and adaptive threshold from them (section 4.4.1, steps 2-4).
func buildDetector(filtered []float64) (detector, bool) {
	numWindows := len(filtered) / SamplesPerBit
	if numWindows < minPowerWindows {
		return detector{}, false
	}

	powers := make([]float64, numWindows)
	maxPower := 0.0
	for i := range powers {
		w := filtered[i*SamplesPerBit : (i+1)*SamplesPerBit]
		powers[i] = goertzelPower(w, CarrierFreq)
		if powers[i] > maxPower {
			maxPower = powers[i]
		}
	}
	if maxPower < minCarrierPower {
		return detector{}, false
	}

	normalized := make([]float64, numWindows)
	for i, p := range powers {
		normalized[i] = p / maxPower
	}
	p85 := percentile(append([]float64(nil), normalized...), 85)
	p15 := percentile(append([]float64(nil), normalized...), 15)
	threshold := (p85 + p15) / 2

	return detector{filtered: filtered, threshold: threshold, maxPower: maxPower}, true
}

// bitAt decodes the single symbol starting at sample offset as 0 or 1
// against the detector's adaptive threshold. Reports false if the window
// runs off the end of the signal.
func (d detector) bitAt(offset int) (byte, bool) {
	if offset+SamplesPerBit > len(d.filtered) {
		return 0, false
	}
	window := d.filtered[offset : offset+SamplesPerBit]
	power := goertzelPower(window, CarrierFreq) / d.maxPower
	if power > d.threshold {
		return 1, true
	}
	return 0, true
}

// byteAt decodes 8 consecutive unrepeated symbols starting at offset into
// a byte, MSB-first.
func (d detector) byteAt(offset int) (byte, bool) {
	var b byte
	for i := 0; i < 8; i++ {
		bit, ok := d.bitAt(offset + i*SamplesPerBit)
		if !ok {
			return 0, false
		}
		b = b<<1 | bit
	}
	return b, true
}

// findSync runs the sliding-window sync search of section 4.4.2 and
// returns the sample offset just past the sync byte, ready for repetition
// decoding of the length byte.
func (d detector) findSync() (int, bool) {
	step := SamplesPerBit / syncStepDivisor
	bound := syncSearchWindow.Seconds() * SampleRate
	limit := len(d.filtered)
	if int(bound) < limit {
		limit = int(bound)
	}

	byteSpan := 8 * SamplesPerBit
	for offset := 0; offset+byteSpan <= limit; offset += step {
		b, ok := d.byteAt(offset)
		if !ok || b != PreambleByte {
			continue
		}

		pos := offset + byteSpan
		for lookahead := 0; lookahead <= syncMaxLookahead; lookahead++ {
			next, ok := d.byteAt(pos)
			if !ok {
				break
			}
			if next == SyncByte {
				return pos + byteSpan, true
			}
			if next != PreambleByte {
				break
			}
			pos += byteSpan
		}
	}
	return 0, false
}

// decodeRepeatedByte decodes one byte starting at cursor, each bit read
// from Repetition consecutive symbols and majority-voted, returning the
// byte and the cursor advanced past it.
func (d detector) decodeRepeatedByte(cursor int) (byte, int, bool) {
	bytes, next, ok := d.decodeRepeatedBytes(cursor, 1)
	if !ok {
		return 0, 0, false
	}
	return bytes[0], next, true
}

// decodeRepeatedBytes decodes n repetition-coded bytes starting at cursor.
func (d detector) decodeRepeatedBytes(cursor int, n int) ([]byte, int, bool) {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		var b byte
		for bitIdx := 0; bitIdx < 8; bitIdx++ {
			symbols := make([]byte, Repetition)
			for r := 0; r < Repetition; r++ {
				bit, ok := d.bitAt(cursor)
				if !ok {
					return nil, 0, false
				}
				symbols[r] = bit
				cursor += SamplesPerBit
			}
			b = b<<1 | majorityVote(symbols, Repetition)
		}
		out[i] = b
	}
	return out, cursor, true
}

// toFloat64 widens a float32 audio buffer for filtering headroom.
func toFloat64(audio []float32) []float64 {
	out := make([]float64, len(audio))
	for i, v := range audio {
		out[i] = float64(v)
	}
	return out
}
