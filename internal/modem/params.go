// Package modem implements the physical layer: turning a byte payload into
// a short on-off-keyed tone burst, and recovering a payload from a noisy
// one-shot recording of that burst.
//
// Wire parameters (sample rate, carrier, baud, repetition) are constants of
// the format, not configuration — both ends must agree on them out of band,
// exactly as the preamble/sync pair lets a receiver find the start of a
// frame without an external clock.
package modem

import "time"

const (
	// SampleRate is the modem's fixed sample rate, in Hz.
	SampleRate = 48000
	// CarrierFreq is the single audio tone keyed on and off, in Hz.
	CarrierFreq = 2400
	// BitDuration is one symbol period (100 baud).
	BitDuration = 10 * time.Millisecond
	// SamplesPerBit is the number of samples in one symbol at SampleRate.
	SamplesPerBit = int(SampleRate * int(BitDuration/time.Millisecond) / 1000)
	// Repetition is how many consecutive symbols carry each repeated bit.
	Repetition = 2
	// ToneAmplitude is the peak amplitude of a "1" symbol's sine wave.
	ToneAmplitude = 0.8
	// EdgeSilence is the silence padding at the start and end of a frame.
	EdgeSilence = 200 * time.Millisecond

	// PreambleByte repeats four times before the sync byte, giving the
	// receiver's sliding sync scan something to lock onto.
	PreambleByte byte = 0xAA
	// PreambleLen is the number of preamble bytes.
	PreambleLen = 4
	// SyncByte marks the end of the preamble and the start of the framed
	// payload (length, payload, CRC).
	SyncByte byte = 0x55

	// MaxPayloadLen is the largest payload the length byte can describe.
	MaxPayloadLen = 255

	// bandpassLow and bandpassHigh bound the receive-side filter around
	// CarrierFreq (±400 Hz).
	bandpassLow  = CarrierFreq - 400
	bandpassHigh = CarrierFreq + 400
	// butterworthOrder is the bandpass filter order (4th order, per spec).
	butterworthOrder = 4

	// syncSearchWindow bounds how much audio the sync scanner will examine.
	syncSearchWindow = 10 * time.Second
	// syncStepDivisor gives the sync scanner's step size as a fraction of
	// one symbol (quarter-symbol granularity).
	syncStepDivisor = 4
	// syncMaxLookahead bounds how many extra preamble bytes the sync
	// scanner tolerates between the first 0xAA it sees and the 0x55 sync
	// byte, before giving up on that candidate offset.
	syncMaxLookahead = 2

	// minPowerWindows is the minimum number of Goertzel windows required
	// before percentile statistics are considered meaningful.
	minPowerWindows = 10
	// minCarrierPower is the global-amplitude floor: capture audio whose
	// strongest window is below this has no usable carrier at all.
	minCarrierPower = 1e-8
)

// edgeSilenceSamples is EdgeSilence expressed as a sample count.
func edgeSilenceSamples() int {
	return int(EdgeSilence.Seconds() * SampleRate)
}

// DurationFor returns how long, in seconds, the on-air encoding of an
// n-byte payload takes — preamble and sync unrepeated, length/payload/CRC
// repeated, plus leading and trailing silence. Sized so a receiver knows
// how long to record.
func DurationFor(n int) float64 {
	headerBits := float64((PreambleLen + 1) * 8)
	bodyBits := float64((1 + n + 2) * 8 * Repetition)
	bitSeconds := BitDuration.Seconds()
	return (headerBits+bodyBits)*bitSeconds + 2*EdgeSilence.Seconds()
}
