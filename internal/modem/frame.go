package modem

import (
	"fmt"

	"github.com/Eversmile12/X402-audio-to-audio/internal/bitutil"
)

// ErrPayloadTooLarge is returned by Modulate when the payload cannot fit in
// the single length byte the frame format allows.
var ErrPayloadTooLarge = fmt.Errorf("modem: payload exceeds %d bytes", MaxPayloadLen)

// buildFrameBits lays out the full bit stream for payload exactly as
// section 4.3 specifies: preamble and sync unrepeated, then length,
// payload and CRC each bit repeated Repetition times.
func buildFrameBits(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadLen {
		return nil, ErrPayloadTooLarge
	}

	header := make([]byte, 0, PreambleLen+1)
	for i := 0; i < PreambleLen; i++ {
		header = append(header, PreambleByte)
	}
	header = append(header, SyncByte)
	headerBits := bitutil.BytesToBits(header)

	crc := bitutil.CRC16(payload)
	body := make([]byte, 0, 1+len(payload)+2)
	body = append(body, byte(len(payload)))
	body = append(body, payload...)
	body = append(body, byte(crc>>8), byte(crc))
	bodyBits := repeatBits(bitutil.BytesToBits(body), Repetition)

	return append(headerBits, bodyBits...), nil
}

// repeatBits expands each bit in bits into r consecutive copies, the
// symbol-level repetition coding the demodulator majority-votes back out.
func repeatBits(bits []byte, r int) []byte {
	out := make([]byte, 0, len(bits)*r)
	for _, b := range bits {
		for i := 0; i < r; i++ {
			out = append(out, b)
		}
	}
	return out
}

// majorityVote collapses r consecutive repeated-bit symbols into the bit
// they encode. Ties (possible only for even r) break to 0.
func majorityVote(symbols []byte, r int) byte {
	var ones int
	for _, s := range symbols {
		if s != 0 {
			ones++
		}
	}
	if ones*2 > r {
		return 1
	}
	return 0
}
