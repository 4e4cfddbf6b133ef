package bitutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestBytesToBitsLength(t *testing.T) {
	assert.Len(t, BytesToBits([]byte{0xAA, 0x55}), 16)
	assert.Equal(t, []byte{1, 0, 1, 0, 1, 0, 1, 0}, BytesToBits([]byte{0xAA}))
}

func TestBitsToBytesPadsShortTail(t *testing.T) {
	// 4 bits -> one byte, zero-padded on the right.
	got := BitsToBytes([]byte{1, 0, 1, 1})
	assert.Equal(t, []byte{0b1011_0000}, got)
}

func TestBitsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.SliceOf(rapid.Byte()).Draw(t, "in")
		assert.Equal(t, in, BitsToBytes(BytesToBits(in)), "round trip failed for %v", in)
	})
}
