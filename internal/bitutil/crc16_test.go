package bitutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC16ReferenceVectors(t *testing.T) {
	assert.Equal(t, uint16(0xFFFF), CRC16(nil))
	assert.Equal(t, uint16(0x29B1), CRC16([]byte("123456789")))
}

func TestCRC16DetectsSingleByteChange(t *testing.T) {
	a := CRC16([]byte("payment-authorization"))
	b := CRC16([]byte("payment-authorizatioN"))
	assert.NotEqual(t, a, b)
}
