package crc24

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckRoundTrip(t *testing.T) {
	frame := [14]byte{0x8D, 0x48, 0x40, 0xD6, 0x20, 0x2C, 0xC3, 0x71, 0xC3, 0x2C, 0xE0, 0, 0, 0}

	p := Parity(frame[:11])
	frame[11] = byte(p >> 16)
	frame[12] = byte(p >> 8)
	frame[13] = byte(p)

	require.True(t, Check(frame))
}

func TestCheckRejectsCorruptFrame(t *testing.T) {
	frame := [14]byte{0x8D, 0x48, 0x40, 0xD6, 0x20, 0x2C, 0xC3, 0x71, 0xC3, 0x2C, 0xE0, 0, 0, 0}

	p := Parity(frame[:11])
	frame[11] = byte(p >> 16)
	frame[12] = byte(p >> 8)
	frame[13] = byte(p) ^ 0x01

	require.False(t, Check(frame))
}

func TestParityDeterministic(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	require.Equal(t, Parity(data), Parity(data))
}
