package adsb

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/OJPARKINSON/viz1090/internal/crc24"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// withCRC fills frame[11:14] with the parity of frame[:11], producing a
// self-consistent frame that will pass the CRC gate.
func withCRC(frame [14]byte) [14]byte {
	parity := crc24.Parity(frame[:11])
	frame[11] = byte(parity >> 16)
	frame[12] = byte(parity >> 8)
	frame[13] = byte(parity)
	return frame
}

func TestAcceptGatesByDownlinkFormatAndControlField(t *testing.T) {
	var df17 [14]byte
	df17[0] = 17 << 3
	require.True(t, Accept(df17))

	var df18ok [14]byte
	df18ok[0] = 18<<3 | 1 // cf=1, cf&6==0
	require.True(t, Accept(df18ok))

	var df18bad [14]byte
	df18bad[0] = 18<<3 | 2 // cf=2, cf&6==2
	require.False(t, Accept(df18bad))

	var df19ok [14]byte
	df19ok[0] = 19 << 3
	require.True(t, Accept(df19ok))

	var df19bad [14]byte
	df19bad[0] = 19<<3 | 1
	require.False(t, Accept(df19bad))

	var df0 [14]byte
	require.False(t, Accept(df0))
}

func TestICAOExtractsBigEndian24Bits(t *testing.T) {
	var frame [14]byte
	frame[1], frame[2], frame[3] = 0x12, 0x34, 0x56
	require.Equal(t, uint32(0x123456), ICAO(frame))
}

func TestDispatchRejectsBadCRC(t *testing.T) {
	var frame [14]byte
	frame[0] = 17 << 3
	p := NewPlane(0, time.Now())

	ok := Dispatch(p, frame, time.Now(), newTestLogger())
	require.False(t, ok)
}

func TestDispatchIdentificationUpdatesCallsign(t *testing.T) {
	var frame [14]byte
	frame[0] = 17<<3 | 0
	frame[1], frame[2], frame[3] = 0xAB, 0xCD, 0xEF

	// ME: type code 4 (identification), then callsign "KL1234  ".
	me := make([]byte, 7)
	setBitsMSB1(me, 1, 5, 4) // type code

	chars := []byte("KL1234  ")
	for idx, ch := range chars {
		code := reverseIdentChar(ch)
		first := 9 + idx*6
		setBitsMSB1(me, first, first+5, uint32(code))
	}
	copy(frame[4:11], me)

	frame = withCRC(frame)

	p := NewPlane(ICAO(frame), time.Now())
	now := time.Now()
	ok := Dispatch(p, frame, now, newTestLogger())
	require.True(t, ok)
	require.Equal(t, now, p.LastSeenTime)
	require.Equal(t, "KL1234  ", p.Identification)
}

func TestDispatchAltitudeDecodesQBitEncoding(t *testing.T) {
	var frame [14]byte
	frame[0] = 17 << 3
	frame[1], frame[2], frame[3] = 0x01, 0x02, 0x03

	me := make([]byte, 7)
	setBitsMSB1(me, 1, 5, 11) // type code 11: airborne position

	// alt_code = 100 -> me1 = (100>>3)<<... reconstruct via formula inverse.
	altCode := uint32(100)
	me1 := byte((altCode>>3)&0xFE) | 0x01 // ensure Q-bit set
	me2 := byte((altCode & 0x0F) << 4)
	me[1] = me1
	me[2] = me2
	copy(frame[4:11], me)
	frame = withCRC(frame)

	p := NewPlane(ICAO(frame), time.Now())
	Dispatch(p, frame, time.Now(), newTestLogger())
	require.True(t, p.AltValid)
	require.Equal(t, int(altCode)*25-1000, p.Altitude)
}

// setBitsMSB1 writes value into the inclusive 1-indexed MSB-first bit range
// [first, last] of data, mirroring bitsMSB1's numbering for test fixtures.
func setBitsMSB1(data []byte, first, last int, value uint32) {
	width := last - first + 1
	for offset := 0; offset < width; offset++ {
		bit := first + offset
		bitVal := (value >> uint(width-1-offset)) & 1
		byteIdx := (bit - 1) / 8
		bitInByte := 7 - ((bit - 1) % 8)
		if bitVal == 1 {
			data[byteIdx] |= 1 << uint(bitInByte)
		} else {
			data[byteIdx] &^= 1 << uint(bitInByte)
		}
	}
}

// reverseIdentChar maps a callsign character back to its 6-bit code,
// inverting identChar for letters, digits, and space.
func reverseIdentChar(ch byte) uint32 {
	switch {
	case ch == ' ':
		return 0
	case ch >= 'A' && ch <= 'Z':
		return uint32(ch-'A') + 1
	case ch >= '0' && ch <= '9':
		return uint32(ch-'0') + 48
	default:
		return 0
	}
}
