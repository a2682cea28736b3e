package adsb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func meWithVelocity(subtype byte, ewSign bool, ewCode int, nsSign bool, nsCode int, vrUp bool, vrCode int) []byte {
	me := make([]byte, 7)
	setBitsMSB1(me, 1, 5, 19) // type code 19: airborne velocity
	setBitsMSB1(me, 6, 8, uint32(subtype))

	if ewSign {
		setBitsMSB1(me, 14, 14, 1)
	}
	setBitsMSB1(me, 15, 24, uint32(ewCode))

	if nsSign {
		setBitsMSB1(me, 25, 25, 1)
	}
	setBitsMSB1(me, 26, 35, uint32(nsCode))

	if !vrUp {
		setBitsMSB1(me, 37, 37, 1)
	}
	setBitsMSB1(me, 38, 46, uint32(vrCode))

	return me
}

func TestDecodeVelocitySubtype1UpdatesBearing(t *testing.T) {
	p := NewPlane(1, time.Now())
	// eastbound, northbound: bearing should land in the 0..90 quadrant.
	me := meWithVelocity(1, false, 11, false, 11, true, 5)
	decodeVelocity(p, me)

	require.True(t, p.BearingValid)
	require.True(t, p.Bearing >= 0 && p.Bearing < 90)
	require.True(t, p.VRValid)
	require.True(t, p.VRClimbing)
	require.Equal(t, (5-1)*64, p.VRMagnitude)
}

func TestDecodeVelocityZeroMagnitudeLeavesBearingUntouched(t *testing.T) {
	p := NewPlane(1, time.Now())
	p.Bearing = 42
	p.BearingValid = true

	me := meWithVelocity(1, false, 0, false, 11, true, 5)
	decodeVelocity(p, me)

	require.Equal(t, 42.0, p.Bearing)
}

func TestDecodeVelocityRejectsUnsupportedSubtype(t *testing.T) {
	p := NewPlane(1, time.Now())
	me := meWithVelocity(0, false, 11, false, 11, true, 5)
	decodeVelocity(p, me)

	require.False(t, p.VRValid)
	require.False(t, p.BearingValid)
}
