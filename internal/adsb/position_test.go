package adsb

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OJPARKINSON/viz1090/internal/geo"
)

// encodeCPR produces the 17-bit CPR-encoded fractional position for lat/lon
// given the zone width for the target parity, mirroring the standard CPR
// encoding (the inverse of the decode formulas in position.go) closely
// enough for round-trip testing.
func encodeCPR(value, zoneWidth float64) int {
	frac := geo.PMod(value, zoneWidth) / zoneWidth
	enc := int(math.Floor(frac*131072 + 0.5))
	return enc & 0x1FFFF
}

func meWithPosition(odd bool, yz, xz int) []byte {
	me := make([]byte, 7)
	setBitsMSB1(me, 1, 5, 11) // type code: airborne position
	if odd {
		setBitsMSB1(me, 22, 22, 1)
	}
	setBitsMSB1(me, 23, 39, uint32(yz))
	setBitsMSB1(me, 40, 56, uint32(xz))
	return me
}

func TestDecodeAirbornePositionLocalRefinesNearbyFix(t *testing.T) {
	now := time.Now()
	p := NewPlane(0xABCDEF, now)
	p.PosValid = true
	p.PosTime = now
	p.Lat = 51.5
	p.Lon = -0.12

	// A new even frame encoding very nearly the same position.
	dLat := airDlat(0)
	yz := encodeCPR(p.Lat, dLat)
	ni := maxInt(1, geo.NL(p.Lat)-0)
	dLon := 360.0 / float64(ni)
	xz := encodeCPR(p.Lon, dLon)

	me := meWithPosition(false, yz, xz)
	decodeAirbornePosition(p, me, now.Add(time.Second))

	require.True(t, p.PosValid)
	require.True(t, p.PosLocalValid)
	require.InDelta(t, 51.5, p.Lat, 1e-3)
	require.InDelta(t, -0.12, p.Lon, 1e-3)
}

func TestDecodeAirbornePositionGlobalResolvesFromEvenOdd(t *testing.T) {
	now := time.Now()
	p := NewPlane(0xABCDEF, now)

	lat := 52.25
	lon := 3.91

	dLatEven, dLatOdd := airDlat(0), airDlat(1)
	yzEven := encodeCPR(lat, dLatEven)
	yzOdd := encodeCPR(lat, dLatOdd)

	niEven := maxInt(1, geo.NL(lat)-0)
	niOdd := maxInt(1, geo.NL(lat)-1)
	xzEven := encodeCPR(lon, 360.0/float64(niEven))
	xzOdd := encodeCPR(lon, 360.0/float64(niOdd))

	evenMe := meWithPosition(false, yzEven, xzEven)
	decodeAirbornePosition(p, evenMe, now)

	oddMe := meWithPosition(true, yzOdd, xzOdd)
	decodeAirbornePosition(p, oddMe, now.Add(100*time.Millisecond))

	require.True(t, p.PosValid)
	require.InDelta(t, lat, p.Lat, 0.05)
	require.InDelta(t, lon, p.Lon, 0.05)
}

func TestDecodeAirbornePositionLocalSanityGateRejectsFarJump(t *testing.T) {
	now := time.Now()
	p := NewPlane(0xABCDEF, now)
	p.PosValid = true
	p.PosLocalValid = true
	p.PosTime = now
	p.Lat = 10.0
	p.Lon = 10.0

	// Encode a position 5 degrees away in latitude: should fail the
	// |lat_new - lat_prev| < 1 sanity gate and clear PosLocalValid.
	farLat := 15.0
	dLat := airDlat(0)
	yz := encodeCPR(farLat, dLat)
	ni := maxInt(1, geo.NL(farLat)-0)
	dLon := 360.0 / float64(ni)
	xz := encodeCPR(10.0, dLon)

	me := meWithPosition(false, yz, xz)
	decodeAirbornePosition(p, me, now.Add(time.Second))

	require.False(t, p.PosLocalValid)
	require.Equal(t, 10.0, p.Lat, "stored position must be left untouched on gate failure")
}
