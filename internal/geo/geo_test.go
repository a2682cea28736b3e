package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNLBoundaries(t *testing.T) {
	require.Equal(t, 59, NL(0))
	require.Equal(t, 59, NL(-5))
	require.Equal(t, 1, NL(89))
	require.Equal(t, 1, NL(-89))
	require.Equal(t, NL(51.9), NL(-51.9))
}

func TestPMod(t *testing.T) {
	require.Equal(t, 2.0, PMod(-4, 6))
	require.Equal(t, 0, PModInt(-60, 60))
	require.Equal(t, 1, PModInt(-59, 60))
}

func TestCorrLatLon(t *testing.T) {
	require.InDelta(t, -10.0, CorrLat(350), 1e-9)
	require.InDelta(t, 170.0, CorrLon(170), 1e-9)
}

func TestDistanceBearingKnownPair(t *testing.T) {
	london := LatLon{Lat: 51.5, Lon: -0.1275}
	paris := LatLon{Lat: 48.8566, Lon: 2.3522}

	dist, bearing := DistanceBearing(london, paris)

	require.InDelta(t, 343000, dist, 5000)
	require.InDelta(t, 150, bearing, 5)
}
