package adsb

import (
	"math"
	"time"

	"github.com/OJPARKINSON/viz1090/internal/geo"
)

// cprLocalWindow bounds how stale a plane's established position may be for
// the local-unambiguous CPR decode to apply.
const cprLocalWindow = 15 * time.Second

// airDlat returns the even/odd latitude zone size in degrees; i is 0 for
// even frames, 1 for odd.
func airDlat(i int) float64 {
	return 360.0 / float64(60-i)
}

// decodeAirbornePosition updates the plane's CPR slots from the even/odd
// frame and, when possible, resolves a new lat/lon via the local or global
// unambiguous decode.
func decodeAirbornePosition(p *Plane, me []byte, now time.Time) {
	odd := bitsMSB1(me, 22, 22) == 1
	yz := int(bitsMSB1(me, 23, 39))
	xz := int(bitsMSB1(me, 40, 56))

	i := 0
	if odd {
		i = 1
		p.CPROdd = CPRSlot{Valid: true, Time: now, YZ: yz, XZ: xz}
	} else {
		p.CPREven = CPRSlot{Valid: true, Time: now, YZ: yz, XZ: xz}
	}

	if p.PosValid && now.Sub(p.PosTime) < cprLocalWindow {
		if decodeLocalPosition(p, i, yz, xz, now) {
			return
		}
	}

	decodeGlobalPosition(p, i, xz, now)
}

func decodeLocalPosition(p *Plane, i, yz, xz int, now time.Time) bool {
	dLat := airDlat(i)

	j := math.Floor(p.Lat/dLat) +
		math.Floor(0.5+geo.PMod(p.Lat, dLat)/dLat-float64(yz)/131072.0)
	latNew := geo.CorrLat(dLat * (j + float64(yz)/131072.0))

	ni := maxInt(1, geo.NL(latNew)-i)
	dLon := 360.0 / float64(ni)

	m := math.Floor(p.Lon/dLon) +
		math.Floor(0.5+geo.PMod(p.Lon, dLon)/dLon-float64(xz)/131072.0)
	lonNew := geo.CorrLon(dLon * (m + float64(xz)/131072.0))

	if math.Abs(latNew-p.Lat) >= 1 || math.Abs(lonNew-p.Lon) >= dLon/6 {
		p.PosLocalValid = false
		return false
	}

	p.Lat = latNew
	p.Lon = lonNew
	finalizePosition(p, now)
	return true
}

func decodeGlobalPosition(p *Plane, i, xz int, now time.Time) {
	if !p.CPREven.Valid || !p.CPROdd.Valid {
		return
	}
	if absDuration(p.CPREven.Time.Sub(p.CPROdd.Time)) >= cprLocalWindow {
		return
	}

	yzEven, yzOdd := float64(p.CPREven.YZ), float64(p.CPROdd.YZ)

	j := math.Floor((59*yzEven-60*yzOdd)/131072.0 + 0.5)
	lat0 := geo.CorrLat(airDlat(0) * (geo.PMod(j, 60) + yzEven/131072.0))
	lat1 := geo.CorrLat(airDlat(1) * (geo.PMod(j, 59) + yzOdd/131072.0))

	if geo.NL(lat0) != geo.NL(lat1) {
		return
	}

	nl := geo.NL(lat0)
	ni := maxInt(1, nl-i)
	dLon := 360.0 / float64(ni)

	xzEven, xzOdd := float64(p.CPREven.XZ), float64(p.CPROdd.XZ)
	m := math.Floor((xzEven*float64(nl-1)-xzOdd*float64(nl))/131072.0 + 0.5)

	lon := geo.CorrLon(dLon * (geo.PMod(m, float64(ni)) + float64(xz)/131072.0))

	lat := lat0
	if i == 1 {
		lat = lat1
	}

	p.Lat = lat
	p.Lon = lon
	finalizePosition(p, now)
}

func finalizePosition(p *Plane, now time.Time) {
	p.PosTime = now
	p.PosLocalValid = true
	p.PosSurface = false
	p.PosValid = true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
