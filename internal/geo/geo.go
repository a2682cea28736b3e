// Package geo implements the spherical geometry and CPR numeric helpers
// shared by the ADS-B position decoders: great-circle distance and initial
// bearing between two points, the CPR NL step function, and the modulo and
// range-folding helpers the CPR formulas need.
package geo

import (
	"math"
	"sort"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the spherical Earth radius used for distance
// calculations (mean radius, matching the teacher lineage's map scale).
const EarthRadiusMeters = 6371000.0

// LatLon is a geographic position in degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// DistanceBearing returns the great-circle distance in metres between from
// and to, and the initial bearing in degrees [0, 360) from from towards to.
// Distance is computed via the s2 spherical angle between the two points;
// bearing is not exposed by golang/geo/s2, so it is derived directly from
// the same s2.LatLng radians using the standard spherical bearing formula.
func DistanceBearing(from, to LatLon) (metres, bearingDeg float64) {
	ll1 := s2.LatLngFromDegrees(from.Lat, from.Lon)
	ll2 := s2.LatLngFromDegrees(to.Lat, to.Lon)

	angle := ll1.Distance(ll2)
	metres = float64(angle) * EarthRadiusMeters

	phi1, phi2 := ll1.Lat.Radians(), ll2.Lat.Radians()
	dLambda := ll2.Lng.Radians() - ll1.Lng.Radians()

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)

	bearingDeg = PMod(math.Atan2(y, x)*180/math.Pi, 360)
	return metres, bearingDeg
}

// nlThreshold pairs a latitude (the upper bound, exclusive, of its zone)
// with the longitude-zone count that applies below it.
type nlThreshold struct {
	lat float64
	nl  int
}

// nlTable is the RTCA 1090-WP-9-14 NL step function, in ascending latitude
// order so NL can binary-search it instead of cascading through 58 branches.
var nlTable = []nlThreshold{
	{10.47047130, 59}, {14.82817437, 58}, {18.18626357, 57}, {21.02939493, 56},
	{23.54504487, 55}, {25.82924707, 54}, {27.93898710, 53}, {29.91135686, 52},
	{31.77209708, 51}, {33.53993436, 50}, {35.22899598, 49}, {36.85025108, 48},
	{38.41241892, 47}, {39.92256684, 46}, {41.38651832, 45}, {42.80914012, 44},
	{44.19454951, 43}, {45.54626723, 42}, {46.86733252, 41}, {48.16039128, 40},
	{49.42776439, 39}, {50.67150166, 38}, {51.89342469, 37}, {53.09516153, 36},
	{54.27817472, 35}, {55.44378444, 34}, {56.59318756, 33}, {57.72747354, 32},
	{58.84763776, 31}, {59.95459277, 30}, {61.04917774, 29}, {62.13216659, 28},
	{63.20427479, 27}, {64.26616523, 26}, {65.31845310, 25}, {66.36171008, 24},
	{67.39646774, 23}, {68.42322022, 22}, {69.44242631, 21}, {70.45451075, 20},
	{71.45986473, 19}, {72.45884545, 18}, {73.45177442, 17}, {74.43893416, 16},
	{75.42056257, 15}, {76.39684391, 14}, {77.36789461, 13}, {78.33374083, 12},
	{79.29428225, 11}, {80.24923213, 10}, {81.19801349, 9}, {82.13956981, 8},
	{83.07199445, 7}, {83.99173563, 6}, {84.89166191, 5}, {85.75541621, 4},
	{86.53536998, 3}, {87.00000000, 2},
}

// NL returns the number of CPR longitude zones at the given latitude.
// Symmetric about the equator; latitudes at or above 87 degrees return 1.
func NL(lat float64) int {
	abs := math.Abs(lat)
	idx := sort.Search(len(nlTable), func(i int) bool { return abs < nlTable[i].lat })
	if idx == len(nlTable) {
		return 1
	}
	return nlTable[idx].nl
}

// PMod is the always-non-negative modulo ((x mod m) + m) mod m.
func PMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// PModInt is the integer form of PMod. The CPR decoders in internal/adsb use
// the float form, PMod.
func PModInt(x, m int) int {
	r := x % m
	if r < 0 {
		r += m
	}
	return r
}

// foldHalfRange folds a value in [180, 360) down into [-180, 0), leaving
// anything already below 180 untouched.
func foldHalfRange(v float64) float64 {
	if v >= 180 {
		return v - 360
	}
	return v
}

// CorrLat folds a raw CPR latitude result into the standard -90..90 range
// representation used before validity checks are applied.
func CorrLat(lat float64) float64 { return foldHalfRange(lat) }

// CorrLon folds a raw CPR longitude result the same way CorrLat does.
func CorrLon(lon float64) float64 { return foldHalfRange(lon) }
