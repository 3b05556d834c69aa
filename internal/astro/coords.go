// Package astro provides the coordinate and photometry math behind catalog
// positions: RA/Dec to cartesian, absolute and apparent magnitudes.
package astro

import (
	"math"
)

// SkyCoord is an equatorial J2000 position with distance.
type SkyCoord struct {
	RAdeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)
	DistLy float64 // Distance in light years
}

// EquatorialToCartesian converts RA/Dec/distance to equatorial XYZ with X
// toward the vernal equinox and Z toward the north celestial pole.
func EquatorialToCartesian(c SkyCoord) Vec3 {
	ra := degToRad(c.RAdeg)
	dec := degToRad(c.DecDeg)
	return Vec3{
		X: c.DistLy * math.Cos(dec) * math.Cos(ra),
		Y: c.DistLy * math.Cos(dec) * math.Sin(ra),
		Z: c.DistLy * math.Sin(dec),
	}
}

// CartesianToEquatorial is the inverse of EquatorialToCartesian.
func CartesianToEquatorial(v Vec3) SkyCoord {
	r := v.Norm()
	if r == 0 {
		return SkyCoord{}
	}
	ra := radToDeg(math.Atan2(v.Y, v.X))
	if ra < 0 {
		ra += 360
	}
	return SkyCoord{
		RAdeg:  ra,
		DecDeg: radToDeg(math.Asin(v.Z / r)),
		DistLy: r,
	}
}

// CatalogPosition returns the heliocentric ecliptic position in light years
// used as the spatial key of stars and deep-sky objects.
func CatalogPosition(c SkyCoord) Vec3 {
	return EquatorialToEcliptic(EquatorialToCartesian(c))
}

// Direction returns the unit ecliptic vector toward RA/Dec.
func Direction(raDeg, decDeg float64) Vec3 {
	return CatalogPosition(SkyCoord{RAdeg: raDeg, DecDeg: decDeg, DistLy: 1})
}

// AngularSeparation calculates the angular separation between two points on
// the celestial sphere. All coordinates in degrees.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	ra1Rad := degToRad(ra1)
	dec1Rad := degToRad(dec1)
	ra2Rad := degToRad(ra2)
	dec2Rad := degToRad(dec2)

	// Haversine
	dRA := ra2Rad - ra1Rad
	dDec := dec2Rad - dec1Rad

	a := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1Rad)*math.Cos(dec2Rad)*math.Sin(dRA/2)*math.Sin(dRA/2)

	if a > 1 {
		a = 1
	}

	return radToDeg(2 * math.Asin(math.Sqrt(a)))
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return degToRad(deg) }
