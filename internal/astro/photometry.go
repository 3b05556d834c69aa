package astro

import "math"

// LightYearsPerParsec converts parsecs to light years.
const LightYearsPerParsec = 3.26156

// MinDistanceLy floors distances in magnitude math so an object at the
// viewpoint has a finite, very bright apparent magnitude.
const MinDistanceLy = 1e-9

// AbsToAppMag returns the apparent magnitude of an object of absolute
// magnitude absMag seen from distLy light years.
func AbsToAppMag(absMag, distLy float64) float64 {
	if distLy < MinDistanceLy {
		distLy = MinDistanceLy
	}
	return absMag - 5 + 5*math.Log10(distLy/LightYearsPerParsec)
}

// AppToAbsMag returns the absolute magnitude of an object seen at appMag
// from distLy light years.
func AppToAbsMag(appMag, distLy float64) float64 {
	if distLy < MinDistanceLy {
		distLy = MinDistanceLy
	}
	return appMag + 5 - 5*math.Log10(distLy/LightYearsPerParsec)
}

// LimitingDistance returns the distance beyond which an object of absMag is
// fainter than limit.
func LimitingDistance(absMag, limit float64) float64 {
	return LightYearsPerParsec * math.Pow(10, (limit-absMag+5)/5)
}
