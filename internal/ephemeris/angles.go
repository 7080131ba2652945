package ephemeris

import "math"

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// Normalize folds any finite angle into [0,360).
func Normalize(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	// math.Mod of a tiny negative value plus 360 rounds back up to 360.
	if a >= 360 {
		a = 0
	}
	return a
}

func sinDeg(x float64) float64 { return math.Sin(x * deg2rad) }
func cosDeg(x float64) float64 { return math.Cos(x * deg2rad) }
func tanDeg(x float64) float64 { return math.Tan(x * deg2rad) }

func atan2Deg(y, x float64) float64 { return Normalize(math.Atan2(y, x) * rad2deg) }

// precession is the general precession in longitude since J2000, in degrees.
func precession(t float64) float64 {
	return (5028.796195*t + 1.1054348*t*t) / 3600
}

// obliquity is the mean obliquity of the ecliptic, in degrees.
func obliquity(t float64) float64 {
	return 23.439291111 - 0.0130041667*t - 1.6389e-7*t*t + 5.0361e-7*t*t*t
}

// siderealTime is Greenwich mean sidereal time, in degrees.
func siderealTime(julian float64) float64 {
	t := Centuries(julian)
	return Normalize(280.46061837 + 360.98564736629*(julian-J2000) + 0.000387933*t*t - t*t*t/38710000)
}
