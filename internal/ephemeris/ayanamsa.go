package ephemeris

import "fmt"

// ayanamsa values at J2000, in degrees.
var ayanamsaAtJ2000 = map[AyanamsaMode]float64{
	FaganBradley: 24.740300,
	Lahiri:       23.857092,
}

// AyanamsaAt returns the precession offset between the tropical and
// sidereal zodiacs for a Julian day.
func AyanamsaAt(julian float64, mode AyanamsaMode) (float64, error) {
	base, ok := ayanamsaAtJ2000[mode]
	if !ok {
		return 0, fmt.Errorf("unknown ayanamsa mode %q", string(mode))
	}
	return base + precession(Centuries(julian)), nil
}
