package ephemeris

import (
	"fmt"
	"math"
)

// orbit holds J2000 mean elements and their rates per Julian century:
// semi-major axis (au), eccentricity, inclination, mean longitude,
// longitude of perihelion and longitude of the ascending node (degrees).
type orbit struct {
	a, aDot       float64
	e, eDot       float64
	i, iDot       float64
	l, lDot       float64
	peri, periDot float64
	node, nodeDot float64
}

// Mean elements valid 1800-2050 (Standish, JPL approximate positions).
var orbits = map[BodyID]orbit{
	Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749, 252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	Venus:   {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890, 181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	"earth": {1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668, 100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0},
	Mars:    {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131, -4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714, 34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	Saturn:  {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609, 49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	Uranus:  {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939, 313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372, -55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
	Pluto:   {39.48211675, -0.00031596, 0.24882730, 0.00005170, 17.14001206, 0.00004818, 238.92903833, 145.20780515, 224.06891629, -0.04062942, 110.30393684, -0.01183482},
}

// Longitude returns the geocentric ecliptic longitude of body, referred to
// the mean equinox of date, in degrees.
func Longitude(julian float64, body BodyID) (float64, error) {
	t := Centuries(julian)
	switch body {
	case Moon:
		return moonLongitude(t), nil
	case MeanNode:
		return meanNode(t), nil
	case Sun:
		x, y, _ := heliocentric(orbits["earth"], t)
		return Normalize(math.Atan2(-y, -x)*rad2deg + precession(t)), nil
	}

	elements, ok := orbits[body]
	if !ok || body == "earth" {
		return 0, fmt.Errorf("%w: %q", ErrUnknownBody, string(body))
	}
	px, py, _ := heliocentric(elements, t)
	ex, ey, _ := heliocentric(orbits["earth"], t)
	return Normalize(math.Atan2(py-ey, px-ex)*rad2deg + precession(t)), nil
}

// heliocentric returns J2000 ecliptic rectangular coordinates in au.
func heliocentric(o orbit, t float64) (x, y, z float64) {
	a := o.a + o.aDot*t
	e := o.e + o.eDot*t
	incl := o.i + o.iDot*t
	l := o.l + o.lDot*t
	peri := o.peri + o.periDot*t
	node := o.node + o.nodeDot*t

	argPeri := peri - node
	meanAnomaly := math.Mod(l-peri, 360)
	if meanAnomaly > 180 {
		meanAnomaly -= 360
	} else if meanAnomaly < -180 {
		meanAnomaly += 360
	}

	ecc := solveKepler(meanAnomaly*deg2rad, e)
	xp := a * (math.Cos(ecc) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ecc)

	cw, sw := cosDeg(argPeri), sinDeg(argPeri)
	cn, sn := cosDeg(node), sinDeg(node)
	ci, si := cosDeg(incl), sinDeg(incl)

	x = (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp
	y = (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp
	z = (sw*si)*xp + (cw*si)*yp
	return x, y, z
}

// solveKepler returns the eccentric anomaly (radians) for mean anomaly m.
func solveKepler(m, e float64) float64 {
	ecc := m + e*math.Sin(m)
	for i := 0; i < 30; i++ {
		delta := (ecc - e*math.Sin(ecc) - m) / (1 - e*math.Cos(ecc))
		ecc -= delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}
	return ecc
}

// lunarTerm is one periodic term of the Moon's longitude: coefficients of
// D, M, M', F and the amplitude in 1e-6 degrees.
type lunarTerm struct {
	d, m, mp, f int
	amp         float64
}

var lunarTerms = []lunarTerm{
	{0, 0, 1, 0, 6288774},
	{2, 0, -1, 0, 1274027},
	{2, 0, 0, 0, 658314},
	{0, 0, 2, 0, 213618},
	{0, 1, 0, 0, -185116},
	{0, 0, 0, 2, -114332},
	{2, 0, -2, 0, 58793},
	{2, -1, -1, 0, 57066},
	{2, 0, 1, 0, 53322},
	{2, -1, 0, 0, 45758},
	{0, 1, -1, 0, -40923},
	{1, 0, 0, 0, -34720},
	{0, 1, 1, 0, -30383},
	{2, 0, 0, -2, 15327},
	{0, 0, 1, 2, -12528},
	{0, 0, 1, -2, 10980},
	{4, 0, -1, 0, 10675},
	{0, 0, 3, 0, 10034},
	{4, 0, -2, 0, 8548},
	{2, 1, -1, 0, -7888},
	{2, 1, 0, 0, -6766},
	{1, 0, -1, 0, -5163},
	{1, 1, 0, 0, 4987},
	{2, -1, 1, 0, 4036},
}

func moonLongitude(t float64) float64 {
	lp := 218.3164477 + 481267.88123421*t
	d := 297.8501921 + 445267.1114034*t
	m := 357.5291092 + 35999.0502909*t
	mp := 134.9633964 + 477198.8675055*t
	f := 93.2720950 + 483202.0175233*t
	e := 1 - 0.002516*t

	var sum float64
	for _, term := range lunarTerms {
		arg := float64(term.d)*d + float64(term.m)*m + float64(term.mp)*mp + float64(term.f)*f
		amp := term.amp
		switch term.m {
		case 1, -1:
			amp *= e
		case 2, -2:
			amp *= e * e
		}
		sum += amp * sinDeg(arg)
	}
	return Normalize(lp + sum/1e6)
}

func meanNode(t float64) float64 {
	return Normalize(125.0445479 - 1934.1362891*t + 0.0020754*t*t + t*t*t/467441 - t*t*t*t/60616000)
}
