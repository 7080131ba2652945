package ephemeris

import (
	"errors"
	"fmt"
	"math"
)

const placidusTolerance = 1e-9

var placidusMaxIterations = 50

// ComputeHouses returns the ascendant, midheaven and cusps for a UT Julian
// day at a geographic latitude and east-positive longitude.
func ComputeHouses(julian, lat, lon float64, system HouseSystem) (HouseResult, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 {
		return HouseResult{}, fmt.Errorf("latitude %v out of range", lat)
	}
	eps := obliquity(Centuries(julian))
	ramc := Normalize(siderealTime(julian) + lon)

	res := HouseResult{
		Ascendant: ascendant(ramc, eps, lat),
		Midheaven: midheaven(ramc, eps),
	}

	switch system {
	case Equal:
		for i := range res.Cusps {
			res.Cusps[i] = Normalize(res.Ascendant + float64(i)*30)
		}
	case WholeSign:
		first := math.Floor(res.Ascendant/30) * 30
		for i := range res.Cusps {
			res.Cusps[i] = Normalize(first + float64(i)*30)
		}
	case Porphyry:
		res.Cusps = porphyryCusps(res.Ascendant, res.Midheaven)
	case Placidus:
		cusps, err := placidusCusps(ramc, eps, lat, res.Ascendant, res.Midheaven)
		if errors.Is(err, ErrHousesUndefined) {
			// No Placidus solution here; cusps fall back to Porphyry.
			cusps, err = porphyryCusps(res.Ascendant, res.Midheaven), nil
		}
		if err != nil {
			return HouseResult{}, err
		}
		res.Cusps = cusps
	default:
		return HouseResult{}, fmt.Errorf("unsupported house system %q", string(system))
	}
	return res, nil
}

// ascendant is the ecliptic longitude rising on the eastern horizon.
func ascendant(ramc, eps, lat float64) float64 {
	return atan2Deg(cosDeg(ramc), -(sinDeg(ramc)*cosDeg(eps) + tanDeg(lat)*sinDeg(eps)))
}

// midheaven is the ecliptic longitude culminating on the meridian.
func midheaven(ramc, eps float64) float64 {
	return atan2Deg(sinDeg(ramc), cosDeg(ramc)*cosDeg(eps))
}

// eclipticFromRA returns the ecliptic longitude of the ecliptic point with
// right ascension ra.
func eclipticFromRA(ra, eps float64) float64 {
	return atan2Deg(sinDeg(ra), cosDeg(ra)*cosDeg(eps))
}

func porphyryCusps(asc, mc float64) [12]float64 {
	var c [12]float64
	ic := Normalize(mc + 180)
	dsc := Normalize(asc + 180)

	lower := Normalize(ic - asc)
	upper := Normalize(dsc - ic)

	c[0] = asc
	c[1] = Normalize(asc + lower/3)
	c[2] = Normalize(asc + 2*lower/3)
	c[3] = ic
	c[4] = Normalize(ic + upper/3)
	c[5] = Normalize(ic + 2*upper/3)
	for i := 6; i < 12; i++ {
		c[i] = Normalize(c[i-6] + 180)
	}
	return c
}

// placidusCusps trisects the diurnal and nocturnal semi-arcs in time.
func placidusCusps(ramc, eps, lat, asc, mc float64) ([12]float64, error) {
	var c [12]float64
	if math.Abs(lat) >= 90-eps {
		return c, fmt.Errorf("%w: %.2f", ErrHousesUndefined, lat)
	}

	c11, err := placidusCusp(ramc, eps, lat, 1.0/3, true)
	if err != nil {
		return c, err
	}
	c12, err := placidusCusp(ramc, eps, lat, 2.0/3, true)
	if err != nil {
		return c, err
	}
	c2, err := placidusCusp(ramc, eps, lat, 2.0/3, false)
	if err != nil {
		return c, err
	}
	c3, err := placidusCusp(ramc, eps, lat, 1.0/3, false)
	if err != nil {
		return c, err
	}

	c[0] = asc
	c[1] = c2
	c[2] = c3
	c[3] = Normalize(mc + 180)
	c[9] = mc
	c[10] = c11
	c[11] = c12
	for _, i := range []int{0, 1, 2} {
		c[i+6] = Normalize(c[i] + 180)
	}
	c[4] = Normalize(c11 + 180)
	c[5] = Normalize(c12 + 180)
	return c, nil
}

// placidusCusp finds the ecliptic point that has travelled fraction of its
// semi-arc away from the meridian: above the horizon measured from the MC,
// below it measured back from the IC.
func placidusCusp(ramc, eps, lat, fraction float64, diurnal bool) (float64, error) {
	ra := ramc + fraction*90
	if !diurnal {
		ra = ramc + 180 - fraction*90
	}

	converged := false
	var lambda float64
	for i := 0; i < placidusMaxIterations; i++ {
		lambda = eclipticFromRA(ra, eps)
		decl := math.Asin(sinDeg(eps)*sinDeg(lambda)) * rad2deg
		x := tanDeg(lat) * tanDeg(decl)
		if x < -1 || x > 1 {
			return 0, fmt.Errorf("%w: circumpolar cusp at %.2f", ErrHousesUndefined, lat)
		}
		ad := math.Asin(x) * rad2deg

		next := ramc + fraction*(90+ad)
		if !diurnal {
			next = ramc + 180 - fraction*(90-ad)
		}
		if math.Abs(next-ra) < placidusTolerance {
			ra = next
			converged = true
			break
		}
		ra = next
	}
	if !converged {
		return 0, fmt.Errorf("%w: cusp did not converge at %.2f", ErrHousesUndefined, lat)
	}
	return eclipticFromRA(ra, eps), nil
}
