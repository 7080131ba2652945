package engine

import (
	"context"
	"errors"

	"github.com/miradorstack/natal-engine/internal/ephemeris"
)

var errOracleDown = errors.New("oracle down")

// fakeOracle returns fixed values; it is read-only and safe for concurrent use.
type fakeOracle struct {
	ascendant  float64
	ayanamsa   float64
	longitudes map[ephemeris.BodyID]float64
	failBody   ephemeris.BodyID
	failHouses bool
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		ascendant: 100.25,
		ayanamsa:  24.0,
		longitudes: map[ephemeris.BodyID]float64{
			ephemeris.Sun:      211.57,
			ephemeris.Moon:     88.66,
			ephemeris.Mercury:  193.29,
			ephemeris.Venus:    165.66,
			ephemeris.Mars:     91.98,
			ephemeris.Jupiter:  18.44,
			ephemeris.Saturn:   122.92,
			ephemeris.Uranus:   213.06,
			ephemeris.Neptune:  250.43,
			ephemeris.Pluto:    190.32,
			ephemeris.MeanNode: 5.5,
		},
	}
}

func (f *fakeOracle) DayNumber(year, month, day int, hour float64) (float64, error) {
	return ephemeris.DayNumber(year, month, day, hour)
}

func (f *fakeOracle) Houses(ctx context.Context, jd, lat, lon float64, system ephemeris.HouseSystem) (ephemeris.HouseResult, error) {
	if f.failHouses {
		return ephemeris.HouseResult{}, errOracleDown
	}
	return ephemeris.HouseResult{Ascendant: f.ascendant}, nil
}

func (f *fakeOracle) Ayanamsa(ctx context.Context, jd float64) (float64, error) {
	return f.ayanamsa, nil
}

func (f *fakeOracle) BodyLongitude(ctx context.Context, jd float64, body ephemeris.BodyID) (float64, error) {
	if body == f.failBody {
		return 0, errOracleDown
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	lon, ok := f.longitudes[body]
	if !ok {
		return 0, ephemeris.ErrUnknownBody
	}
	return lon, nil
}
