package ephemeris

import (
	"context"
	"fmt"
	"math"
)

// Analytic is the in-process Oracle. It holds no mutable state.
type Analytic struct {
	mode AyanamsaMode
}

// NewAnalytic returns an analytic oracle using the given ayanamsa mode.
func NewAnalytic(mode AyanamsaMode) *Analytic {
	if mode == "" {
		mode = FaganBradley
	}
	return &Analytic{mode: mode}
}

// DayNumber implements Oracle.
func (a *Analytic) DayNumber(year, month, day int, hour float64) (float64, error) {
	return DayNumber(year, month, day, hour)
}

// Houses implements Oracle.
func (a *Analytic) Houses(ctx context.Context, jd, lat, lon float64, system HouseSystem) (HouseResult, error) {
	if err := ctx.Err(); err != nil {
		return HouseResult{}, err
	}
	return ComputeHouses(jd, lat, lon, system)
}

// Ayanamsa implements Oracle.
func (a *Analytic) Ayanamsa(ctx context.Context, jd float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return AyanamsaAt(jd, a.mode)
}

// BodyLongitude implements Oracle.
func (a *Analytic) BodyLongitude(ctx context.Context, jd float64, body BodyID) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	lon, err := Longitude(jd, body)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return 0, fmt.Errorf("non-finite longitude for %s", body)
	}
	return lon, nil
}
