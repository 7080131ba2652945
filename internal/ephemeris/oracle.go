// Package ephemeris supplies raw astronomical coordinates: Julian day numbers,
// house angles, the ayanamsa and body longitudes. Callers treat it as an
// oracle; the analytic backend here is a low-precision, pure-Go model.
package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// BodyID names the bodies the oracle can locate.
type BodyID string

const (
	Sun      BodyID = "sun"
	Moon     BodyID = "moon"
	Mercury  BodyID = "mercury"
	Venus    BodyID = "venus"
	Mars     BodyID = "mars"
	Jupiter  BodyID = "jupiter"
	Saturn   BodyID = "saturn"
	Uranus   BodyID = "uranus"
	Neptune  BodyID = "neptune"
	Pluto    BodyID = "pluto"
	MeanNode BodyID = "mean_node"
)

// HouseSystem is the single-letter house system code.
type HouseSystem byte

const (
	Placidus  HouseSystem = 'P'
	Porphyry  HouseSystem = 'O'
	Equal     HouseSystem = 'E'
	WholeSign HouseSystem = 'W'
)

// ParseHouseSystem accepts a one-letter code or a system name.
func ParseHouseSystem(s string) (HouseSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "placidus":
		return Placidus, nil
	case "o", "porphyry":
		return Porphyry, nil
	case "e", "equal":
		return Equal, nil
	case "w", "whole", "whole_sign":
		return WholeSign, nil
	}
	return 0, fmt.Errorf("unknown house system %q", s)
}

func (h HouseSystem) String() string { return string(h) }

// AyanamsaMode selects the sidereal reference.
type AyanamsaMode string

const (
	FaganBradley AyanamsaMode = "fagan_bradley"
	Lahiri       AyanamsaMode = "lahiri"
)

// ParseAyanamsaMode validates a configured mode name.
func ParseAyanamsaMode(s string) (AyanamsaMode, error) {
	switch mode := AyanamsaMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case FaganBradley, Lahiri:
		return mode, nil
	case "":
		return FaganBradley, nil
	}
	return "", fmt.Errorf("unknown ayanamsa mode %q", s)
}

// HouseResult is the oracle's house computation for one epoch and place.
type HouseResult struct {
	Ascendant float64
	Midheaven float64
	Cusps     [12]float64
}

var (
	// ErrUnknownBody is returned for body identifiers the oracle cannot locate.
	ErrUnknownBody = errors.New("unknown body")
	// ErrHousesUndefined is returned when a house system has no solution at the given latitude.
	ErrHousesUndefined = errors.New("house system undefined at this latitude")
	// ErrInvalidDate is returned by DayNumber for impossible calendar fields.
	ErrInvalidDate = errors.New("invalid calendar date")
)

// Oracle is the contract every ephemeris backend satisfies. Implementations
// must be safe for concurrent use.
type Oracle interface {
	DayNumber(year, month, day int, hour float64) (float64, error)
	Houses(ctx context.Context, jd, lat, lon float64, system HouseSystem) (HouseResult, error)
	Ayanamsa(ctx context.Context, jd float64) (float64, error)
	BodyLongitude(ctx context.Context, jd float64, body BodyID) (float64, error)
}
