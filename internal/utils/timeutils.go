package utils

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone rules must not depend on the host's zoneinfo
)

const (
	// DateLayout is the accepted civil date format.
	DateLayout = "2006-01-02"
	// ClockLayout is the accepted civil time-of-day format.
	ClockLayout = "15:04"
)

// LoadZone resolves an IANA zone name.
func LoadZone(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("empty time zone name")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}

// ParseCivil interprets a civil date and time of day as a wall-clock reading
// in loc. The fields must form a real calendar instant; no component is
// allowed to overflow into the next one.
//
// A wall-clock time repeated by a fall-back transition resolves to the
// standard-time instant. A wall-clock time skipped by a spring-forward
// transition is moved forward by the length of the gap.
func ParseCivil(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		return time.Time{}, fmt.Errorf("nil location")
	}
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("empty date or time value")
	}
	naive, err := time.Parse(DateLayout+" "+ClockLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q %q: %w", date, clock, err)
	}

	y, mo, d := naive.Date()
	h, mi, _ := naive.Clock()
	local := time.Date(y, mo, d, h, mi, 0, 0, loc)

	// Prefer the standard-time reading when the wall clock is ambiguous.
	if local.IsDST() {
		later := local.Add(time.Hour)
		if sameWallClock(later, y, mo, d, h, mi) && !later.IsDST() {
			local = later
		}
	}
	return local, nil
}

func sameWallClock(t time.Time, y int, mo time.Month, d, h, mi int) bool {
	ty, tmo, td := t.Date()
	th, tmi, _ := t.Clock()
	return ty == y && tmo == mo && td == d && th == h && tmi == mi
}

// FractionalHour returns hour + minute/60 (+ second/3600) of t.
func FractionalHour(t time.Time) float64 {
	h, m, s := t.Clock()
	return float64(h) + float64(m)/60 + float64(s)/3600
}
