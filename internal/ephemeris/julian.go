package ephemeris

import (
	"fmt"
	"math"

	"github.com/carlosjhr64/jd"
)

// J2000 is the Julian day of 2000-01-01 12:00.
const J2000 = 2451545.0

// DayNumber returns the Gregorian-calendar Julian day for a UT date and a
// fractional hour in [0,24).
func DayNumber(year, month, day int, hour float64) (float64, error) {
	if year < 0 || year > 9999 {
		return 0, fmt.Errorf("%w: year %d", ErrInvalidDate, year)
	}
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	if day < 1 || day > daysIn(year, month) {
		return 0, fmt.Errorf("%w: day %d", ErrInvalidDate, day)
	}
	if math.IsNaN(hour) || hour < 0 || hour >= 24 {
		return 0, fmt.Errorf("%w: hour %v", ErrInvalidDate, hour)
	}
	// jd.YMD2J counts from noon; shift to midnight before adding the hour.
	return float64(jd.YMD2J(year, month, day)) - 0.5 + hour/24, nil
}

// Centuries returns Julian centuries elapsed since J2000.
func Centuries(julian float64) float64 {
	return (julian - J2000) / 36525
}

func daysIn(year, month int) int {
	switch month {
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}
