package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miradorstack/natal-engine/internal/ephemeris"
	"github.com/miradorstack/natal-engine/internal/models"
	"github.com/miradorstack/natal-engine/internal/utils"
)

type dayNumberFunc func(year, month, day int, hour float64) (float64, error)

func (f dayNumberFunc) DayNumber(year, month, day int, hour float64) (float64, error) {
	return f(year, month, day, hour)
}

func madrid(t *testing.T) *time.Location {
	t.Helper()
	loc, err := utils.LoadZone("Europe/Madrid")
	require.NoError(t, err)
	return loc
}

func TestResolveConvertsLocalTimeToUT(t *testing.T) {
	resolver := NewTimeResolver(dayNumberFunc(ephemeris.DayNumber), madrid(t))

	cases := []struct {
		name  string
		date  string
		clock string
		ut    time.Time
	}{
		{"winter", "2000-01-01", "12:00", time.Date(2000, 1, 1, 11, 0, 0, 0, time.UTC)},
		{"summer", "2021-07-01", "12:00", time.Date(2021, 7, 1, 10, 0, 0, 0, time.UTC)},
		{"previous UT day", "2000-01-01", "00:30", time.Date(1999, 12, 31, 23, 30, 0, 0, time.UTC)},
		{"fall-back repeats the hour", "2021-10-31", "02:30", time.Date(2021, 10, 31, 1, 30, 0, 0, time.UTC)},
		{"spring-forward gap", "2021-03-28", "02:30", time.Date(2021, 3, 28, 1, 30, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			epoch, ut, err := resolver.Resolve(models.BirthInput{Date: c.date, Time: c.clock})
			require.NoError(t, err)
			assert.True(t, ut.Equal(c.ut), "got %v want %v", ut, c.ut)

			want, err := ephemeris.DayNumber(c.ut.Year(), int(c.ut.Month()), c.ut.Day(), utils.FractionalHour(c.ut))
			require.NoError(t, err)
			assert.InDelta(t, want, float64(epoch), 1e-9)
		})
	}
}

func TestResolveEpochForReferenceMoment(t *testing.T) {
	resolver := NewTimeResolver(dayNumberFunc(ephemeris.DayNumber), madrid(t))
	epoch, _, err := resolver.Resolve(models.BirthInput{Date: "2000-01-01", Time: "12:00"})
	require.NoError(t, err)
	// 11:00 UT on 2000-01-01.
	assert.InDelta(t, 2451545.0-1.0/24, float64(epoch), 1e-9)
}

func TestResolveRejectsMalformedInput(t *testing.T) {
	resolver := NewTimeResolver(dayNumberFunc(ephemeris.DayNumber), madrid(t))

	inputs := []models.BirthInput{
		{Date: "2000-13-40", Time: "12:00"},
		{Date: "2000-01-01", Time: "25:99"},
		{Date: "01/01/2000", Time: "12:00"},
		{Date: "2000-02-30", Time: "12:00"},
		{Date: "", Time: "12:00"},
		{Date: "2000-01-01", Time: ""},
	}
	for _, in := range inputs {
		_, _, err := resolver.Resolve(in)
		require.Error(t, err, "input %+v", in)
		assert.True(t, errors.Is(err, utils.ErrParse), "input %+v: %v", in, err)
	}
}

func TestResolveWrapsOracleFailure(t *testing.T) {
	resolver := NewTimeResolver(dayNumberFunc(func(int, int, int, float64) (float64, error) {
		return 0, errOracleDown
	}), madrid(t))

	_, _, err := resolver.Resolve(models.BirthInput{Date: "2000-01-01", Time: "12:00"})
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrComputation)
	assert.ErrorIs(t, err, errOracleDown)
}

func TestNewTimeResolverDefaultsToUTC(t *testing.T) {
	resolver := NewTimeResolver(dayNumberFunc(ephemeris.DayNumber), nil)
	assert.Equal(t, time.UTC, resolver.Zone())
}
