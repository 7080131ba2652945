package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadZone(t *testing.T) {
	loc, err := LoadZone("Europe/Madrid")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", loc.String())

	_, err = LoadZone("")
	assert.Error(t, err)
	_, err = LoadZone("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestParseCivil(t *testing.T) {
	madrid, err := LoadZone("Europe/Madrid")
	require.NoError(t, err)
	newYork, err := LoadZone("America/New_York")
	require.NoError(t, err)

	cases := []struct {
		name  string
		date  string
		clock string
		loc   *time.Location
		utc   time.Time
	}{
		{"madrid winter", "2000-01-01", "12:00", madrid, time.Date(2000, 1, 1, 11, 0, 0, 0, time.UTC)},
		{"madrid summer", "1985-06-15", "23:45", madrid, time.Date(1985, 6, 15, 21, 45, 0, 0, time.UTC)},
		{"madrid fall-back", "2021-10-31", "02:30", madrid, time.Date(2021, 10, 31, 1, 30, 0, 0, time.UTC)},
		{"madrid gap", "2021-03-28", "02:30", madrid, time.Date(2021, 3, 28, 1, 30, 0, 0, time.UTC)},
		{"new york fall-back", "2021-11-07", "01:30", newYork, time.Date(2021, 11, 7, 6, 30, 0, 0, time.UTC)},
		{"surrounding whitespace", " 2000-01-01 ", " 12:00", time.UTC, time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseCivil(c.date, c.clock, c.loc)
			require.NoError(t, err)
			assert.True(t, got.UTC().Equal(c.utc), "got %v want %v", got.UTC(), c.utc)
		})
	}
}

func TestParseCivilRejectsMalformedInput(t *testing.T) {
	bad := [][2]string{
		{"2000-13-40", "12:00"},
		{"2000-01-01", "25:99"},
		{"2000-02-30", "12:00"},
		{"2000/01/01", "12:00"},
		{"2000-01-01", "12:00:00"},
		{"", "12:00"},
	}
	for _, in := range bad {
		_, err := ParseCivil(in[0], in[1], time.UTC)
		assert.Error(t, err, "input %q %q", in[0], in[1])
	}

	_, err := ParseCivil("2000-01-01", "12:00", nil)
	assert.Error(t, err)
}

func TestFractionalHour(t *testing.T) {
	assert.InDelta(t, 13.5, FractionalHour(time.Date(2000, 1, 1, 13, 30, 0, 0, time.UTC)), 1e-12)
	assert.InDelta(t, 0.0, FractionalHour(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)), 1e-12)
	assert.InDelta(t, 23.0+59.0/60+30.0/3600, FractionalHour(time.Date(2000, 1, 1, 23, 59, 30, 0, time.UTC)), 1e-12)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLevel("debug").String())
	assert.Equal(t, "WARN", ParseLevel(" Warning ").String())
	assert.Equal(t, "ERROR", ParseLevel("error").String())
	assert.Equal(t, "INFO", ParseLevel("verbose").String())
}
