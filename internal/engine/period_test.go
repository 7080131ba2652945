package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/miradorstack/natal-engine/internal/models"
)

func TestScheduleKnownValues(t *testing.T) {
	cases := map[float64]float64{
		0:     0,
		27:    0,
		13.5:  60,
		6.75:  30,
		40.5:  60,
		359.9: Round2(((359.9 - 13*27) / 27) * 120),
	}
	for lon, want := range cases {
		got := Schedule(models.EclipticAngle(lon))
		assert.InDelta(t, want, got.Start, 1e-9, "longitude %v", lon)
		assert.Equal(t, 120, got.TotalYears)
	}
}

func TestScheduleStartStaysInCycle(t *testing.T) {
	for lon := 0.0; lon < 360; lon += 0.0271 {
		got := Schedule(models.EclipticAngle(lon))
		if got.Start < 0 || got.Start >= 120 {
			t.Fatalf("Schedule(%v).Start = %v outside [0,120)", lon, got.Start)
		}
	}
	assert.Equal(t, 0.0, Schedule(26.9999).Start)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 12.35, Round2(12.345))
	assert.Equal(t, 60.0, Round2(60))
	assert.Equal(t, -1.23, Round2(-1.234))

	// Halves round on the decimal form: 29.995 is stored as 29.99499...
	// in binary but still reports 30.00.
	assert.Equal(t, 30.0, Round2(29.995))
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, -2.68, Round2(-2.675))
}
